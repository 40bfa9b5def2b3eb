// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/views"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// ReloadResult is the body of POST /api/v1/reload.
type ReloadResult struct {
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	Users    int       `json:"usuarios"`
	Readers  int       `json:"lectores"`
	Records  int       `json:"registros"`
}

// Dashboard handles GET /api/v1/dashboard: user and reader counts by status,
// the records summary and the most recent records.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Store().Snapshot()
	dashboard := views.BuildDashboard(snap, h.app.Now(), h.config.Views.RecentLimit)
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, dashboard, &APIMeta{Version: snap.Version})
}

// Reload handles POST /api/v1/reload, refetching every collection. Concurrent
// calls share one backend round trip. A failed reload keeps the previous data
// and reports the error.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.app.Store().ReloadAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, ReloadResult{
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
		Users:    len(snap.Users),
		Readers:  len(snap.Readers),
		Records:  len(snap.Records),
	}, &APIMeta{Version: snap.Version})
}

// WebSocket handles GET /api/v1/ws. Connected browsers receive
// snapshot_updated after every reload and session_expired when the session
// ends, and refetch what they display.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeUpgradeFailed, "WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	select {
	case h.wsHub.Register <- client:
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}
	client.Start()
}
