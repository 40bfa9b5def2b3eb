// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/turnstile/internal/app"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader
//   - handlers_helpers.go: request decoding and query parsing
//   - handlers_auth.go: login, logout, session
//   - handlers_users.go, handlers_readers.go, handlers_records.go: entity endpoints
//   - handlers_views.go: view-state projections
//   - handlers_core.go: dashboard, reload, WebSocket
//   - handlers_health.go: health check
type Handler struct {
	app       *app.App
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler. hub may be nil when push updates are
// not served.
func NewHandler(a *app.App, hub *ws.Hub) *Handler {
	return &Handler{
		app:       a,
		wsHub:     hub,
		config:    a.Config(),
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-host origins and the configured CORS
// origins. Requests without Origin are rejected: browsers always send it.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}

	for _, allowedOrigin := range h.config.Server.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
