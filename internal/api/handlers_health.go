// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string     `json:"status"` // "healthy" or "degraded"
	Authenticated bool       `json:"authenticated"`
	Loading       bool       `json:"loading"`
	Breaker       string     `json:"breaker"`
	Version       uint64     `json:"snapshotVersion"`
	LastReload    *time.Time `json:"lastReload,omitempty"`
	WSClients     int        `json:"wsClients"`
	Uptime        float64    `json:"uptimeSeconds"`
}

// Health handles GET /health. It never calls the backend: the status is
// degraded only while the circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	s := h.app.Store()
	snap := s.Snapshot()

	health := HealthStatus{
		Status:        "healthy",
		Authenticated: s.Authenticated(),
		Loading:       s.Loading(),
		Breaker:       h.app.BreakerState(),
		Version:       snap.Version,
		Uptime:        time.Since(h.startTime).Seconds(),
	}
	if health.Breaker == "open" {
		health.Status = "degraded"
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt
		health.LastReload = &loadedAt
	}
	if h.wsHub != nil {
		health.WSClients = h.wsHub.GetClientCount()
	}

	WriteSuccess(w, r, health)
}
