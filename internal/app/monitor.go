// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package app

import (
	"context"
	"time"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/session"
	"github.com/tomtom215/turnstile/internal/store"
)

// DefaultExpiryCheckInterval is used when no interval is configured.
const DefaultExpiryCheckInterval = 30 * time.Second

// ExpiryMonitor ends the session once the token's exp claim has passed, or
// when the token disappeared from the store while the session was active.
type ExpiryMonitor struct {
	app      *App
	interval time.Duration
}

// NewExpiryMonitor creates a monitor checking every interval.
func NewExpiryMonitor(app *App, interval time.Duration) *ExpiryMonitor {
	if interval <= 0 {
		interval = DefaultExpiryCheckInterval
	}
	return &ExpiryMonitor{app: app, interval: interval}
}

// Serve checks the token until ctx is done. It implements suture.Service.
func (m *ExpiryMonitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs one expiry check and reports whether the session was ended.
func (m *ExpiryMonitor) Check(ctx context.Context) bool {
	s := m.app.store
	if !s.Authenticated() {
		return false
	}

	token, err := m.app.tokens.Token(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Expiry check could not read the session token")
		return false
	}
	if token != "" && !session.IsExpired(token, m.app.now()) {
		return false
	}

	s.Invalidate(ctx, store.ReasonExpired)
	return true
}

// String names the service in supervisor logs.
func (m *ExpiryMonitor) String() string {
	return "session-expiry-monitor"
}
