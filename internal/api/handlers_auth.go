// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
)

// Login handles POST /api/v1/auth/login.
//
// A 401 from the backend here means wrong credentials, not an expired
// session, so it gets its own error code and ends no session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		respondError(w, r, err)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)

	info, err := h.app.Login(r.Context(), creds)
	if err != nil {
		if client.IsUnauthorized(err) {
			logging.Ctx(r.Context()).Info().Str("username", sanitizeLogValue(creds.Username)).Msg("Login rejected")
			WriteError(w, r, http.StatusUnauthorized, ErrCodeInvalidCredentials, messageOr(err, "invalid username or password"))
			return
		}
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, info)
}

// Logout handles POST /api/v1/auth/logout. Logging out without a session is
// not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.app.Logout(r.Context())
	WriteSuccess(w, r, h.app.SessionInfo(r.Context()))
}

// Session handles GET /api/v1/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.app.SessionInfo(r.Context()))
}

// requireSession rejects requests while no session is active. Handlers
// behind it read the snapshot, which is empty without a session.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.app.Store().Authenticated() {
			respondError(w, r, errNotAuthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
