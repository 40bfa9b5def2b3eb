// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/turnstile/internal/app"
	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/client/clienttest"
	"github.com/tomtom215/turnstile/internal/models"
)

// ========================================
// Login
// ========================================

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		backendErr error
		wantStatus int
		wantCode   string
		wantAuth   bool
	}{
		{
			name:       "valid credentials",
			body:       models.Credentials{Username: "admin", Password: "admin"},
			wantStatus: http.StatusOK,
			wantAuth:   true,
		},
		{
			name:       "username is trimmed",
			body:       models.Credentials{Username: "  admin ", Password: "admin"},
			wantStatus: http.StatusOK,
			wantAuth:   true,
		},
		{
			name:       "wrong password",
			body:       models.Credentials{Username: "admin", Password: "nope"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
		},
		{
			name:       "missing password",
			body:       models.Credentials{Username: "admin"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"username":"admin","password":"admin","remember":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name: "backend unreachable",
			body: models.Credentials{Username: "admin", Password: "admin"},
			backendErr: &client.NetworkError{
				Method: http.MethodPost,
				Path:   "/auth/login",
				Err:    errors.New("connection refused"),
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeBackendUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAPITestEnv(t, nil)
			if tt.backendErr != nil {
				env.fake.SetError(clienttest.MethodLogin, tt.backendErr)
			}

			rec := env.do(t, http.MethodPost, "/api/v1/auth/login", tt.body)
			if tt.wantCode != "" {
				expectError(t, rec, tt.wantStatus, tt.wantCode)
			} else if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if got := env.app.Store().Authenticated(); got != tt.wantAuth {
				t.Errorf("authenticated = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestLogin_LoadsCollections(t *testing.T) {
	env := newAPITestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", models.Credentials{Username: "admin", Password: "admin"})
	var info app.SessionInfo
	decode(t, rec, &info)

	if !info.Authenticated {
		t.Fatal("session should be authenticated")
	}
	if info.Version == 0 || info.LoadedAt == nil {
		t.Errorf("login should trigger a reload, got version %d loadedAt %v", info.Version, info.LoadedAt)
	}
	if n := len(env.app.Store().Snapshot().Users); n != 2 {
		t.Errorf("users loaded = %d, want 2", n)
	}
}

func TestLogin_BackendMessageSurfaced(t *testing.T) {
	env := newAPITestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", models.Credentials{Username: "admin", Password: "bad"})
	resp := expectError(t, rec, http.StatusUnauthorized, ErrCodeInvalidCredentials)
	if resp.Error.Message != "Credenciales inválidas" {
		t.Errorf("message = %q, want backend message", resp.Error.Message)
	}
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	env := newLoggedInEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", models.Credentials{Username: "admin", Password: "bad"})
	expectError(t, rec, http.StatusUnauthorized, ErrCodeInvalidCredentials)

	if !env.app.Store().Authenticated() {
		t.Error("a failed login must not end the current session")
	}
	if len(env.app.Store().Snapshot().Users) == 0 {
		t.Error("a failed login must not clear the collections")
	}
}

// ========================================
// Logout and Session
// ========================================

func TestLogout(t *testing.T) {
	env := newLoggedInEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info app.SessionInfo
	decode(t, rec, &info)
	if info.Authenticated {
		t.Error("session should be closed after logout")
	}
	if snap := env.app.Store().Snapshot(); len(snap.Users) != 0 || len(snap.Records) != 0 {
		t.Error("logout should empty the collections")
	}

	expectError(t, env.do(t, http.MethodGet, "/api/v1/users", nil), http.StatusUnauthorized, ErrCodeNotAuthenticated)
}

func TestSession(t *testing.T) {
	env := newAPITestEnv(t, nil)

	var info app.SessionInfo
	decode(t, env.do(t, http.MethodGet, "/api/v1/auth/session", nil), &info)
	if info.Authenticated {
		t.Error("fresh app should not be authenticated")
	}

	env.login(t)
	decode(t, env.do(t, http.MethodGet, "/api/v1/auth/session", nil), &info)
	if !info.Authenticated {
		t.Error("session should be authenticated after login")
	}
	if info.ExpiresAt != nil {
		t.Errorf("opaque token should have no expiry, got %v", info.ExpiresAt)
	}
}

func TestRequireSession(t *testing.T) {
	env := newAPITestEnv(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/readers/active"},
		{http.MethodGet, "/api/v1/records/export"},
		{http.MethodGet, "/api/v1/views/recent"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodPost, "/api/v1/reload"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			expectError(t, env.do(t, p.method, p.path, nil), http.StatusUnauthorized, ErrCodeNotAuthenticated)
		})
	}

	if env.fake.Calls(clienttest.MethodListUsers) != 0 {
		t.Error("unauthenticated requests must not reach the backend")
	}
}

func TestExpiredSessionDuringMutation(t *testing.T) {
	env := newLoggedInEnv(t)
	env.fake.SetError(clienttest.MethodCreateUser, clienttest.Unauthorized())

	rec := env.do(t, http.MethodPost, "/api/v1/users", models.UserDraft{Nombre: "Ana", Documento: "555"})
	expectError(t, rec, http.StatusUnauthorized, ErrCodeSessionExpired)

	if env.app.Store().Authenticated() {
		t.Error("a 401 from the backend should end the session")
	}
	if len(env.app.Store().Snapshot().Users) != 0 {
		t.Error("collections should be emptied when the session ends")
	}
	expectError(t, env.do(t, http.MethodGet, "/api/v1/users", nil), http.StatusUnauthorized, ErrCodeNotAuthenticated)
}

func TestExpiredSessionDuringReloadAfterMutation(t *testing.T) {
	env := newLoggedInEnv(t)
	env.fake.SetError(clienttest.MethodListUsers, clienttest.Unauthorized())

	rec := env.do(t, http.MethodPost, "/api/v1/users", models.UserDraft{Nombre: "Ana", Documento: "555"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec, nil)
	if resp.Meta == nil || !resp.Meta.Stale || resp.Meta.Code != ErrCodeSessionExpired {
		t.Fatalf("meta = %+v, want stale with code %s", resp.Meta, ErrCodeSessionExpired)
	}
	if env.app.Store().Authenticated() {
		t.Error("a 401 during the follow-up reload should end the session")
	}
}
