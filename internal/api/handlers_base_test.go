// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/app"
	"github.com/tomtom215/turnstile/internal/client/clienttest"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/session"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// testOrigin is the dashboard origin allowed by the test config
const testOrigin = "http://dashboard.test"

// envelope is APIResponse with the payload left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

// seeded holds the IDs assigned to the fixture entities
type seeded struct {
	juan, maria      models.User
	entrada, lab     models.Reader
	recordIDs        []int64
	latestRecordDate string
}

type apiTestEnv struct {
	app    *app.App
	fake   *clienttest.FakeAPI
	hub    *ws.Hub
	server http.Handler
	seed   seeded
}

func strPtr(s string) *string { return &s }

func mustTimestamp(t *testing.T, s string) models.Timestamp {
	t.Helper()
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("parse timestamp %q: %v", s, err)
	}
	return ts
}

// newAPITestEnv builds an app over a seeded fake backend:
//
//	users:   Juan Pérez (Activo, tag A1B2C3D4), María García (Inactivo)
//	readers: Entrada Principal (Activo), Laboratorio (Inactivo)
//	records: Juan entrada 2024-01-15 08:00, Juan salida 2024-01-15 17:30,
//	         María entrada 2024-01-16 09:15
func newAPITestEnv(t *testing.T, mutate func(*config.Config)) *apiTestEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Session.InMemory = true
	cfg.Views.Timezone = "UTC"
	cfg.Sync.ReloadTimeout = 2 * time.Second
	cfg.Server.RateLimitDisabled = true
	cfg.Server.CORSOrigins = []string{testOrigin}
	if mutate != nil {
		mutate(cfg)
	}

	tokens, err := session.Open(&cfg.Session)
	if err != nil {
		t.Fatalf("open token store: %v", err)
	}

	fake := clienttest.NewFakeAPI()
	var s seeded
	s.juan = fake.AddUser(models.User{Nombre: "Juan Pérez", Documento: "12345678", RfidTag: strPtr("A1B2C3D4")})
	s.maria = fake.AddUser(models.User{Nombre: "María García", Documento: "87654321", Estado: models.StatusInactive})
	s.entrada = fake.AddReader(models.Reader{Ubicacion: "Entrada Principal"})
	s.lab = fake.AddReader(models.Reader{Ubicacion: "Laboratorio", Estado: models.StatusInactive})
	for _, rec := range []struct {
		user     models.User
		reader   models.Reader
		movement models.Movement
		at       string
	}{
		{s.juan, s.entrada, models.MovementEntry, "2024-01-15T08:00:00"},
		{s.juan, s.entrada, models.MovementExit, "2024-01-15T17:30:00"},
		{s.maria, s.lab, models.MovementEntry, "2024-01-16T09:15:00"},
	} {
		user, reader := rec.user, rec.reader
		raw := fake.AddRecord(models.RawRecord{
			Usuario:        &user,
			Lector:         &reader,
			TipoMovimiento: rec.movement,
			FechaHora:      mustTimestamp(t, rec.at),
		})
		s.recordIDs = append(s.recordIDs, raw.ID)
	}
	s.latestRecordDate = "2024-01-16"

	a, err := app.New(cfg, tokens, fake, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)

	return &apiTestEnv{
		app:    a,
		fake:   fake,
		hub:    hub,
		server: NewRouter(NewHandler(a, hub)).SetupChi(),
		seed:   s,
	}
}

// newLoggedInEnv is newAPITestEnv followed by a successful login
func newLoggedInEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	env := newAPITestEnv(t, nil)
	env.login(t)
	return env
}

func (e *apiTestEnv) login(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", models.Credentials{Username: "admin", Password: "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

// do serves one request. body is JSON encoded unless it is a string, which is
// sent verbatim.
func (e *apiTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// decode parses the envelope and, when data is non-nil, its payload
func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

// expectError checks the status and error code of a failed request
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec, nil)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q (message %q)", env.Error.Code, code, env.Error.Message)
	}
	return env
}

func recordNames(records []models.DisplayRecord) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Usuario + "/" + string(r.TipoMovimiento)
	}
	return strings.Join(names, ",")
}
