// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/turnstile/internal/client/clienttest"
	"github.com/tomtom215/turnstile/internal/models"
)

func readerNames(readers []models.Reader) []string {
	names := make([]string, len(readers))
	for i, r := range readers {
		names[i] = r.Ubicacion
	}
	return names
}

func TestReaders_List(t *testing.T) {
	env := newLoggedInEnv(t)

	tests := []struct {
		name      string
		path      string
		wantNames []string
	}{
		{name: "all", path: "/api/v1/readers", wantNames: []string{"Entrada Principal", "Laboratorio"}},
		{name: "filter inactive", path: "/api/v1/readers?estado=Inactivo", wantNames: []string{"Laboratorio"}},
		{name: "search", path: "/api/v1/readers?search=principal", wantNames: []string{"Entrada Principal"}},
		{name: "active", path: "/api/v1/readers/active", wantNames: []string{"Entrada Principal"}},
		{name: "with records", path: "/api/v1/readers/with-records", wantNames: []string{"Entrada Principal", "Laboratorio"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var readers []models.Reader
			decode(t, rec, &readers)

			got := readerNames(readers)
			if fmt.Sprint(got) != fmt.Sprint(tt.wantNames) {
				t.Errorf("readers = %v, want %v", got, tt.wantNames)
			}
		})
	}
}

func TestReaders_LastActivity(t *testing.T) {
	env := newLoggedInEnv(t)

	var readers []models.Reader
	decode(t, env.do(t, http.MethodGet, "/api/v1/readers", nil), &readers)
	if readers[0].UltimaActividad == nil || readers[0].UltimaActividad.String() != "2024-01-15T17:30:00" {
		t.Errorf("ultimaActividad = %v, want 2024-01-15T17:30:00", readers[0].UltimaActividad)
	}
}

func TestCreateReader(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
		wantEstado models.Status
	}{
		{name: "defaults to active", body: models.ReaderDraft{Ubicacion: " Biblioteca "}, wantStatus: http.StatusCreated, wantEstado: models.StatusActive},
		{name: "explicit inactive", body: models.ReaderDraft{Ubicacion: "Gimnasio", Estado: models.StatusInactive}, wantStatus: http.StatusCreated, wantEstado: models.StatusInactive},
		{name: "missing ubicacion", body: models.ReaderDraft{Ubicacion: "   "}, wantStatus: http.StatusUnprocessableEntity, wantCode: ErrCodeValidation},
		{name: "unknown field", body: `{"ubicacion":"X","ip":"10.0.0.1"}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLoggedInEnv(t)

			rec := env.do(t, http.MethodPost, "/api/v1/readers", tt.body)
			if tt.wantCode != "" {
				expectError(t, rec, tt.wantStatus, tt.wantCode)
				if env.fake.Calls(clienttest.MethodCreateReader) != 0 {
					t.Error("invalid draft must not reach the backend")
				}
				return
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
			}
			var reader models.Reader
			decode(t, rec, &reader)
			if reader.Estado != tt.wantEstado {
				t.Errorf("estado = %q, want %q", reader.Estado, tt.wantEstado)
			}
			if n := len(env.app.Store().Snapshot().Readers); n != 3 {
				t.Errorf("snapshot readers = %d, want 3", n)
			}
		})
	}
}

func TestUpdateAndToggleReader(t *testing.T) {
	env := newLoggedInEnv(t)
	id := env.seed.lab.ID

	var reader models.Reader
	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/readers/%d", id), models.ReaderDraft{Ubicacion: "Laboratorio 2", Estado: models.StatusInactive})
	decode(t, rec, &reader)
	if reader.Ubicacion != "Laboratorio 2" {
		t.Errorf("ubicacion = %q", reader.Ubicacion)
	}

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/readers/%d/toggle", id), nil)
	decode(t, rec, &reader)
	if reader.Estado != models.StatusActive || reader.Ubicacion != "Laboratorio 2" {
		t.Errorf("toggled reader = %+v", reader)
	}

	expectError(t, env.do(t, http.MethodPost, "/api/v1/readers/999/toggle", nil), http.StatusNotFound, ErrCodeNotFound)
}

func TestDeleteReader(t *testing.T) {
	env := newLoggedInEnv(t)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/readers/%d", env.seed.entrada.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	snap := env.app.Store().Snapshot()
	if len(snap.Readers) != 1 {
		t.Errorf("readers = %d, want 1", len(snap.Readers))
	}
	// Records of a deleted reader stay, with the placeholder location
	orphaned := 0
	for _, r := range snap.Records {
		if r.LectorID == 0 {
			orphaned++
			if r.Lector != models.DeletedReaderLabel {
				t.Errorf("lector = %q, want %q", r.Lector, models.DeletedReaderLabel)
			}
		}
	}
	if orphaned != 2 {
		t.Errorf("orphaned records = %d, want 2", orphaned)
	}
}
