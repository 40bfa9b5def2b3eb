// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizeRecord_FallbackLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        RawRecord
		wantUser   string
		wantReader string
	}{
		{
			name:       "both relations present",
			raw:        RawRecord{ID: 1, Usuario: &User{ID: 1, Nombre: "Juan Pérez"}, Lector: &Reader{ID: 2, Ubicacion: "Entrada Principal"}},
			wantUser:   "Juan Pérez",
			wantReader: "Entrada Principal",
		},
		{
			name:       "user deleted",
			raw:        RawRecord{ID: 2, Lector: &Reader{ID: 2, Ubicacion: "Almacén"}},
			wantUser:   DeletedUserLabel,
			wantReader: "Almacén",
		},
		{
			name:       "reader deleted",
			raw:        RawRecord{ID: 3, Usuario: &User{ID: 1, Nombre: "Ana"}},
			wantUser:   "Ana",
			wantReader: DeletedReaderLabel,
		},
		{
			name:       "both deleted",
			raw:        RawRecord{ID: 4},
			wantUser:   DeletedUserLabel,
			wantReader: DeletedReaderLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeRecord(tt.raw)
			if got.Usuario != tt.wantUser {
				t.Errorf("Usuario = %q, want %q", got.Usuario, tt.wantUser)
			}
			if got.Lector != tt.wantReader {
				t.Errorf("Lector = %q, want %q", got.Lector, tt.wantReader)
			}
		})
	}
}

func TestNormalizeRecord_RelationIDs(t *testing.T) {
	t.Parallel()

	embedded := NormalizeRecord(RawRecord{Usuario: &User{ID: 7}, Lector: &Reader{ID: 9}})
	if embedded.UsuarioID != 7 || embedded.LectorID != 9 {
		t.Errorf("expected ids from embedded relations, got %d/%d", embedded.UsuarioID, embedded.LectorID)
	}

	explicit := NormalizeRecord(RawRecord{UsuarioID: int64Ptr(3), LectorID: int64Ptr(4)})
	if explicit.UsuarioID != 3 || explicit.LectorID != 4 {
		t.Errorf("expected explicit ids, got %d/%d", explicit.UsuarioID, explicit.LectorID)
	}
}

func TestNormalizeRecord_PassesMovementThrough(t *testing.T) {
	t.Parallel()

	got := NormalizeRecord(RawRecord{TipoMovimiento: "Salida"})
	if got.TipoMovimiento != "Salida" {
		t.Errorf("TipoMovimiento = %q, want unchanged %q", got.TipoMovimiento, "Salida")
	}
}

func TestNormalizeDisplay_Idempotent(t *testing.T) {
	t.Parallel()

	raws := []RawRecord{
		{ID: 1, Usuario: &User{ID: 1, Nombre: "Juan"}, Lector: &Reader{ID: 1, Ubicacion: "Puerta"}},
		{ID: 2},
		{ID: 3, Usuario: &User{ID: 5, Nombre: ""}},
	}
	for _, raw := range raws {
		once := NormalizeRecord(raw)
		twice := NormalizeDisplay(once)
		if once != twice {
			t.Errorf("record %d: normalize not idempotent: %+v != %+v", raw.ID, once, twice)
		}
	}
}

func TestRawRecord_DecodeNullRelations(t *testing.T) {
	t.Parallel()

	body := `[{"id":10,"usuario":null,"lector":{"id":2,"ubicacion":"Sala de Servidores","estado":"Activo"},"tipoMovimiento":"entrada","fechaHora":"2024-01-15T08:30:00"}]`
	var raws []RawRecord
	if err := json.Unmarshal([]byte(body), &raws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := NormalizeRecords(raws)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Usuario != DeletedUserLabel {
		t.Errorf("Usuario = %q, want placeholder", got[0].Usuario)
	}
	if got[0].LectorID != 2 {
		t.Errorf("LectorID = %d, want 2", got[0].LectorID)
	}
	if got[0].FechaHora.Date() != "2024-01-15" {
		t.Errorf("Date() = %q, want 2024-01-15", got[0].FechaHora.Date())
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantDate string
		wantHour int
		wantErr  bool
	}{
		{"2024-01-15T08:30:00", "2024-01-15", 8, false},
		{"2024-01-15 08:30:00", "2024-01-15", 8, false},
		{"2024-01-16 00:00:01", "2024-01-16", 0, false},
		{"2024-01-15T08:30:00.123456", "2024-01-15", 8, false},
		{"2024-01-15T23:30:00-05:00", "2024-01-15", 23, false},
		{"2024-01-15", "2024-01-15", 0, false},
		{"", "", 0, false},
		{"15/01/2024", "", 0, true},
	}

	for _, tt := range tests {
		ts, err := ParseTimestamp(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTimestamp) {
				t.Errorf("ParseTimestamp(%q) error = %v, want ErrInvalidTimestamp", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if ts.Date() != tt.wantDate {
			t.Errorf("ParseTimestamp(%q).Date() = %q, want %q", tt.input, ts.Date(), tt.wantDate)
		}
		if ts.Time.Hour() != tt.wantHour {
			t.Errorf("ParseTimestamp(%q) hour = %d, want %d", tt.input, ts.Time.Hour(), tt.wantHour)
		}
	}
}

func TestTimestamp_JSON(t *testing.T) {
	t.Parallel()

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2024-01-15 08:30:00"`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-01-15 08:30:00"` {
		t.Errorf("expected raw text preserved, got %s", out)
	}

	var arr Timestamp
	if err := json.Unmarshal([]byte(`[2024,1,15,8,30]`), &arr); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	want := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	if !arr.Time.Equal(want) {
		t.Errorf("array form = %v, want %v", arr.Time, want)
	}

	var null Timestamp
	if err := json.Unmarshal([]byte(`null`), &null); err != nil || !null.IsZero() {
		t.Errorf("null should decode to zero timestamp, got %v (err %v)", null, err)
	}
}

func TestStatusToggle(t *testing.T) {
	t.Parallel()

	if StatusActive.Toggle() != StatusInactive {
		t.Error("Activo should toggle to Inactivo")
	}
	if StatusInactive.Toggle() != StatusActive {
		t.Error("Inactivo should toggle to Activo")
	}
	if Status("activo").Toggle() != StatusInactive {
		t.Error("lowercase activo should be treated as active")
	}
}

func TestMovementIs(t *testing.T) {
	t.Parallel()

	if !Movement("Entrada").Is(MovementEntry) {
		t.Error("Entrada should match entrada")
	}
	if Movement("salida").Is(MovementEntry) {
		t.Error("salida should not match entrada")
	}
}

func TestUserDraftClean(t *testing.T) {
	t.Parallel()

	blank := "  "
	d := UserDraft{Nombre: " Juan ", Documento: "123", RfidTag: &blank}.Clean()
	if d.Nombre != "Juan" {
		t.Errorf("Nombre = %q, want trimmed", d.Nombre)
	}
	if d.RfidTag != nil {
		t.Errorf("blank tag should become nil, got %q", *d.RfidTag)
	}
	if d.Estado != StatusActive {
		t.Errorf("Estado = %q, want default Activo", d.Estado)
	}
}
