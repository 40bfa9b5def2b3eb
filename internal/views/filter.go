// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"strings"

	"github.com/tomtom215/turnstile/internal/models"
)

// All is the sentinel that disables a status or movement filter.
const All = "todos"

// RecordFilter selects access records. Field names follow the query parameters.
type RecordFilter struct {
	Search    string `json:"search" validate:"max=100"`
	UsuarioID int64  `json:"usuarioId" validate:"gte=0"`
	LectorID  int64  `json:"lectorId" validate:"gte=0"`
	Tipo      string `json:"tipo" validate:"omitempty,oneof=todos entrada salida Entrada Salida"`
	Fecha     string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Desde     string `json:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta     string `json:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// Matches reports whether r passes every active condition of f.
func (f RecordFilter) Matches(r models.DisplayRecord) bool {
	if !containsFold(f.Search, r.Usuario, r.Lector) {
		return false
	}
	if f.UsuarioID != 0 && r.UsuarioID != f.UsuarioID {
		return false
	}
	if f.LectorID != 0 && r.LectorID != f.LectorID {
		return false
	}
	if !isAll(f.Tipo) && !r.TipoMovimiento.Is(models.Movement(strings.TrimSpace(f.Tipo))) {
		return false
	}
	return f.matchesDate(r.FechaHora.Date())
}

// matchesDate compares ISO dates lexically, which orders them chronologically.
func (f RecordFilter) matchesDate(date string) bool {
	if f.Fecha == "" && f.Desde == "" && f.Hasta == "" {
		return true
	}
	if date == "" {
		return false
	}
	if f.Fecha != "" && date != f.Fecha {
		return false
	}
	if f.Desde != "" && date < f.Desde {
		return false
	}
	if f.Hasta != "" && date > f.Hasta {
		return false
	}
	return true
}

// UserFilter selects users by name, document or tag and by status.
type UserFilter struct {
	Search string `json:"search" validate:"max=100"`
	Estado string `json:"estado" validate:"omitempty,oneof=todos Activo Inactivo activo inactivo"`
}

// Matches reports whether u passes f.
func (f UserFilter) Matches(u models.User) bool {
	tag := ""
	if u.RfidTag != nil {
		tag = *u.RfidTag
	}
	return containsFold(f.Search, u.Nombre, u.Documento, tag) && statusMatches(f.Estado, u.Estado)
}

// ReaderFilter selects readers by location and status.
type ReaderFilter struct {
	Search string `json:"search" validate:"max=100"`
	Estado string `json:"estado" validate:"omitempty,oneof=todos Activo Inactivo activo inactivo"`
}

// Matches reports whether r passes f.
func (f ReaderFilter) Matches(r models.Reader) bool {
	return containsFold(f.Search, r.Ubicacion) && statusMatches(f.Estado, r.Estado)
}

// FilterRecords returns the records matching f in their original order.
func FilterRecords(records []models.DisplayRecord, f RecordFilter) []models.DisplayRecord {
	return filter(records, f.Matches)
}

// FilterUsers returns the users matching f in their original order.
func FilterUsers(users []models.User, f UserFilter) []models.User {
	return filter(users, f.Matches)
}

// FilterReaders returns the readers matching f in their original order.
func FilterReaders(readers []models.Reader, f ReaderFilter) []models.Reader {
	return filter(readers, f.Matches)
}

// ActiveReaders returns the readers whose estado is Activo.
func ActiveReaders(readers []models.Reader) []models.Reader {
	return FilterReaders(readers, ReaderFilter{Estado: string(models.StatusActive)})
}

// ReadersWithRecords returns the readers referenced by at least one record.
func ReadersWithRecords(readers []models.Reader, records []models.DisplayRecord) []models.Reader {
	used := make(map[int64]struct{}, len(readers))
	for _, r := range records {
		if r.LectorID != 0 {
			used[r.LectorID] = struct{}{}
		}
	}
	return filter(readers, func(r models.Reader) bool {
		_, ok := used[r.ID]
		return ok
	})
}

// filter always returns a fresh non-nil slice.
func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

func statusMatches(want string, got models.Status) bool {
	if isAll(want) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(want), string(got))
}

// containsFold reports whether any field contains term, ignoring case.
// An empty term matches everything.
func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
