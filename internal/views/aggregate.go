// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"time"

	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/store"
)

// DefaultRecentLimit is the number of records shown on the dashboard.
const DefaultRecentLimit = 5

// StatusCounts splits a collection by estado.
type StatusCounts struct {
	Total    int `json:"total"`
	Active   int `json:"activos"`
	Inactive int `json:"inactivos"`
}

// CountByStatus counts items by the status returned for each.
func CountByStatus[T any](items []T, status func(T) models.Status) StatusCounts {
	counts := StatusCounts{Total: len(items)}
	for _, item := range items {
		if status(item).IsActive() {
			counts.Active++
		} else {
			counts.Inactive++
		}
	}
	return counts
}

// UserStatus and ReaderStatus adapt the entities to CountByStatus.
func UserStatus(u models.User) models.Status     { return u.Estado }
func ReaderStatus(r models.Reader) models.Status { return r.Estado }

// CountToday counts records whose date equals the calendar date of now.
// The caller chooses the location by converting now.
func CountToday(records []models.DisplayRecord, now time.Time) int {
	return len(FilterRecords(records, RecordFilter{Fecha: now.Format(models.DateLayout)}))
}

// MostRecentEntry returns the latest entrada record, using the same ordering
// as SortRecordsDesc.
func MostRecentEntry(records []models.DisplayRecord) (models.DisplayRecord, bool) {
	var (
		best  models.DisplayRecord
		found bool
	)
	for _, r := range records {
		if !r.TipoMovimiento.Is(models.MovementEntry) {
			continue
		}
		if !found || compareRecordsDesc(r, best) < 0 {
			best, found = r, true
		}
	}
	return best, found
}

// MovementCounts splits records by movement type.
type MovementCounts struct {
	Entradas int `json:"entradas"`
	Salidas  int `json:"salidas"`
}

// MovementTotals counts entradas and salidas. Other values are ignored.
func MovementTotals(records []models.DisplayRecord) MovementCounts {
	var counts MovementCounts
	for _, r := range records {
		switch {
		case r.TipoMovimiento.Is(models.MovementEntry):
			counts.Entradas++
		case r.TipoMovimiento.Is(models.MovementExit):
			counts.Salidas++
		}
	}
	return counts
}

// RecordSummary holds the counters shown above the records table.
type RecordSummary struct {
	Total     int                   `json:"total"`
	Today     int                   `json:"hoy"`
	Movements MovementCounts        `json:"movimientos"`
	LastEntry *models.DisplayRecord `json:"ultimaEntrada"`
}

// SummarizeRecords computes the record counters at now.
func SummarizeRecords(records []models.DisplayRecord, now time.Time) RecordSummary {
	summary := RecordSummary{
		Total:     len(records),
		Today:     CountToday(records, now),
		Movements: MovementTotals(records),
	}
	if last, ok := MostRecentEntry(records); ok {
		summary.LastEntry = &last
	}
	return summary
}

// Dashboard is the landing page projection.
type Dashboard struct {
	Users    StatusCounts           `json:"usuarios"`
	Readers  StatusCounts           `json:"lectores"`
	Records  RecordSummary          `json:"registros"`
	Recent   []models.DisplayRecord `json:"recientes"`
	Version  uint64                 `json:"version"`
	LoadedAt time.Time              `json:"loadedAt"`
}

// BuildDashboard projects snap at now, listing the recent most recent records.
// A non-positive recent falls back to DefaultRecentLimit.
func BuildDashboard(snap store.Snapshot, now time.Time, recent int) Dashboard {
	if recent <= 0 {
		recent = DefaultRecentLimit
	}
	sorted := SortRecordsDesc(snap.Records)
	return Dashboard{
		Users:    CountByStatus(snap.Users, UserStatus),
		Readers:  CountByStatus(snap.Readers, ReaderStatus),
		Records:  SummarizeRecords(snap.Records, now),
		Recent:   sorted[:min(recent, len(sorted))],
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
	}
}
