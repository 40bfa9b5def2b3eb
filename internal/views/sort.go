// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"cmp"
	"slices"

	"github.com/tomtom215/turnstile/internal/models"
)

// SortRecordsDesc returns a copy of records ordered most recent first.
// Records with the same fechaHora are ordered by descending id, and records
// without a timestamp sort last.
func SortRecordsDesc(records []models.DisplayRecord) []models.DisplayRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []models.DisplayRecord{}
	}
	slices.SortStableFunc(out, compareRecordsDesc)
	return out
}

func compareRecordsDesc(a, b models.DisplayRecord) int {
	if c := b.FechaHora.Time.Compare(a.FechaHora.Time); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
