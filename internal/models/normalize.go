// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

// Placeholder labels for relations the backend no longer returns.
const (
	DeletedUserLabel   = "Usuario Eliminado"
	DeletedReaderLabel = "Lector Eliminado"
)

// NormalizeRecord flattens a backend record for display.
//
// A nil embedded user or reader is rendered with the placeholder label; the
// function never fails. Relation IDs come from usuarioId/lectorId when the
// backend sends them and from the embedded objects otherwise.
func NormalizeRecord(raw RawRecord) DisplayRecord {
	d := DisplayRecord{
		ID:             raw.ID,
		Usuario:        DeletedUserLabel,
		Lector:         DeletedReaderLabel,
		TipoMovimiento: raw.TipoMovimiento,
		FechaHora:      raw.FechaHora,
	}

	if raw.Usuario != nil {
		d.Usuario = raw.Usuario.Nombre
		d.UsuarioID = raw.Usuario.ID
	}
	if raw.Lector != nil {
		d.Lector = raw.Lector.Ubicacion
		d.LectorID = raw.Lector.ID
	}
	if raw.UsuarioID != nil {
		d.UsuarioID = *raw.UsuarioID
	}
	if raw.LectorID != nil {
		d.LectorID = *raw.LectorID
	}

	return NormalizeDisplay(d)
}

// NormalizeDisplay re-applies the placeholder rules to an already flattened
// record. NormalizeDisplay(NormalizeRecord(r)) == NormalizeRecord(r).
func NormalizeDisplay(d DisplayRecord) DisplayRecord {
	if d.Usuario == "" {
		d.Usuario = DeletedUserLabel
	}
	if d.Lector == "" {
		d.Lector = DeletedReaderLabel
	}
	return d
}

// NormalizeRecords flattens a slice of records into a new slice.
func NormalizeRecords(raws []RawRecord) []DisplayRecord {
	out := make([]DisplayRecord, len(raws))
	for i := range raws {
		out[i] = NormalizeRecord(raws[i])
	}
	return out
}
