// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import "strings"

// Status is the binary activation state shared by users and readers.
type Status string

const (
	StatusActive   Status = "Activo"
	StatusInactive Status = "Inactivo"
)

// Toggle flips Activo and Inactivo. Any other value (including empty) is
// treated as inactive and becomes Activo.
func (s Status) Toggle() Status {
	if s.IsActive() {
		return StatusInactive
	}
	return StatusActive
}

// IsActive reports whether the status is Activo, ignoring case.
func (s Status) IsActive() bool {
	return strings.EqualFold(string(s), string(StatusActive))
}

// Movement is the direction of an access record.
type Movement string

const (
	MovementEntry Movement = "entrada"
	MovementExit  Movement = "salida"
)

// Is compares movements case-insensitively; older backends sent "Entrada"/"Salida".
func (m Movement) Is(other Movement) bool {
	return strings.EqualFold(string(m), string(other))
}

// User is a person registered in the access-control system.
type User struct {
	ID        int64   `json:"id"`
	Nombre    string  `json:"nombre"`
	Documento string  `json:"documento"`
	RfidTag   *string `json:"rfidTag"` // nil when no card is bound
	Estado    Status  `json:"estado"`
}

// Draft returns the fields of u as an update payload.
func (u User) Draft() UserDraft {
	return UserDraft{
		Nombre:    u.Nombre,
		Documento: u.Documento,
		RfidTag:   u.RfidTag,
		Estado:    u.Estado,
	}
}

// Reader is an RFID reader identified by its location.
type Reader struct {
	ID              int64      `json:"id"`
	Ubicacion       string     `json:"ubicacion"`
	Estado          Status     `json:"estado"`
	UltimaActividad *Timestamp `json:"ultimaActividad,omitempty"` // server-computed
}

// Draft returns the fields of r as an update payload.
func (r Reader) Draft() ReaderDraft {
	return ReaderDraft{Ubicacion: r.Ubicacion, Estado: r.Estado}
}

// RawRecord is an access record as returned by the backend.
type RawRecord struct {
	ID             int64     `json:"id"`
	UsuarioID      *int64    `json:"usuarioId,omitempty"`
	LectorID       *int64    `json:"lectorId,omitempty"`
	Usuario        *User     `json:"usuario"` // nil after the user was deleted
	Lector         *Reader   `json:"lector"`  // nil after the reader was deleted
	TipoMovimiento Movement  `json:"tipoMovimiento"`
	FechaHora      Timestamp `json:"fechaHora"`
}

// DisplayRecord is a RawRecord flattened for display.
type DisplayRecord struct {
	ID             int64     `json:"id"`
	UsuarioID      int64     `json:"usuarioId"` // 0 when unknown
	LectorID       int64     `json:"lectorId"`  // 0 when unknown
	Usuario        string    `json:"usuario"`
	Lector         string    `json:"lector"`
	TipoMovimiento Movement  `json:"tipoMovimiento"`
	FechaHora      Timestamp `json:"fechaHora"`
}

// UnknownTag is the most recent scan of a tag not bound to any user.
type UnknownTag struct {
	RfidTag string `json:"rfidTag"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
}
