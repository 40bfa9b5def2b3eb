// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import "strings"

// UserDraft is the body of POST /usuarios and PUT /usuarios/{id}.
type UserDraft struct {
	Nombre    string  `json:"nombre" validate:"required,max=120"`
	Documento string  `json:"documento" validate:"required,max=40"`
	RfidTag   *string `json:"rfidTag" validate:"omitempty,rfidtag"`
	Estado    Status  `json:"estado" validate:"omitempty,oneof=Activo Inactivo"`
}

// Clean trims text fields, upper-cases the tag (readers report uppercase hex),
// maps an empty tag to nil and defaults estado to Activo.
func (d UserDraft) Clean() UserDraft {
	d.Nombre = strings.TrimSpace(d.Nombre)
	d.Documento = strings.TrimSpace(d.Documento)
	if d.RfidTag != nil {
		tag := strings.ToUpper(strings.TrimSpace(*d.RfidTag))
		if tag == "" {
			d.RfidTag = nil
		} else {
			d.RfidTag = &tag
		}
	}
	if d.Estado == "" {
		d.Estado = StatusActive
	}
	return d
}

// ReaderDraft is the body of POST /lectores and PUT /lectores/{id}.
type ReaderDraft struct {
	Ubicacion string `json:"ubicacion" validate:"required,max=120"`
	Estado    Status `json:"estado" validate:"omitempty,oneof=Activo Inactivo"`
}

// Clean trims the location and defaults estado to Activo.
func (d ReaderDraft) Clean() ReaderDraft {
	d.Ubicacion = strings.TrimSpace(d.Ubicacion)
	if d.Estado == "" {
		d.Estado = StatusActive
	}
	return d
}

// RecordDraft is the body of POST /registros. The backend decides the movement
// by alternating entrada/salida per user; TipoMovimiento is advisory.
type RecordDraft struct {
	UsuarioID      int64    `json:"usuarioId" validate:"required,gt=0"`
	LectorID       int64    `json:"lectorId" validate:"required,gt=0"`
	TipoMovimiento Movement `json:"tipoMovimiento,omitempty" validate:"omitempty,oneof=entrada salida"`
}

// TagScan is the body of POST /registros/rfid, the request a reader sends when
// a card is presented.
type TagScan struct {
	RfidTag  string `json:"rfidTag" validate:"required,rfidtag"`
	LectorID int64  `json:"lectorId" validate:"required,gt=0"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
