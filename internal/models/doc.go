// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package models defines the access-control entities exchanged with the backend
and the normalized shapes consumed by the dashboard views.

Wire Shapes:

  - User: a person who may carry an RFID tag (estado Activo/Inactivo)
  - Reader: an RFID reader identified by its location (ubicacion)
  - RawRecord: an entrada/salida event as returned by /registros, with the
    related user and reader embedded inline (either may be null once deleted)

Display Shapes:

  - DisplayRecord: a RawRecord flattened to the user's name and the reader's
    location, with "Usuario Eliminado" / "Lector Eliminado" standing in for
    missing relations

Drafts (UserDraft, ReaderDraft, RecordDraft, TagScan, Credentials) are the
request bodies for create/update calls and carry validator tags checked by
internal/validation before anything is sent.

JSON field names follow the backend (Spanish, camelCase) so the same structs
decode backend responses and encode dashboard responses.
*/
package models
