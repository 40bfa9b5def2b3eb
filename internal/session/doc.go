// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package session persists the backend bearer token between restarts.

The token lives under a single BadgerDB key ("session:authToken"), optionally
encrypted at rest with AES-256-GCM using a key derived from
SESSION_ENCRYPTION_KEY through HKDF-SHA256. The store implements
client.TokenSource, so every outgoing backend request reads the current token.

TokenExpiry inspects the JWT "exp" claim without verifying the signature; the
backend remains the authority and a 401 always invalidates the session.
*/
package session
