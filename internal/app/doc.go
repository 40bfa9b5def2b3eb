// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package app holds the application context: the persisted session token, the
backend client, the collection store and the event bus, wired together once
at startup and passed explicitly to the HTTP layer and the supervisor.

Session lifecycle:

	Init   → token present and unexpired → authenticated (+ reload when sync.auto_reload)
	Login  → validate, POST /auth/login, persist token, authenticated (+ reload)
	Logout → clear token, empty the store, publish session.expired
	401    → same as Logout, triggered by the store (reason "unauthorized")
	exp    → same as Logout, triggered by ExpiryMonitor (reason "expired")

The token's exp claim is read without verifying the signature. It only
decides when to stop sending a token the backend would reject anyway.
*/
package app
