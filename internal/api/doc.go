// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package api serves the dashboard HTTP API.

Reads are answered from the synchronized snapshot held by the store; writes go
through the store's mutate-then-sync path, so the response to a mutation
already reflects the reloaded collections. Every JSON response uses the
envelope

	{"success": true, "data": ..., "meta": {"request_id": ..., "version": ...}}
	{"success": false, "error": {"code": ..., "message": ..., "details": ...}}

Routes (under /api/v1 unless noted):

	POST   /auth/login, /auth/logout     GET /auth/session
	GET    /users                        POST /users
	PUT    /users/{id}                   DELETE /users/{id}
	POST   /users/{id}/toggle
	GET    /readers, /readers/active, /readers/with-records
	POST   /readers                      PUT, DELETE /readers/{id}
	POST   /readers/{id}/toggle
	GET    /records, /records/summary, /records/export, /records/unknown-tag
	POST   /records, /records/scan
	GET    /views/recent, /views/users, /views/users/{id}
	GET    /dashboard                    POST /reload
	GET    /ws                           (WebSocket push)
	GET    /health, /metrics             (root level)

Error mapping:

	local validation           422 VALIDATION_ERROR, per-field details
	backend 401                401 SESSION_EXPIRED (the session is ended)
	backend 4xx                400 BACKEND_REJECTED, server message verbatim
	backend 5xx                502 BACKEND_ERROR
	unreachable / breaker open 502 BACKEND_UNAVAILABLE
*/
package api
