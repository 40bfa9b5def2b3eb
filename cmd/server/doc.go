// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package main is the entry point for the Turnstile dashboard server.

Turnstile sits between the RFID access-control backend and the dashboard UI.
It keeps a cached snapshot of users, readers and access records, refetches
everything after each mutation, derives the dashboard views, and pushes
snapshot and session changes to browsers over WebSocket.

# Startup

 1. Configuration: Koanf v2 (defaults, optional config.yaml, environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Dashboard: session token store (BadgerDB), backend client with circuit
    breaker, event bus with optional NATS mirror
 4. Session restore: a persisted, unexpired token triggers an initial reload
 5. Supervisor tree

The long-lived services run under suture:

	RootSupervisor ("turnstile")
	├── "session-layer"   expiry monitor
	├── "messaging-layer" WebSocket hub, event forwarder
	└── "api-layer"       HTTP server

# Configuration

Common environment variables:

	BACKEND_URL             access-control backend base URL
	SESSION_STORE_PATH      BadgerDB directory for the session token
	SESSION_ENCRYPTION_KEY  encrypts the token at rest (16+ characters)
	HTTP_PORT               dashboard API port
	SYNC_AUTO_RELOAD        reload collections after login
	NATS_ENABLED            mirror events to NATS
	CONFIG_PATH             explicit config file

# Signals

SIGINT and SIGTERM cancel the root context. In-flight requests drain for
HTTP_SHUTDOWN_TIMEOUT, WebSocket clients are disconnected, and the token store is
closed.
*/
package main
