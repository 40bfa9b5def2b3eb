// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package services adapts dashboard components to suture.Service.

Each wrapper turns a component's own lifecycle into the context-aware Serve
pattern and names itself through fmt.Stringer for supervisor logs:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps *http.Server. ListenAndServe runs until the context is
cancelled, then open requests drain for the configured shutdown timeout. A
bind failure is returned so the supervisor restarts it with backoff.

WebSocketHubService wraps websocket.Hub. Clients are disconnected when the
context ends.

The expiry monitor (app.ExpiryMonitor) and the event forwarder
(events.Forwarder) implement suture.Service themselves and need no wrapper.
*/
package services
