// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package websocket pushes store changes to dashboard browsers.

The hub-and-spoke layout follows gorilla/websocket's chat example: a Hub owns
the set of clients and a broadcast queue, and every Client runs a read pump
and a write pump.

	┌──────────┐
	│   Hub    │ ← BroadcastJSON / BroadcastRaw
	└────┬─────┘
	     │
	┌────┴─────┬─────────┐
	│ Client1  │ Client2 │ ...
	└──────────┴─────────┘

Message types:

  - snapshot_updated: collections were reloaded (version, counts, loadedAt)
  - session_expired: the backend session ended (reason); browsers return to login
  - ping / pong: application-level keepalive initiated by the browser

Browsers are expected to refetch the projections they display when they see
snapshot_updated; the message carries no entity data.

The hub is run under the supervisor with RunWithContext. On shutdown every
client's send channel is closed, which makes its write pump send a close frame.
Clients that cannot keep up with broadcasts are dropped rather than blocking
the hub.
*/
package websocket
