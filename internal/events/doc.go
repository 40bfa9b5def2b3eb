// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package events distributes store notifications inside the process and,
optionally, to a NATS server.

The Bus is a Watermill GoChannel pub/sub. Bind registers store listeners so
that every successful reload publishes a SnapshotEvent on TopicSnapshot and
every session invalidation publishes a SessionEvent on TopicSession. Store
listeners only enqueue messages; slow subscribers never delay a reload.

When NATS is enabled, each message is also published on
"<subject prefix>.<topic>" through watermill-nats using core NATS (no
JetStream), so other services can react to dashboard changes. NATS failures are
logged and counted but never fail the local publish.

The Forwarder subscribes to both topics and relays payloads to the WebSocket
hub. It runs under the supervisor.
*/
package events
