// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/store"
)

// Topics published on the bus.
const (
	TopicSnapshot = "snapshot.updated"
	TopicSession  = "session.expired"
)

// Metadata keys set on every message.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataEventType     = "event_type"
)

// SnapshotEvent announces a successful reload. It carries counts only;
// consumers fetch the data they need.
type SnapshotEvent struct {
	Version    uint64    `json:"version"`
	Users      int       `json:"users"`
	Readers    int       `json:"readers"`
	Records    int       `json:"records"`
	LoadedAt   time.Time `json:"loadedAt"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewSnapshotEvent summarizes snap.
func NewSnapshotEvent(snap store.Snapshot) SnapshotEvent {
	return SnapshotEvent{
		Version:    snap.Version,
		Users:      len(snap.Users),
		Readers:    len(snap.Readers),
		Records:    len(snap.Records),
		LoadedAt:   snap.LoadedAt,
		OccurredAt: time.Now().UTC(),
	}
}

// SessionEvent announces that the backend session ended.
type SessionEvent struct {
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Decode unmarshals a message payload into v.
func Decode(payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
