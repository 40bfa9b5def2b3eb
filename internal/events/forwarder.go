// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/websocket"
)

// Broadcaster receives forwarded payloads. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastRaw(messageType string, payload []byte)
}

// topicMessageTypes maps bus topics to WebSocket message types.
var topicMessageTypes = map[string]string{
	TopicSnapshot: websocket.MessageTypeSnapshotUpdated,
	TopicSession:  websocket.MessageTypeSessionExpired,
}

// Forwarder relays bus events to browsers.
type Forwarder struct {
	bus *Bus
	out Broadcaster
}

// NewForwarder creates a forwarder from bus to out.
func NewForwarder(bus *Bus, out Broadcaster) *Forwarder {
	return &Forwarder{bus: bus, out: out}
}

// Serve forwards events until ctx is done. It implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots, err := f.bus.Subscribe(ctx, TopicSnapshot)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicSnapshot, err)
	}
	sessions, err := f.bus.Subscribe(ctx, TopicSession)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicSession, err)
	}

	logging.Debug().Str("component", "event-forwarder").Msg("Forwarding bus events to websocket clients")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-snapshots:
			if !ok {
				return fmt.Errorf("%s subscription closed", TopicSnapshot)
			}
			f.forward(TopicSnapshot, msg)
		case msg, ok := <-sessions:
			if !ok {
				return fmt.Errorf("%s subscription closed", TopicSession)
			}
			f.forward(TopicSession, msg)
		}
	}
}

func (f *Forwarder) forward(topic string, msg *message.Message) {
	f.out.BroadcastRaw(topicMessageTypes[topic], msg.Payload)
	msg.Ack()
}

// String names the service in supervisor logs.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
