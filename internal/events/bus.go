// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/store"
)

// ErrBusClosed is returned when publishing after Close.
var ErrBusClosed = errors.New("event bus is closed")

// subscriberBuffer bounds the messages queued per subscriber.
const subscriberBuffer = 64

// Bus is the in-process event bus.
type Bus struct {
	local  *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu       sync.RWMutex
	external message.Publisher
	prefix   string
	closed   bool
}

// NewBus creates an empty bus. logger may be nil.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		local: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: subscriberBuffer,
		}, logger),
		logger: logger,
	}
}

// AttachPublisher mirrors every published message to pub under
// "<prefix>.<topic>". The bus takes ownership of pub and closes it.
func (b *Bus) AttachPublisher(pub message.Publisher, prefix string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.external = pub
	b.prefix = prefix
}

// Subscribe returns the messages published on topic until ctx is done.
// Every message must be acked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.local.Subscribe(ctx, topic)
}

// Publish encodes payload as JSON and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataEventType, topic)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	if b.external != nil {
		subject := b.prefix + "." + topic
		err := b.external.Publish(subject, msg.Copy())
		metrics.RecordEventPublished(subject, err)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("subject", subject).Msg("Failed to publish event to NATS")
		}
	}

	err = b.local.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Bind publishes store reloads and session invalidations on the bus.
func (b *Bus) Bind(s *store.Store) {
	s.OnReload(func(snap store.Snapshot) {
		if err := b.Publish(context.Background(), TopicSnapshot, NewSnapshotEvent(snap)); err != nil && !errors.Is(err, ErrBusClosed) {
			logging.Warn().Err(err).Msg("Failed to publish snapshot event")
		}
	})
	s.OnSessionExpired(func(reason string) {
		event := SessionEvent{Reason: reason, OccurredAt: time.Now().UTC()}
		if err := b.Publish(context.Background(), TopicSession, event); err != nil && !errors.Is(err, ErrBusClosed) {
			logging.Warn().Err(err).Msg("Failed to publish session event")
		}
	})
}

// Close stops the bus and closes the attached publisher. Subscriber channels
// are closed. Calling Close twice is safe.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if b.external != nil {
		if err := b.external.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close nats publisher: %w", err))
		}
	}
	if err := b.local.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close gochannel: %w", err))
	}
	return errors.Join(errs...)
}
