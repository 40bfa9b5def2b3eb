// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// failingHub fails its first runs, then behaves like a hub.
type failingHub struct {
	failures atomic.Int32
	runs     atomic.Int32
}

func (h *failingHub) RunWithContext(ctx context.Context) error {
	if h.runs.Add(1) <= h.failures.Load() {
		return errors.New("hub crashed")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService_Interface(t *testing.T) {
	var _ suture.Service = (*WebSocketHubService)(nil)
	var _ ContextHub = (*ws.Hub)(nil)
}

func TestWebSocketHubService_ServeRealHub(t *testing.T) {
	hub := ws.NewHub()
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	// Broadcasting with no clients must not block the running hub
	hub.BroadcastJSON(ws.MessageTypeSnapshotUpdated, map[string]int{"version": 1})
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("clients after shutdown = %d", n)
	}
}

func TestWebSocketHubService_RestartedBySupervisor(t *testing.T) {
	hub := &failingHub{}
	hub.failures.Store(2)

	sup := suture.New("test-messaging", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewWebSocketHubService(hub))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for hub.runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if runs := hub.runs.Load(); runs < 3 {
		t.Errorf("hub ran %d times, want at least 3 (two crashes then a healthy run)", runs)
	}
}

func TestWebSocketHubService_String(t *testing.T) {
	if got := NewWebSocketHubService(ws.NewHub()).String(); got != "websocket-hub" {
		t.Errorf("String() = %q", got)
	}
}
