// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Session invalidation reasons, also used as metric labels.
const (
	ReasonUnauthorized = "unauthorized"
	ReasonExpired      = "expired"
	ReasonLogout       = "logout"
)

// DefaultReloadTimeout bounds one full reload when none is configured.
const DefaultReloadTimeout = 30 * time.Second

// ErrReloadAfterMutation wraps a reload failure that followed a successful
// mutation: the change is saved on the backend but the snapshot is stale.
var ErrReloadAfterMutation = errors.New("mutation applied but reload failed")

// ErrSessionEnded is returned by a reload whose session was invalidated or
// reset while it was fetching. Its result is discarded.
var ErrSessionEnded = errors.New("session ended during reload")

// TokenClearer removes the persisted session token.
type TokenClearer interface {
	ClearToken(ctx context.Context) error
}

// Snapshot is an immutable view of the three collections.
// The slices are shared between readers and must not be modified.
type Snapshot struct {
	Users    []models.User
	Readers  []models.Reader
	Records  []models.DisplayRecord
	LoadedAt time.Time
	Version  uint64
}

// reloadCall is one shared reload. done is closed once snap and err are set.
type reloadCall struct {
	ctx  context.Context
	done chan struct{}
	snap Snapshot
	err  error
}

// Store caches users, readers and records fetched from the backend.
//
// Writes go through MutateThenSync, which performs the backend call and then
// refetches everything; the cache is never patched locally. Reloads replace
// all three collections together or not at all.
type Store struct {
	api     client.AccessAPI
	tokens  TokenClearer
	timeout time.Duration

	mu            sync.RWMutex
	snap          Snapshot
	loading       bool
	authenticated bool
	// generation changes on every Reset; a reload only commits if it is unchanged
	generation uint64

	// reloadMu guards current and pending. current is the running reload,
	// pending the trailing one shared by requests that arrived meanwhile.
	reloadMu sync.Mutex
	current  *reloadCall
	pending  *reloadCall

	listenersMu sync.RWMutex
	onReload    []func(Snapshot)
	onExpired   []func(reason string)
}

// New creates an empty store. tokens may be nil.
func New(api client.AccessAPI, tokens TokenClearer, reloadTimeout time.Duration) *Store {
	if reloadTimeout <= 0 {
		reloadTimeout = DefaultReloadTimeout
	}
	return &Store{
		api:     api,
		tokens:  tokens,
		timeout: reloadTimeout,
	}
}

// API returns the backend client used by the store.
func (s *Store) API() client.AccessAPI {
	return s.api
}

// Snapshot returns the current collections. Reads during a reload see the
// previous snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Loading reports whether a reload is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether the session is considered valid.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetAuthenticated marks the session valid or invalid without side effects.
func (s *Store) SetAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	s.mu.Unlock()
}

// Reset empties all collections. Reloads still fetching when Reset runs
// discard their result.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snap = Snapshot{Version: s.snap.Version + 1}
	s.generation++
	s.mu.Unlock()
	metrics.StoreCollectionSize.WithLabelValues("users").Set(0)
	metrics.StoreCollectionSize.WithLabelValues("readers").Set(0)
	metrics.StoreCollectionSize.WithLabelValues("records").Set(0)
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(Snapshot)) {
	s.listenersMu.Lock()
	s.onReload = append(s.onReload, fn)
	s.listenersMu.Unlock()
}

// OnSessionExpired registers fn to run when the session is invalidated.
func (s *Store) OnSessionExpired(fn func(reason string)) {
	s.listenersMu.Lock()
	s.onExpired = append(s.onExpired, fn)
	s.listenersMu.Unlock()
}

// ========================================
// Reload
// ========================================

// ReloadAll refetches users, readers and records and replaces the snapshot.
//
// Overlapping calls coalesce: while a reload runs, new callers share a single
// trailing reload that starts when the running one finishes, so the snapshot a
// caller receives was always fetched after its call began. ctx only bounds the
// wait; cancelling it does not cancel the shared reload.
func (s *Store) ReloadAll(ctx context.Context) (Snapshot, error) {
	call := s.joinReload(ctx)
	select {
	case <-call.done:
		return call.snap, call.err
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

func (s *Store) joinReload(ctx context.Context) *reloadCall {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.current == nil {
		call := newReloadCall(ctx)
		s.current = call
		go s.runReloads(call)
		return call
	}

	metrics.StoreCoalescedReloads.Inc()
	if s.pending == nil {
		s.pending = newReloadCall(ctx)
	}
	return s.pending
}

func newReloadCall(ctx context.Context) *reloadCall {
	return &reloadCall{
		ctx:  context.WithoutCancel(ctx),
		done: make(chan struct{}),
	}
}

// runReloads executes call and then any trailing reload queued meanwhile.
func (s *Store) runReloads(call *reloadCall) {
	for call != nil {
		call.snap, call.err = s.reload(call.ctx)
		close(call.done)

		s.reloadMu.Lock()
		call = s.pending
		s.pending = nil
		s.current = call
		s.reloadMu.Unlock()
	}
}

// reload performs one fetch of the three collections.
func (s *Store) reload(parent context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	s.mu.Lock()
	s.loading = true
	gen := s.generation
	s.mu.Unlock()
	defer s.setLoading(false)

	start := time.Now()
	var (
		users   []models.User
		readers []models.Reader
		raws    []models.RawRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.api.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		readers, err = s.api.ListReaders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		raws, err = s.api.ListRecords(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.RecordReload(time.Since(start), 0, 0, 0, err)
		logging.Ctx(parent).Warn().Err(err).Str("kind", client.KindOf(err).String()).Msg("Reload failed, keeping previous snapshot")
		s.checkAuth(parent, err)
		return s.Snapshot(), fmt.Errorf("reload: %w", err)
	}

	records := models.NormalizeRecords(raws)
	if users == nil {
		users = []models.User{}
	}
	if readers == nil {
		readers = []models.Reader{}
	}

	s.mu.Lock()
	if s.generation != gen {
		snap := s.snap
		s.mu.Unlock()
		metrics.RecordReload(time.Since(start), 0, 0, 0, ErrSessionEnded)
		logging.Ctx(parent).Info().Msg("Session ended during reload, discarding fetched collections")
		return snap, ErrSessionEnded
	}
	s.snap = Snapshot{
		Users:    users,
		Readers:  readers,
		Records:  records,
		LoadedAt: time.Now(),
		Version:  s.snap.Version + 1,
	}
	snap := s.snap
	s.mu.Unlock()

	metrics.RecordReload(time.Since(start), len(users), len(readers), len(records), nil)
	logging.Ctx(parent).Debug().
		Uint64("version", snap.Version).
		Int("users", len(users)).
		Int("readers", len(readers)).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Collections reloaded")

	s.listenersMu.RLock()
	listeners := append([]func(Snapshot){}, s.onReload...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}

	return snap, nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ========================================
// Mutations
// ========================================

// Op is a backend call made on behalf of the store.
type Op func(ctx context.Context, api client.AccessAPI) error

// MutateThenSync runs op and, if it succeeds, reloads every collection.
// A failed op returns its error untouched and triggers no reload.
func (s *Store) MutateThenSync(ctx context.Context, op Op) (Snapshot, error) {
	if err := op(ctx, s.api); err != nil {
		metrics.RecordMutation(err)
		return s.Snapshot(), s.checkAuth(ctx, err)
	}
	metrics.RecordMutation(nil)

	snap, err := s.ReloadAll(ctx)
	if err != nil {
		return snap, fmt.Errorf("%w: %w", ErrReloadAfterMutation, err)
	}
	return snap, nil
}

// Mutate is MutateThenSync for operations that return the affected entity.
// result is set whenever the backend call succeeded, even if the reload failed.
func Mutate[T any](ctx context.Context, s *Store, op func(ctx context.Context, api client.AccessAPI) (T, error)) (T, Snapshot, error) {
	var result T
	snap, err := s.MutateThenSync(ctx, func(ctx context.Context, api client.AccessAPI) error {
		var opErr error
		result, opErr = op(ctx, api)
		return opErr
	})
	return result, snap, err
}

// ========================================
// Session
// ========================================

// Call runs a read-only backend call that bypasses the cache, applying the
// same 401 handling as reloads and mutations.
func (s *Store) Call(ctx context.Context, op Op) error {
	if err := op(ctx, s.api); err != nil {
		return s.checkAuth(ctx, err)
	}
	return nil
}

// checkAuth invalidates the session when err is a 401 and returns err.
func (s *Store) checkAuth(ctx context.Context, err error) error {
	if client.IsUnauthorized(err) {
		s.Invalidate(ctx, ReasonUnauthorized)
	}
	return err
}

// Invalidate ends the session: it clears the persisted token, marks the store
// unauthenticated, empties the collections and notifies listeners.
// Listeners only run when the session was authenticated.
func (s *Store) Invalidate(ctx context.Context, reason string) {
	if s.tokens != nil {
		if err := s.tokens.ClearToken(ctx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Failed to clear session token")
		}
	}

	s.mu.Lock()
	wasAuthenticated := s.authenticated
	s.authenticated = false
	s.mu.Unlock()
	s.Reset()

	if !wasAuthenticated {
		return
	}

	metrics.SessionInvalidations.WithLabelValues(reason).Inc()
	logging.Ctx(ctx).Info().Str("reason", reason).Msg("Session invalidated")

	s.listenersMu.RLock()
	listeners := append([]func(string){}, s.onExpired...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(reason)
	}
}
