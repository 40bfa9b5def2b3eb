// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/events"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/session"
	"github.com/tomtom215/turnstile/internal/store"
	"github.com/tomtom215/turnstile/internal/validation"
)

// ErrNoToken is returned by Login when the backend accepted the credentials
// but sent no token.
var ErrNoToken = errors.New("login response contained no token")

// TokenStore persists the bearer token. *session.BadgerTokenStore implements it.
type TokenStore interface {
	client.TokenSource
	store.TokenClearer
	SetToken(ctx context.Context, token string) error
	Close() error
}

// App is the application context.
type App struct {
	cfg     *config.Config
	tokens  TokenStore
	store   *store.Store
	bus     *events.Bus
	breaker *client.CircuitBreakerClient
	loc     *time.Location

	// now is replaced in tests.
	now func() time.Time
}

// SessionInfo describes the current session.
type SessionInfo struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Loading       bool       `json:"loading"`
	Version       uint64     `json:"version"`
	LoadedAt      *time.Time `json:"loadedAt,omitempty"`
}

// New wires an App from already constructed parts. bus may be nil, in which
// case a local bus is created.
func New(cfg *config.Config, tokens TokenStore, api client.AccessAPI, bus *events.Bus) (*App, error) {
	loc, err := cfg.Views.Location()
	if err != nil {
		return nil, err
	}
	if bus == nil {
		bus = events.NewBus(logging.NewWatermillLogger())
	}

	a := &App{
		cfg:    cfg,
		tokens: tokens,
		store:  store.New(api, tokens, cfg.Sync.ReloadTimeout),
		bus:    bus,
		loc:    loc,
		now:    time.Now,
	}
	if cb, ok := api.(*client.CircuitBreakerClient); ok {
		a.breaker = cb
	}
	bus.Bind(a.store)
	return a, nil
}

// Build opens the token store and constructs the backend client, circuit
// breaker and event bus described by cfg.
func Build(cfg *config.Config) (*App, error) {
	tokens, err := session.Open(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var api client.AccessAPI = client.New(&cfg.Backend, tokens)
	if cfg.Backend.CircuitBreaker {
		api = client.NewCircuitBreakerClient(api, client.BreakerSettings{
			Timeout:      cfg.Backend.BreakerTimeout,
			MinRequests:  cfg.Backend.BreakerMinRequests,
			FailureRatio: cfg.Backend.BreakerFailureRatio,
		})
	}

	wmLogger := logging.NewWatermillLogger()
	bus := events.NewBus(wmLogger)
	if cfg.NATS.Enabled {
		pub, err := events.NewNATSPublisher(&cfg.NATS, wmLogger)
		if err != nil {
			_ = bus.Close()
			_ = tokens.Close()
			return nil, err
		}
		bus.AttachPublisher(pub, cfg.NATS.SubjectPrefix)
	}

	a, err := New(cfg, tokens, api, bus)
	if err != nil {
		_ = bus.Close()
		_ = tokens.Close()
		return nil, err
	}
	return a, nil
}

// Store returns the collection store.
func (a *App) Store() *store.Store { return a.store }

// Bus returns the event bus.
func (a *App) Bus() *events.Bus { return a.bus }

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Now returns the current time in the configured views location.
func (a *App) Now() time.Time { return a.now().In(a.loc) }

// BreakerState reports the backend circuit breaker state, or "disabled".
func (a *App) BreakerState() string {
	if a.breaker == nil {
		return "disabled"
	}
	return a.breaker.State()
}

// Init restores a persisted session. A missing or expired token leaves the
// app unauthenticated. Backend failures during the initial reload are logged,
// not returned: the dashboard still starts and retries on demand.
func (a *App) Init(ctx context.Context) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		logging.Info().Msg("No persisted session, waiting for login")
		return nil
	}
	if session.IsExpired(token, a.now()) {
		logging.Info().Msg("Persisted session token has expired, discarding it")
		return a.tokens.ClearToken(ctx)
	}

	a.store.SetAuthenticated(true)
	logging.Info().Bool("auto_reload", a.cfg.Sync.AutoReload).Msg("Session restored")
	a.autoReload(ctx)
	return nil
}

// Login authenticates against the backend and starts a session. Invalid
// credentials are reported as *validation.RequestValidationError before any
// backend call.
func (a *App) Login(ctx context.Context, creds models.Credentials) (SessionInfo, error) {
	if verr := validation.ValidateStruct(creds); verr != nil {
		return a.SessionInfo(ctx), verr
	}

	token, err := a.store.API().Login(ctx, creds)
	if err != nil {
		return a.SessionInfo(ctx), err
	}
	if token == "" {
		return a.SessionInfo(ctx), ErrNoToken
	}
	if err := a.tokens.SetToken(ctx, token); err != nil {
		return a.SessionInfo(ctx), fmt.Errorf("persist session token: %w", err)
	}

	a.store.SetAuthenticated(true)
	logging.Ctx(ctx).Info().Str("username", creds.Username).Msg("Login succeeded")
	a.autoReload(ctx)
	return a.SessionInfo(ctx), nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) {
	a.store.Invalidate(ctx, store.ReasonLogout)
}

func (a *App) autoReload(ctx context.Context) {
	if !a.cfg.Sync.AutoReload {
		return
	}
	if _, err := a.store.ReloadAll(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Initial reload failed")
	}
}

// SessionInfo reports the session state. ExpiresAt is set when the token
// carries an exp claim.
func (a *App) SessionInfo(ctx context.Context) SessionInfo {
	snap := a.store.Snapshot()
	info := SessionInfo{
		Authenticated: a.store.Authenticated(),
		Loading:       a.store.Loading(),
		Version:       snap.Version,
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt
		info.LoadedAt = &loadedAt
	}
	if !info.Authenticated {
		return info
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to read session token")
		return info
	}
	if exp, ok := session.TokenExpiry(token); ok {
		info.ExpiresAt = &exp
	}
	return info
}

// Close releases the event bus and the token store.
func (a *App) Close() error {
	return errors.Join(a.bus.Close(), a.tokens.Close())
}
