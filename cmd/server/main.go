// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/turnstile/internal/api"
	"github.com/tomtom215/turnstile/internal/app"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/events"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/supervisor"
	"github.com/tomtom215/turnstile/internal/supervisor/services"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

func main() {
	os.Exit(run())
}

// run starts the dashboard and blocks until shutdown. It returns the process
// exit code so deferred cleanup runs before exiting.
func run() int {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Config not yet available, default logger
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("backend_url", cfg.Backend.URL).
		Bool("circuit_breaker", cfg.Backend.CircuitBreaker).
		Bool("session_in_memory", cfg.Session.InMemory).
		Bool("auto_reload", cfg.Sync.AutoReload).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	a, err := app.Build(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize dashboard")
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dashboard")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Init(ctx); err != nil {
		logging.Error().Err(err).Msg("Failed to restore session")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	hub := ws.NewHub()
	router := api.NewRouter(api.NewHandler(a, hub))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree.AddSessionService(app.NewExpiryMonitor(a, cfg.Session.ExpiryCheckInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(events.NewForwarder(a.Bus(), hub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Turnstile stopped")
	if ctx.Err() == nil {
		// Tree stopped on its own, not by signal
		return 1
	}
	return 0
}
