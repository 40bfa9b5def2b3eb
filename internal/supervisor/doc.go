// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package supervisor runs the dashboard's long-lived services under suture v4.

# Overview

	RootSupervisor ("turnstile")
	├── SessionSupervisor ("session-layer")
	│   └── app.ExpiryMonitor
	├── MessagingSupervisor ("messaging-layer")
	│   ├── services.WebSocketHubService
	│   └── events.Forwarder
	└── APISupervisor ("api-layer")
	    └── services.HTTPServerService

Crashed services are restarted with suture's backoff. Each layer counts its
failures independently. Supervisor events (starts, failures, restarts) are
logged through sutureslog using the zerolog-backed slog.Logger from the
logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddSessionService(app.NewExpiryMonitor(a, cfg.Session.ExpiryCheckInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(events.NewForwarder(a.Bus(), hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

# Shutdown

Cancelling the context stops every layer. Services still running after
ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
