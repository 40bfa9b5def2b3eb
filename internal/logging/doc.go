// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package logging provides centralized zerolog-based structured logging for Turnstile.
//
// A single global logger is configured once at startup and used through
// package-level helpers. Context-scoped loggers carry correlation and request
// IDs so that a dashboard request can be followed through the store, the
// backend client and the event bus.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Reload failed")
//	logging.Ctx(ctx).Info().Int64("user_id", id).Msg("User updated")
//
// # Adapters
//
// Some libraries expect their own logger interfaces. NewSlogLogger returns an
// slog.Logger for sutureslog, and NewWatermillLogger returns a
// watermill.LoggerAdapter for the event bus. Both write through zerolog.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
