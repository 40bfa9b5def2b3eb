// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package middleware provides HTTP middleware for the dashboard API.

All middleware uses the chi signature func(http.Handler) http.Handler and can
be passed to chi.Router.Use directly.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern
  - AccessLog: per-request zerolog line, raised to warn for slow or failed requests

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))

Metrics and access logs read the route pattern after the handler returns, so
both must be installed on the router (or a group) rather than wrapped around it.
*/
package middleware
