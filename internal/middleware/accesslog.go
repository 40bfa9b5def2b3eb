// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/turnstile/internal/logging"
)

// DefaultSlowRequestThreshold is used when AccessLog gets a non-positive threshold.
const DefaultSlowRequestThreshold = time.Second

// AccessLog logs every request at debug level, and requests slower than
// slowThreshold or answered with a 5xx at warn level.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := statusOf(ww)
			logger := logging.Ctx(r.Context())

			event := logger.Debug()
			msg := "Request served"
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Warn()
				msg = "Request failed"
			case duration > slowThreshold:
				event = logger.Warn()
				msg = "Slow request detected"
			}

			event.
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Int64("duration_ms", duration.Milliseconds()).
				Msg(msg)
		})
	}
}
