// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
)

func newTestRouter(slow time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Use(AccessLog(slow))
	r.Get("/api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Delete("/api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/api/v1/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
	})
	return r
}

// captureLogs redirects the global logger at debug level until the test ends
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	logging.SetLevelString("debug")
	t.Cleanup(func() {
		logging.SetLogger(prev)
		logging.SetLevelString("info")
	})
	return &buf
}

// =====================================================
// Prometheus
// =====================================================

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	router := newTestRouter(time.Second)

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/users/{id}", "200"))
	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/users/{id}", "200"))
	if after-before != 3 {
		t.Errorf("counter grew by %v, want 3", after-before)
	}
}

func TestPrometheusMetrics_RecordsStatus(t *testing.T) {
	router := newTestRouter(time.Second)

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("DELETE", "/api/v1/users/{id}", "502"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/users/9", nil))

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("DELETE", "/api/v1/users/9", "502"))
	if after != 0 {
		t.Error("raw path must not be used as a label")
	}
	after = testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("DELETE", "/api/v1/users/{id}", "502"))
	if after-before != 1 {
		t.Errorf("counter grew by %v, want 1", after-before)
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	router := newTestRouter(time.Second)

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/path", nil))

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	if after-before != 1 {
		t.Errorf("unmatched counter grew by %v, want 1", after-before)
	}
}

func TestPrometheusMetrics_ActiveRequestsBalanced(t *testing.T) {
	router := newTestRouter(time.Second)
	before := testutil.ToFloat64(metrics.APIActiveRequests)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil))

	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != before {
		t.Errorf("active requests = %v after completion, want %v", got, before)
	}
}

func TestRoutePattern_WithoutRouter(t *testing.T) {
	if got := RoutePattern(httptest.NewRequest(http.MethodGet, "/x", nil)); got != unmatchedRoute {
		t.Errorf("RoutePattern = %q, want %q", got, unmatchedRoute)
	}
}

// =====================================================
// Access Log
// =====================================================

func TestAccessLog_Levels(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		slow     time.Duration
		wantMsg  string
		wantWarn bool
	}{
		{name: "ok", method: http.MethodGet, path: "/api/v1/users/1", slow: time.Second, wantMsg: "Request served"},
		{name: "server error", method: http.MethodDelete, path: "/api/v1/users/1", slow: time.Second, wantMsg: "Request failed", wantWarn: true},
		{name: "slow", method: http.MethodGet, path: "/api/v1/slow", slow: time.Millisecond, wantMsg: "Slow request detected", wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			router := newTestRouter(tt.slow)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			out := buf.String()
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("log %q does not contain %q", out, tt.wantMsg)
			}
			if got := strings.Contains(out, `"level":"warn"`); got != tt.wantWarn {
				t.Errorf("warn level = %v, want %v: %s", got, tt.wantWarn, out)
			}
			if !strings.Contains(out, `"route":"`) {
				t.Errorf("log %q has no route field", out)
			}
		})
	}
}

func TestAccessLog_DefaultThreshold(t *testing.T) {
	// A non-positive threshold must not mark every request slow.
	buf := captureLogs(t)

	router := newTestRouter(0)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil))

	if strings.Contains(buf.String(), "Slow request detected") {
		t.Error("request logged as slow with default threshold")
	}
}
