// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package metrics provides Prometheus metrics for Turnstile.

The package provides metrics for:
  - Backend REST calls (per endpoint, status and latency)
  - Circuit breaker state transitions
  - Store reloads, reload latency and collection sizes
  - Session invalidations
  - Dashboard HTTP request latency and throughput
  - WebSocket connection counts and event publishing

All collectors are registered on the default registry through promauto and
exposed on /metrics by the API router.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend Client Metrics
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_backend_requests_total",
			Help: "Total number of requests sent to the access-control backend",
		},
		[]string{"method", "endpoint", "status_code"}, // status_code "error" for transport failures
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turnstile_backend_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	BackendRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_backend_retries_total",
			Help: "Total number of backend requests retried after HTTP 429",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Store Metrics
	StoreReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_store_reloads_total",
			Help: "Total number of collection reloads",
		},
		[]string{"result"}, // "success", "failure"
	)

	StoreReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "turnstile_store_reload_duration_seconds",
			Help:    "Duration of a full reload of users, readers and records",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreCoalescedReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_store_coalesced_reloads_total",
			Help: "Reload requests served by a shared in-flight or trailing reload",
		},
	)

	StoreCollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "turnstile_store_collection_size",
			Help: "Number of entities in each cached collection",
		},
		[]string{"collection"}, // "users", "readers", "records"
	)

	StoreMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_store_mutations_total",
			Help: "Total number of mutate-then-sync operations",
		},
		[]string{"result"},
	)

	StoreLastReloadSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_store_last_reload_success_timestamp",
			Help: "Unix timestamp of the last successful reload",
		},
	)

	// Session Metrics
	SessionInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_session_invalidations_total",
			Help: "Total number of session terminations",
		},
		[]string{"reason"}, // "unauthorized", "expired", "logout"
	)

	// Dashboard API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_events_published_total",
			Help: "Total number of events published on the event bus",
		},
		[]string{"topic", "result"},
	)
)

// RecordBackendRequest records one backend call. A zero status code means the
// request never produced a response.
func RecordBackendRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	BackendRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	BackendRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordReload records a store reload and, on success, the collection sizes.
func RecordReload(duration time.Duration, users, readers, records int, err error) {
	StoreReloadDuration.Observe(duration.Seconds())
	if err != nil {
		StoreReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	StoreReloadsTotal.WithLabelValues("success").Inc()
	StoreCollectionSize.WithLabelValues("users").Set(float64(users))
	StoreCollectionSize.WithLabelValues("readers").Set(float64(readers))
	StoreCollectionSize.WithLabelValues("records").Set(float64(records))
	StoreLastReloadSuccess.Set(float64(time.Now().Unix()))
}

// RecordMutation records the outcome of a mutate-then-sync operation.
func RecordMutation(err error) {
	if err != nil {
		StoreMutationsTotal.WithLabelValues("failure").Inc()
		return
	}
	StoreMutationsTotal.WithLabelValues("success").Inc()
}

// RecordAPIRequest records a dashboard API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished records a publish attempt on the event bus.
func RecordEventPublished(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}
