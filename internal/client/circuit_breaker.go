// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// CircuitBreakerClient wraps an AccessAPI with the circuit breaker pattern so a
// backend outage fails fast instead of piling up 30 second timeouts behind
// every dashboard action.
//
// Only transport failures and 5xx responses count against the breaker. A 401,
// a 403 for an inactive user or a 404 for "no pending tag" are answers from a
// healthy backend.
type CircuitBreakerClient struct {
	api  AccessAPI
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// BreakerSettings configures the breaker. Zero values select the defaults.
type BreakerSettings struct {
	MaxRequests  uint32        // half-open probe requests (default 3)
	Interval     time.Duration // closed-state count reset (default 1m)
	Timeout      time.Duration // open-state duration (default 2m)
	MinRequests  uint32        // requests before the ratio is evaluated (default 10)
	FailureRatio float64       // trip ratio (default 0.6)
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	return s
}

// NewCircuitBreakerClient wraps api with a breaker named "access-backend".
func NewCircuitBreakerClient(api AccessAPI, settings BreakerSettings) *CircuitBreakerClient {
	const cbName = "access-backend"
	settings = settings.withDefaults()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
	})

	return &CircuitBreakerClient{api: api, cb: cb, name: cbName}
}

// State returns the current breaker state as a string.
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// execute runs fn through the breaker and records the outcome.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	case countsAsFailure(err):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	}
	return result, err
}

// castResult type-asserts the breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Login exchanges credentials for a token with circuit breaker protection.
func (cbc *CircuitBreakerClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	return castResult[string](cbc.execute(func() (interface{}, error) {
		return cbc.api.Login(ctx, creds)
	}))
}

// ListUsers retrieves users with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return castResult[[]models.User](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListUsers(ctx)
	}))
}

// ListActiveUsers retrieves active users with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	return castResult[[]models.User](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListActiveUsers(ctx)
	}))
}

// GetUser retrieves one user with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return castResult[*models.User](cbc.execute(func() (interface{}, error) {
		return cbc.api.GetUser(ctx, id)
	}))
}

// CreateUser creates a user with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreateUser(ctx context.Context, draft models.UserDraft) (*models.User, error) {
	return castResult[*models.User](cbc.execute(func() (interface{}, error) {
		return cbc.api.CreateUser(ctx, draft)
	}))
}

// UpdateUser updates a user with circuit breaker protection.
func (cbc *CircuitBreakerClient) UpdateUser(ctx context.Context, id int64, draft models.UserDraft) (*models.User, error) {
	return castResult[*models.User](cbc.execute(func() (interface{}, error) {
		return cbc.api.UpdateUser(ctx, id, draft)
	}))
}

// DeleteUser deletes a user with circuit breaker protection.
func (cbc *CircuitBreakerClient) DeleteUser(ctx context.Context, id int64) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.api.DeleteUser(ctx, id)
	})
	return err
}

// ListReaders retrieves readers with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListReaders(ctx context.Context) ([]models.Reader, error) {
	return castResult[[]models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListReaders(ctx)
	}))
}

// ListActiveReaders retrieves active readers with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListActiveReaders(ctx context.Context) ([]models.Reader, error) {
	return castResult[[]models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListActiveReaders(ctx)
	}))
}

// ListReadersWithRecords retrieves readers with records with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListReadersWithRecords(ctx context.Context) ([]models.Reader, error) {
	return castResult[[]models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListReadersWithRecords(ctx)
	}))
}

// GetReader retrieves one reader with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetReader(ctx context.Context, id int64) (*models.Reader, error) {
	return castResult[*models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.GetReader(ctx, id)
	}))
}

// CreateReader creates a reader with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreateReader(ctx context.Context, draft models.ReaderDraft) (*models.Reader, error) {
	return castResult[*models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.CreateReader(ctx, draft)
	}))
}

// UpdateReader updates a reader with circuit breaker protection.
func (cbc *CircuitBreakerClient) UpdateReader(ctx context.Context, id int64, draft models.ReaderDraft) (*models.Reader, error) {
	return castResult[*models.Reader](cbc.execute(func() (interface{}, error) {
		return cbc.api.UpdateReader(ctx, id, draft)
	}))
}

// DeleteReader deletes a reader with circuit breaker protection.
func (cbc *CircuitBreakerClient) DeleteReader(ctx context.Context, id int64) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.api.DeleteReader(ctx, id)
	})
	return err
}

// ListRecords retrieves records with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListRecords(ctx context.Context) ([]models.RawRecord, error) {
	return castResult[[]models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.ListRecords(ctx)
	}))
}

// CreateRecord creates a record with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreateRecord(ctx context.Context, draft models.RecordDraft) (*models.RawRecord, error) {
	return castResult[*models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.CreateRecord(ctx, draft)
	}))
}

// RecordsByUser retrieves a user's records with circuit breaker protection.
func (cbc *CircuitBreakerClient) RecordsByUser(ctx context.Context, userID int64) ([]models.RawRecord, error) {
	return castResult[[]models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.RecordsByUser(ctx, userID)
	}))
}

// RecordsByDate retrieves a day's records with circuit breaker protection.
func (cbc *CircuitBreakerClient) RecordsByDate(ctx context.Context, date string) ([]models.RawRecord, error) {
	return castResult[[]models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.RecordsByDate(ctx, date)
	}))
}

// RecordsByReader retrieves a reader's records with circuit breaker protection.
func (cbc *CircuitBreakerClient) RecordsByReader(ctx context.Context, readerID int64) ([]models.RawRecord, error) {
	return castResult[[]models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.RecordsByReader(ctx, readerID)
	}))
}

// unknownTagResult carries the two values of LastUnknownTag through the breaker.
type unknownTagResult struct {
	tag models.UnknownTag
	ok  bool
}

// LastUnknownTag retrieves the pending unknown tag with circuit breaker protection.
func (cbc *CircuitBreakerClient) LastUnknownTag(ctx context.Context) (models.UnknownTag, bool, error) {
	res, err := castResult[unknownTagResult](cbc.execute(func() (interface{}, error) {
		tag, ok, err := cbc.api.LastUnknownTag(ctx)
		return unknownTagResult{tag: tag, ok: ok}, err
	}))
	return res.tag, res.ok, err
}

// ScanTag submits a scan with circuit breaker protection.
func (cbc *CircuitBreakerClient) ScanTag(ctx context.Context, scan models.TagScan) (*models.RawRecord, error) {
	return castResult[*models.RawRecord](cbc.execute(func() (interface{}, error) {
		return cbc.api.ScanTag(ctx, scan)
	}))
}
