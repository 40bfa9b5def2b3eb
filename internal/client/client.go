// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
client.go - Access-control backend REST client

This file provides the Client struct and the HTTP communication layer for the
access-control backend (/auth, /usuarios, /lectores, /registros).

Client Features:
  - Bearer token read from the persisted session on every call
  - No Authorization header when no token is stored
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - Client-side token bucket so bursts of dashboard actions stay polite
  - Typed errors: *APIError (non-2xx) and *NetworkError (no response)
  - No caching; every call goes to the backend

Related Files:
  - users.go, readers.go, records.go: endpoint methods
  - circuit_breaker.go: gobreaker decorator implementing the same interface
  - errors.go: error taxonomy and classification helpers
*/

//nolint:staticcheck // File documentation, not package doc
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// maxErrorBodySize limits error body reads to 64KB.
const maxErrorBodySize = 64 * 1024

// TokenSource provides the bearer token for outgoing requests.
// An empty token with a nil error means "not logged in".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the access-control backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// New creates a backend client. tokens may be nil, in which case every request
// is sent unauthenticated.
func New(cfg *config.BackendConfig, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.URL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		tokens:         tokens,
		limiter:        limiter,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// request describes one backend call.
type request struct {
	method string
	path   string      // concrete path, e.g. /usuarios/3
	route  string      // path template for metrics, e.g. /usuarios/{id}
	body   interface{} // JSON-encoded when non-nil
	out    interface{} // JSON-decoded when non-nil and the response has a body
}

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// do performs the request, retrying HTTP 429 with exponential backoff.
func (c *Client) do(ctx context.Context, req request) error {
	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s body: %w", req.route, err)
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Method: req.method, Path: req.path, Err: err}
		}

		resp, err := c.send(ctx, req, payload, token)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			_ = resp.Body.Close() // retrying anyway
			metrics.BackendRetries.WithLabelValues(req.route).Inc()

			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					delay = time.Duration(seconds) * time.Second
				}
			}
			logging.Ctx(ctx).Debug().Str("route", req.route).Dur("delay", delay).Int("attempt", attempt+1).Msg("Backend rate limited, backing off")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return &NetworkError{Method: req.method, Path: req.path, Err: ctx.Err()}
			}
			continue
		}

		return c.handleResponse(req, resp)
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

func (c *Client) send(ctx context.Context, req request, payload []byte, token string) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordBackendRequest(req.method, req.route, 0, time.Since(start))
		return nil, &NetworkError{Method: req.method, Path: req.path, Err: err}
	}
	metrics.RecordBackendRequest(req.method, req.route, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *Client) handleResponse(req request, resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(readBodyForError(resp.Body)),
			Method:     req.method,
			Path:       req.path,
		}
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		route:  "/auth/login",
		body:   creds,
		out:    &resp,
	}); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response did not contain a token")
	}
	return resp.Token, nil
}
