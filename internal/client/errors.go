// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindUnknown is any error that did not come from a backend call.
	KindUnknown Kind = iota
	// KindNetwork means the request did not reach the backend or the breaker is open.
	KindNetwork
	// KindAuth is HTTP 401: the session is no longer valid.
	KindAuth
	// KindNotFound is HTTP 404.
	KindNotFound
	// KindValidation is any other 4xx; the server message is shown verbatim.
	KindValidation
	// KindServer is a 5xx response.
	KindServer
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// ErrInvalidDate is returned by RecordsByDate for dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string // server-provided message, may be empty
	Method     string
	Path       string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// NetworkError is a request that never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

// Error implements error.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// KindOf classifies err.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return KindAuth
		case apiErr.StatusCode == http.StatusNotFound:
			return KindNotFound
		case apiErr.StatusCode >= 500:
			return KindServer
		case apiErr.StatusCode >= 400:
			return KindValidation
		}
		return KindUnknown
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ServerMessage returns the backend message carried by err, or "".
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsUnauthorized reports whether err is an HTTP 401 from the backend.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindAuth
}

// IsNotFound reports whether err is an HTTP 404 from the backend.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a 4xx other than 401/404.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// countsAsFailure decides what trips the circuit breaker: only transport
// failures and 5xx. Client errors and caller cancellations do not.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch KindOf(err) {
	case KindNetwork, KindServer:
		return true
	default:
		return false
	}
}

// errorBody is the subset of Spring's error response that carries a message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// extractMessage pulls a human-readable message out of an error body. JSON
// bodies contribute their "message" (or "error") field; anything else is used
// as plain text.
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "{") {
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			if eb.Message != "" {
				return eb.Message
			}
			return eb.Error
		}
	}
	return text
}
