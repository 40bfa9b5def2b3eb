// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/turnstile/internal/app"
	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/store"
	"github.com/tomtom215/turnstile/internal/validation"
)

// Errors raised by the handlers themselves
var (
	errInvalidID     = errors.New("id must be a positive integer")
	errNotAuthorized = errors.New("no active session, log in first")
	errBodyTooLarge  = errors.New("request body too large")
	errNotInSnapshot = errors.New("not found")
	errMalformedBody = errors.New("malformed JSON body")
)

// staleWarning accompanies mutations whose follow-up reload failed.
const staleWarning = "change saved, but the dashboard could not refresh; reload to see it"

// sessionEndedWarning accompanies mutations whose follow-up reload found the
// session expired.
const sessionEndedWarning = "change saved, but the session has expired; log in again"

// respondError maps err to a status and error code and writes it.
//
//	*validation.RequestValidationError  422 VALIDATION_ERROR with per-field details
//	backend 401                         401 SESSION_EXPIRED
//	backend 404                         404 NOT_FOUND, server message
//	backend other 4xx                   400 BACKEND_REJECTED, server message verbatim
//	backend 5xx                         502 BACKEND_ERROR
//	transport failure or open breaker   502 BACKEND_UNAVAILABLE
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	logger := logging.Ctx(r.Context())

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	var qerr *queryParamError
	if errors.As(err, &qerr) {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeBadRequest, qerr.Error(), map[string]interface{}{"field": qerr.param})
		return
	}

	switch {
	case errors.Is(err, errInvalidID), errors.Is(err, errMalformedBody):
		rw.BadRequest(err.Error())
		return
	case errors.Is(err, errNotAuthorized):
		rw.Error(http.StatusUnauthorized, ErrCodeNotAuthenticated, err.Error())
		return
	case errors.Is(err, errBodyTooLarge):
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, err.Error())
		return
	case errors.Is(err, errNotInSnapshot):
		rw.NotFound(err.Error())
		return
	case errors.Is(err, client.ErrInvalidDate):
		rw.BadRequest(err.Error())
		return
	case errors.Is(err, app.ErrNoToken):
		logger.Error().Err(err).Msg("Backend login returned no token")
		rw.Error(http.StatusBadGateway, ErrCodeBackendError, "backend did not issue a session token")
		return
	}

	switch client.KindOf(err) {
	case client.KindAuth:
		rw.Error(http.StatusUnauthorized, ErrCodeSessionExpired, "session expired, log in again")
	case client.KindNotFound:
		rw.NotFound(messageOr(err, "resource not found"))
	case client.KindValidation:
		rw.Error(http.StatusBadRequest, ErrCodeBackendRejected, messageOr(err, "request rejected by backend"))
	case client.KindServer:
		logger.Warn().Err(err).Msg("Backend returned a server error")
		rw.Error(http.StatusBadGateway, ErrCodeBackendError, "backend error")
	case client.KindNetwork:
		logger.Warn().Err(err).Msg("Backend unreachable")
		rw.Error(http.StatusBadGateway, ErrCodeBackendUnavailable, "backend unavailable")
	default:
		logger.Error().Err(err).Msg("Unhandled API error")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

// respondMutation writes the result of a mutate-then-sync call. A reload
// failure after a successful mutation still reports success, flagged stale.
// When that reload ended the session, meta.code is SESSION_EXPIRED.
func respondMutation(w http.ResponseWriter, r *http.Request, status int, data interface{}, snap store.Snapshot, err error) {
	meta := &APIMeta{Version: snap.Version}
	if err != nil {
		if !errors.Is(err, store.ErrReloadAfterMutation) {
			respondError(w, r, err)
			return
		}
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Mutation saved but reload failed")
		meta.Stale = true
		meta.Warning = staleWarning
		if client.IsUnauthorized(err) || errors.Is(err, store.ErrSessionEnded) {
			meta.Code = ErrCodeSessionExpired
			meta.Warning = sessionEndedWarning
		}
	}
	NewResponseWriter(w, r).SuccessWithMeta(status, data, meta)
}

func messageOr(err error, fallback string) string {
	if msg := strings.TrimSpace(client.ServerMessage(err)); msg != "" {
		return msg
	}
	return fallback
}

// notFoundError reports an entity missing from the current snapshot.
func notFoundError(entity string, id int64) error {
	return fmt.Errorf("%s %d %w", entity, id, errNotInSnapshot)
}
