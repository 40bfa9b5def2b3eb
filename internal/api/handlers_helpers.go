// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/validation"
	"github.com/tomtom215/turnstile/internal/views"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 * 1024

// queryParamError is a query parameter that is not a valid integer.
type queryParamError struct {
	param string
	value string
}

func (e *queryParamError) Error() string {
	return fmt.Sprintf("query parameter %s must be an integer, got %q", e.param, e.value)
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSON reads a JSON body into v. Unknown fields are rejected so typos
// in field names do not silently drop data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errBodyTooLarge
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", errMalformedBody)
		default:
			return fmt.Errorf("%w: %v", errMalformedBody, err)
		}
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// getIntParam extracts an integer query parameter; absent means defaultValue.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &queryParamError{param: key, value: sanitizeLogValue(value)}
	}
	return n, nil
}

// getInt64Param is getIntParam for entity IDs.
func getInt64Param(r *http.Request, key string) (int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &queryParamError{param: key, value: sanitizeLogValue(value)}
	}
	return n, nil
}

func getStringParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// parsePageRequest reads page and pageSize and validates them.
func (h *Handler) parsePageRequest(r *http.Request) (views.PageRequest, error) {
	page, err := getIntParam(r, "page", 1)
	if err != nil {
		return views.PageRequest{}, err
	}
	size, err := getIntParam(r, "pageSize", h.config.Views.DefaultPageSize)
	if err != nil {
		return views.PageRequest{}, err
	}
	req := views.PageRequest{Page: page, PageSize: size}
	if verr := validation.ValidateStruct(req); verr != nil {
		return views.PageRequest{}, verr
	}
	return req, nil
}

// parseRecordFilter reads the records filter query parameters.
// fechaInicio and fechaFin are accepted as aliases of desde and hasta.
func parseRecordFilter(r *http.Request) (views.RecordFilter, error) {
	userID, err := getInt64Param(r, "usuarioId")
	if err != nil {
		return views.RecordFilter{}, err
	}
	readerID, err := getInt64Param(r, "lectorId")
	if err != nil {
		return views.RecordFilter{}, err
	}

	f := views.RecordFilter{
		Search:    getStringParam(r, "search"),
		UsuarioID: userID,
		LectorID:  readerID,
		Tipo:      getStringParam(r, "tipo"),
		Fecha:     getStringParam(r, "fecha"),
		Desde:     firstNonEmpty(getStringParam(r, "desde"), getStringParam(r, "fechaInicio")),
		Hasta:     firstNonEmpty(getStringParam(r, "hasta"), getStringParam(r, "fechaFin")),
	}
	if verr := validation.ValidateStruct(f); verr != nil {
		return views.RecordFilter{}, verr
	}
	return f, nil
}

func parseUserFilter(r *http.Request) (views.UserFilter, error) {
	f := views.UserFilter{
		Search: getStringParam(r, "search"),
		Estado: getStringParam(r, "estado"),
	}
	if verr := validation.ValidateStruct(f); verr != nil {
		return views.UserFilter{}, verr
	}
	return f, nil
}

func parseReaderFilter(r *http.Request) (views.ReaderFilter, error) {
	f := views.ReaderFilter{
		Search: getStringParam(r, "search"),
		Estado: getStringParam(r, "estado"),
	}
	if verr := validation.ValidateStruct(f); verr != nil {
		return views.ReaderFilter{}, verr
	}
	return f, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// paginationMeta describes page for the response envelope.
func paginationMeta[T any](page views.Page[T]) *PaginationMeta {
	return &PaginationMeta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasMore:    page.Page < page.TotalPages,
	}
}
