// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/store"
	"github.com/tomtom215/turnstile/internal/validation"
	"github.com/tomtom215/turnstile/internal/views"
)

// Readers handles GET /api/v1/readers?search=&estado=&page=&pageSize=
func (h *Handler) Readers(w http.ResponseWriter, r *http.Request) {
	f, err := parseReaderFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pageReq, err := h.parsePageRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snap := h.app.Store().Snapshot()
	page := views.Paginate(views.FilterReaders(snap.Readers, f), pageReq)
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, page.Items, &APIMeta{
		Version:    snap.Version,
		Pagination: paginationMeta(page),
	})
}

// ActiveReaders handles GET /api/v1/readers/active, the readers offered when
// registering a record by hand.
func (h *Handler) ActiveReaders(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Store().Snapshot()
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, views.ActiveReaders(snap.Readers), &APIMeta{Version: snap.Version})
}

// ReadersWithRecords handles GET /api/v1/readers/with-records, the readers
// offered by the records lector filter.
func (h *Handler) ReadersWithRecords(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Store().Snapshot()
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, views.ReadersWithRecords(snap.Readers, snap.Records), &APIMeta{Version: snap.Version})
}

// CreateReader handles POST /api/v1/readers.
func (h *Handler) CreateReader(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeReaderDraft(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	reader, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.Reader, error) {
		return api.CreateReader(ctx, draft)
	})
	respondMutation(w, r, http.StatusCreated, reader, snap, err)
}

// UpdateReader handles PUT /api/v1/readers/{id}.
func (h *Handler) UpdateReader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	draft, err := decodeReaderDraft(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	reader, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.Reader, error) {
		return api.UpdateReader(ctx, id, draft)
	})
	respondMutation(w, r, http.StatusOK, reader, snap, err)
}

// ToggleReader handles POST /api/v1/readers/{id}/toggle.
func (h *Handler) ToggleReader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	current, ok := findByID(h.app.Store().Snapshot().Readers, id, func(rd models.Reader) int64 { return rd.ID })
	if !ok {
		respondError(w, r, notFoundError("reader", id))
		return
	}

	draft := current.Draft()
	draft.Estado = current.Estado.Toggle()
	reader, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.Reader, error) {
		return api.UpdateReader(ctx, id, draft)
	})
	respondMutation(w, r, http.StatusOK, reader, snap, err)
}

// DeleteReader handles DELETE /api/v1/readers/{id}.
func (h *Handler) DeleteReader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snap, err := h.app.Store().MutateThenSync(r.Context(), func(ctx context.Context, api client.AccessAPI) error {
		return api.DeleteReader(ctx, id)
	})
	respondMutation(w, r, http.StatusOK, map[string]int64{"id": id}, snap, err)
}

func decodeReaderDraft(w http.ResponseWriter, r *http.Request) (models.ReaderDraft, error) {
	var draft models.ReaderDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		return draft, err
	}
	draft = draft.Clean()
	if verr := validation.ValidateStruct(draft); verr != nil {
		return draft, verr
	}
	return draft, nil
}
