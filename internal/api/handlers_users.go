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

// Users handles GET /api/v1/users?search=&estado=&page=&pageSize=
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	f, err := parseUserFilter(r)
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
	page := views.Paginate(views.FilterUsers(snap.Users, f), pageReq)
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, page.Items, &APIMeta{
		Version:    snap.Version,
		Pagination: paginationMeta(page),
	})
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeUserDraft(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.User, error) {
		return api.CreateUser(ctx, draft)
	})
	respondMutation(w, r, http.StatusCreated, user, snap, err)
}

// UpdateUser handles PUT /api/v1/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	draft, err := decodeUserDraft(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.User, error) {
		return api.UpdateUser(ctx, id, draft)
	})
	respondMutation(w, r, http.StatusOK, user, snap, err)
}

// ToggleUser handles POST /api/v1/users/{id}/toggle, flipping Activo and
// Inactivo. The rest of the user is sent back as currently cached.
func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	current, ok := findByID(h.app.Store().Snapshot().Users, id, func(u models.User) int64 { return u.ID })
	if !ok {
		respondError(w, r, notFoundError("user", id))
		return
	}

	draft := current.Draft()
	draft.Estado = current.Estado.Toggle()
	user, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.User, error) {
		return api.UpdateUser(ctx, id, draft)
	})
	respondMutation(w, r, http.StatusOK, user, snap, err)
}

// DeleteUser handles DELETE /api/v1/users/{id}. The backend deletes the user's
// records with it; the reload drops them from the snapshot.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snap, err := h.app.Store().MutateThenSync(r.Context(), func(ctx context.Context, api client.AccessAPI) error {
		return api.DeleteUser(ctx, id)
	})
	respondMutation(w, r, http.StatusOK, map[string]int64{"id": id}, snap, err)
}

func decodeUserDraft(w http.ResponseWriter, r *http.Request) (models.UserDraft, error) {
	var draft models.UserDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		return draft, err
	}
	draft = draft.Clean()
	if verr := validation.ValidateStruct(draft); verr != nil {
		return draft, verr
	}
	return draft, nil
}

// findByID returns the element of items whose id is id.
func findByID[T any](items []T, id int64, idOf func(T) int64) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
