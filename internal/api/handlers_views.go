// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"

	"github.com/tomtom215/turnstile/internal/views"
)

// The view endpoints rebuild the navigation state from the query by replaying
// the events a user would have produced, then project it on the current
// snapshot. The projection carries the state actually rendered: a detail view
// of a deleted user comes back as the user list.

// RecentView handles GET /api/v1/views/recent with the records filters.
func (h *Handler) RecentView(w http.ResponseWriter, r *http.Request) {
	f, err := parseRecordFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pageReq, err := h.parsePageRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.project(w, r, replay(
		views.ShowRecent{},
		views.SetPageSize{PageSize: pageReq.PageSize},
		views.ApplyFilter{Filter: f},
		views.GoToPage{Page: pageReq.Page},
	))
}

// UsersView handles GET /api/v1/views/users?search=&page=&pageSize=
func (h *Handler) UsersView(w http.ResponseWriter, r *http.Request) {
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

	h.project(w, r, replay(
		views.ShowUsers{},
		views.SetPageSize{PageSize: pageReq.PageSize},
		views.SearchUsers{Search: f.Search},
		views.GoToPage{Page: pageReq.Page},
	))
}

// UserView handles GET /api/v1/views/users/{id}?page=&pageSize=
func (h *Handler) UserView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pageReq, err := h.parsePageRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.project(w, r, replay(
		views.ShowUsers{},
		views.SelectUser{UserID: id},
		views.SetPageSize{PageSize: pageReq.PageSize},
		views.GoToPage{Page: pageReq.Page},
	))
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request, state views.ViewState) {
	snap := h.app.Store().Snapshot()
	projection := views.Project(state, snap, h.app.Now())
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, projection, &APIMeta{Version: snap.Version})
}

// replay applies events in order, starting from the initial state.
func replay(events ...views.Event) views.ViewState {
	var state views.ViewState
	for _, ev := range events {
		state = views.Transition(state, ev)
	}
	return state
}
