// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"cmp"
	"slices"
	"time"

	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/store"
)

// Mode names a ViewState variant.
type Mode string

const (
	ModeRecent     Mode = "recent"
	ModeUserList   Mode = "users"
	ModeUserDetail Mode = "user"
)

// ViewState is the navigation state of the records page. It is one of
// Recent, UserList or UserDetail.
type ViewState interface {
	Mode() Mode
	sealed()
}

// Recent lists all records, most recent first, under a filter.
type Recent struct {
	Filter RecordFilter `json:"filter"`
	Page   PageRequest  `json:"page"`
}

// UserList lists users with their record activity.
type UserList struct {
	Search string      `json:"search"`
	Page   PageRequest `json:"page"`
}

// UserDetail lists the records of a single user.
type UserDetail struct {
	UserID int64       `json:"userId"`
	Page   PageRequest `json:"page"`
}

func (Recent) Mode() Mode     { return ModeRecent }
func (UserList) Mode() Mode   { return ModeUserList }
func (UserDetail) Mode() Mode { return ModeUserDetail }

func (Recent) sealed()     {}
func (UserList) sealed()   {}
func (UserDetail) sealed() {}

// Event is a navigation action applied with Transition.
type Event interface {
	event()
}

type (
	// ShowRecent switches to the records list, keeping no filter.
	ShowRecent struct{}
	// ShowUsers switches to the user list.
	ShowUsers struct{}
	// SelectUser opens the records of one user.
	SelectUser struct{ UserID int64 }
	// Back returns to the enclosing view: detail to list, list to recent.
	Back struct{}
	// ApplyFilter replaces the records filter and returns to page 1.
	ApplyFilter struct{ Filter RecordFilter }
	// ClearFilters drops every records filter.
	ClearFilters struct{}
	// SearchUsers filters the user list by name, document or tag.
	SearchUsers struct{ Search string }
	// GoToPage changes the page of the current list.
	GoToPage struct{ Page int }
	// SetPageSize changes the page size and returns to page 1.
	SetPageSize struct{ PageSize int }
)

func (ShowRecent) event()   {}
func (ShowUsers) event()    {}
func (SelectUser) event()   {}
func (Back) event()         {}
func (ApplyFilter) event()  {}
func (ClearFilters) event() {}
func (SearchUsers) event()  {}
func (GoToPage) event()     {}
func (SetPageSize) event()  {}

// Transition applies ev to state. Events that do not apply to the current
// variant leave it unchanged. A nil state starts from Recent.
func Transition(state ViewState, ev Event) ViewState {
	if state == nil {
		state = Recent{}
	}

	switch e := ev.(type) {
	case ShowRecent:
		return Recent{Page: PageRequest{PageSize: pageSizeOf(state)}}
	case ShowUsers:
		return UserList{Page: PageRequest{PageSize: pageSizeOf(state)}}
	case SelectUser:
		if e.UserID <= 0 {
			return state
		}
		return UserDetail{UserID: e.UserID, Page: PageRequest{PageSize: pageSizeOf(state)}}
	case Back:
		switch s := state.(type) {
		case UserDetail:
			return UserList{Page: PageRequest{PageSize: s.Page.PageSize}}
		case UserList:
			return Recent{Page: PageRequest{PageSize: s.Page.PageSize}}
		}
		return state
	case GoToPage:
		return withPage(state, PageRequest{Page: max(e.Page, 1), PageSize: pageSizeOf(state)})
	case SetPageSize:
		if e.PageSize <= 0 {
			return state
		}
		return withPage(state, PageRequest{Page: 1, PageSize: e.PageSize})
	}

	switch s := state.(type) {
	case Recent:
		switch e := ev.(type) {
		case ApplyFilter:
			return Recent{Filter: e.Filter, Page: PageRequest{Page: 1, PageSize: s.Page.PageSize}}
		case ClearFilters:
			return Recent{Page: PageRequest{Page: 1, PageSize: s.Page.PageSize}}
		}
	case UserList:
		if e, ok := ev.(SearchUsers); ok {
			return UserList{Search: e.Search, Page: PageRequest{Page: 1, PageSize: s.Page.PageSize}}
		}
	}
	return state
}

func pageSizeOf(state ViewState) int {
	switch s := state.(type) {
	case Recent:
		return s.Page.PageSize
	case UserList:
		return s.Page.PageSize
	case UserDetail:
		return s.Page.PageSize
	}
	return 0
}

func withPage(state ViewState, page PageRequest) ViewState {
	switch s := state.(type) {
	case Recent:
		s.Page = page
		return s
	case UserList:
		s.Page = page
		return s
	case UserDetail:
		s.Page = page
		return s
	}
	return state
}

// UserActivity is a user row of the UserList view.
type UserActivity struct {
	User     models.User       `json:"usuario"`
	Records  int               `json:"registros"`
	LastSeen *models.Timestamp `json:"ultimoRegistro"`
}

// Projection is a ViewState rendered against a snapshot. Only the fields of
// the active mode are set.
type Projection struct {
	Mode    Mode                        `json:"mode"`
	State   ViewState                   `json:"state"`
	Records *Page[models.DisplayRecord] `json:"records,omitempty"`
	Users   *Page[UserActivity]         `json:"users,omitempty"`
	User    *models.User                `json:"user,omitempty"`
	Summary *RecordSummary              `json:"summary,omitempty"`
	Version uint64                      `json:"version"`
}

// Reconcile adjusts state to snap: a UserDetail whose user is gone becomes
// UserList. Other states are returned unchanged.
func Reconcile(state ViewState, snap store.Snapshot) ViewState {
	if state == nil {
		return Recent{}
	}
	if d, ok := state.(UserDetail); ok {
		if _, found := findUser(snap.Users, d.UserID); !found {
			return UserList{Page: PageRequest{PageSize: d.Page.PageSize}}
		}
	}
	return state
}

// Project reconciles state with snap and renders it. The returned projection
// carries the reconciled state.
func Project(state ViewState, snap store.Snapshot, now time.Time) Projection {
	state = Reconcile(state, snap)
	proj := Projection{Mode: state.Mode(), State: state, Version: snap.Version}

	switch s := state.(type) {
	case Recent:
		filtered := FilterRecords(snap.Records, s.Filter)
		page := Paginate(SortRecordsDesc(filtered), s.Page)
		summary := SummarizeRecords(filtered, now)
		proj.Records, proj.Summary = &page, &summary

	case UserList:
		page := Paginate(userActivity(FilterUsers(snap.Users, UserFilter{Search: s.Search}), snap.Records), s.Page)
		proj.Users = &page

	case UserDetail:
		user, _ := findUser(snap.Users, s.UserID)
		filtered := FilterRecords(snap.Records, RecordFilter{UsuarioID: s.UserID})
		page := Paginate(SortRecordsDesc(filtered), s.Page)
		summary := SummarizeRecords(filtered, now)
		proj.User, proj.Records, proj.Summary = &user, &page, &summary
	}
	return proj
}

func findUser(users []models.User, id int64) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// userActivity pairs users with their record counts, most recently seen first.
// Users without records follow, ordered by name.
func userActivity(users []models.User, records []models.DisplayRecord) []UserActivity {
	byUser := make(map[int64]*UserActivity, len(users))
	rows := make([]UserActivity, len(users))
	for i, u := range users {
		rows[i] = UserActivity{User: u}
		byUser[u.ID] = &rows[i]
	}

	for _, r := range records {
		row, ok := byUser[r.UsuarioID]
		if !ok || r.UsuarioID == 0 {
			continue
		}
		row.Records++
		if row.LastSeen == nil || r.FechaHora.Time.After(row.LastSeen.Time) {
			ts := r.FechaHora
			row.LastSeen = &ts
		}
	}

	slices.SortStableFunc(rows, func(a, b UserActivity) int {
		switch {
		case a.LastSeen != nil && b.LastSeen != nil:
			if c := b.LastSeen.Time.Compare(a.LastSeen.Time); c != 0 {
				return c
			}
		case a.LastSeen != nil:
			return -1
		case b.LastSeen != nil:
			return 1
		}
		return cmp.Compare(a.User.Nombre, b.User.Nombre)
	})
	return rows
}
