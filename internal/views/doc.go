// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package views computes the projections the dashboard displays from a store
snapshot: filtered, sorted and paginated lists, aggregate counters, CSV
exports and the records page navigation state.

Every function is pure. Inputs are never modified; filters and sorts return
new slices so that the shared snapshot slices stay intact.

# Filters

Filters compose by logical AND. Empty values and the "todos" sentinel disable
a filter, as does a zero relation ID:

	page := views.Paginate(
	    views.SortRecordsDesc(views.FilterRecords(snap.Records, views.RecordFilter{
	        Search: "juan",
	        Desde:  "2024-01-01",
	        Hasta:  "2024-01-31",
	    })),
	    views.PageRequest{Page: 2, PageSize: 25},
	)

# Dates

A record's date is the calendar date of fechaHora as written by the backend.
Wall-clock values are parsed in UTC, so "2024-01-15 23:59:59" always belongs to
2024-01-15 regardless of the server time zone. "Today" is evaluated in the
configured location.

# Navigation

ViewState models the records page as one of Recent, UserList or UserDetail.
Transition applies navigation events and Project renders a state against a
snapshot, falling back to UserList when the selected user no longer exists.
*/
package views
