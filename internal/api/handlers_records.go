// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/store"
	"github.com/tomtom215/turnstile/internal/validation"
	"github.com/tomtom215/turnstile/internal/views"
)

// noPendingTagMessage is shown while no unknown card has been scanned.
const noPendingTagMessage = "No se han detectado tags recientes"

// UnknownTagStatus is the body of GET /api/v1/records/unknown-tag.
type UnknownTagStatus struct {
	Pending bool   `json:"pending"`
	RfidTag string `json:"rfidTag,omitempty"`
	Message string `json:"message,omitempty"`
}

// Records handles GET /api/v1/records. Records are filtered, sorted most
// recent first and paginated.
//
// Query: search, usuarioId, lectorId, tipo, fecha, desde, hasta, page, pageSize
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
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

	snap := h.app.Store().Snapshot()
	sorted := views.SortRecordsDesc(views.FilterRecords(snap.Records, f))
	page := views.Paginate(sorted, pageReq)
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, page.Items, &APIMeta{
		Version:    snap.Version,
		Pagination: paginationMeta(page),
	})
}

// CreateRecord handles POST /api/v1/records, registering an access by hand.
// The backend picks the movement when tipoMovimiento is omitted.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var draft models.RecordDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err)
		return
	}
	draft.TipoMovimiento = models.Movement(strings.ToLower(strings.TrimSpace(string(draft.TipoMovimiento))))
	if verr := validation.ValidateStruct(draft); verr != nil {
		respondError(w, r, verr)
		return
	}

	raw, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.RawRecord, error) {
		return api.CreateRecord(ctx, draft)
	})
	respondMutation(w, r, http.StatusCreated, displayRecord(raw), snap, err)
}

// ScanTag handles POST /api/v1/records/scan, replaying a card scan the way a
// reader would. An unknown tag is answered with 404 and becomes the pending
// tag reported by UnknownTag.
func (h *Handler) ScanTag(w http.ResponseWriter, r *http.Request) {
	var scan models.TagScan
	if err := decodeJSON(w, r, &scan); err != nil {
		respondError(w, r, err)
		return
	}
	scan.RfidTag = strings.ToUpper(strings.TrimSpace(scan.RfidTag))
	if verr := validation.ValidateStruct(scan); verr != nil {
		respondError(w, r, verr)
		return
	}

	raw, snap, err := store.Mutate(r.Context(), h.app.Store(), func(ctx context.Context, api client.AccessAPI) (*models.RawRecord, error) {
		return api.ScanTag(ctx, scan)
	})
	respondMutation(w, r, http.StatusCreated, displayRecord(raw), snap, err)
}

// RecordsSummary handles GET /api/v1/records/summary: totals, today's count,
// entries and exits and the latest entry of the filtered records.
func (h *Handler) RecordsSummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseRecordFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snap := h.app.Store().Snapshot()
	summary := views.SummarizeRecords(views.FilterRecords(snap.Records, f), h.app.Now())
	NewResponseWriter(w, r).SuccessWithMeta(http.StatusOK, summary, &APIMeta{Version: snap.Version})
}

// ExportRecords handles GET /api/v1/records/export, downloading the filtered
// records as CSV, most recent first. It takes the same filters as Records and
// ignores pagination.
func (h *Handler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	f, err := parseRecordFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snap := h.app.Store().Snapshot()
	records := views.SortRecordsDesc(views.FilterRecords(snap.Records, f))
	filename := views.ExportFilename(h.app.Now())

	w.Header().Set("Content-Type", views.CSVContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := views.WriteCSV(w, records); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("filename", filename).Msg("Failed to write CSV export")
		return
	}
	logging.Ctx(r.Context()).Info().Int("records", len(records)).Str("filename", filename).Msg("Records exported")
}

// UnknownTag handles GET /api/v1/records/unknown-tag, polled by the user form
// to capture the tag of a card presented to a reader. "No pending tag" is a
// normal answer, not an error.
func (h *Handler) UnknownTag(w http.ResponseWriter, r *http.Request) {
	var (
		tag     models.UnknownTag
		pending bool
	)
	err := h.app.Store().Call(r.Context(), func(ctx context.Context, api client.AccessAPI) error {
		var err error
		tag, pending, err = api.LastUnknownTag(ctx)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !pending {
		WriteSuccess(w, r, UnknownTagStatus{Message: noPendingTagMessage})
		return
	}
	WriteSuccess(w, r, UnknownTagStatus{Pending: true, RfidTag: tag.RfidTag})
}

// displayRecord flattens a created record; nil stays nil.
func displayRecord(raw *models.RawRecord) *models.DisplayRecord {
	if raw == nil {
		return nil
	}
	rec := models.NormalizeRecord(*raw)
	return &rec
}
