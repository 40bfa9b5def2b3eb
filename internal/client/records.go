// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/turnstile/internal/models"
)

// ListRecords retrieves every access record (GET /registros).
func (c *Client) ListRecords(ctx context.Context) ([]models.RawRecord, error) {
	return c.listRecords(ctx, "/registros", "/registros")
}

// RecordsByUser retrieves the records of one user (GET /registros/usuario/{id}).
func (c *Client) RecordsByUser(ctx context.Context, userID int64) ([]models.RawRecord, error) {
	return c.listRecords(ctx, "/registros/usuario/"+strconv.FormatInt(userID, 10), "/registros/usuario/{id}")
}

// RecordsByReader retrieves the records of one reader (GET /registros/lector/{id}).
func (c *Client) RecordsByReader(ctx context.Context, readerID int64) ([]models.RawRecord, error) {
	return c.listRecords(ctx, "/registros/lector/"+strconv.FormatInt(readerID, 10), "/registros/lector/{id}")
}

// RecordsByDate retrieves the records of one calendar day (GET /registros/fecha/{YYYY-MM-DD}).
// The date is checked locally so malformed input never reaches the backend.
func (c *Client) RecordsByDate(ctx context.Context, date string) ([]models.RawRecord, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return c.listRecords(ctx, "/registros/fecha/"+date, "/registros/fecha/{date}")
}

func (c *Client) listRecords(ctx context.Context, path, route string) ([]models.RawRecord, error) {
	records := []models.RawRecord{}
	if err := c.do(ctx, request{method: http.MethodGet, path: path, route: route, out: &records}); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord registers a manual access event (POST /registros).
// The backend rejects inactive users with 403.
func (c *Client) CreateRecord(ctx context.Context, draft models.RecordDraft) (*models.RawRecord, error) {
	var record models.RawRecord
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/registros",
		route:  "/registros",
		body:   draft,
		out:    &record,
	}); err != nil {
		return nil, err
	}
	return &record, nil
}

// ScanTag submits a card scan as a reader would (POST /registros/rfid).
// An unregistered tag yields a 404 and becomes the pending unknown tag.
func (c *Client) ScanTag(ctx context.Context, scan models.TagScan) (*models.RawRecord, error) {
	var record models.RawRecord
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/registros/rfid",
		route:  "/registros/rfid",
		body:   scan,
		out:    &record,
	}); err != nil {
		return nil, err
	}
	return &record, nil
}

// LastUnknownTag retrieves the most recent unregistered tag
// (GET /registros/ultimo-desconocido). A 404 means no tag is pending and is
// reported as ok=false with a nil error.
func (c *Client) LastUnknownTag(ctx context.Context) (models.UnknownTag, bool, error) {
	var tag models.UnknownTag
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/registros/ultimo-desconocido",
		route:  "/registros/ultimo-desconocido",
		out:    &tag,
	})
	if IsNotFound(err) {
		return models.UnknownTag{}, false, nil
	}
	if err != nil {
		return models.UnknownTag{}, false, err
	}
	return tag, tag.RfidTag != "", nil
}
