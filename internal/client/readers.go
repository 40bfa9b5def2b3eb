// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tomtom215/turnstile/internal/models"
)

// ListReaders retrieves every reader (GET /lectores).
func (c *Client) ListReaders(ctx context.Context) ([]models.Reader, error) {
	return c.listReaders(ctx, "/lectores")
}

// ListActiveReaders retrieves readers with estado Activo (GET /lectores/activos).
func (c *Client) ListActiveReaders(ctx context.Context) ([]models.Reader, error) {
	return c.listReaders(ctx, "/lectores/activos")
}

// ListReadersWithRecords retrieves readers that have at least one record
// (GET /lectores/con-registros).
func (c *Client) ListReadersWithRecords(ctx context.Context) ([]models.Reader, error) {
	return c.listReaders(ctx, "/lectores/con-registros")
}

func (c *Client) listReaders(ctx context.Context, path string) ([]models.Reader, error) {
	readers := []models.Reader{}
	if err := c.do(ctx, request{method: http.MethodGet, path: path, route: path, out: &readers}); err != nil {
		return nil, err
	}
	return readers, nil
}

// GetReader retrieves one reader (GET /lectores/{id}).
func (c *Client) GetReader(ctx context.Context, id int64) (*models.Reader, error) {
	var reader models.Reader
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/lectores/" + strconv.FormatInt(id, 10),
		route:  "/lectores/{id}",
		out:    &reader,
	}); err != nil {
		return nil, err
	}
	return &reader, nil
}

// CreateReader registers a new reader (POST /lectores).
func (c *Client) CreateReader(ctx context.Context, draft models.ReaderDraft) (*models.Reader, error) {
	var reader models.Reader
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/lectores",
		route:  "/lectores",
		body:   draft,
		out:    &reader,
	}); err != nil {
		return nil, err
	}
	return &reader, nil
}

// UpdateReader replaces the editable fields of a reader (PUT /lectores/{id}).
func (c *Client) UpdateReader(ctx context.Context, id int64, draft models.ReaderDraft) (*models.Reader, error) {
	var reader models.Reader
	if err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/lectores/" + strconv.FormatInt(id, 10),
		route:  "/lectores/{id}",
		body:   draft,
		out:    &reader,
	}); err != nil {
		return nil, err
	}
	return &reader, nil
}

// DeleteReader removes a reader (DELETE /lectores/{id}).
func (c *Client) DeleteReader(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/lectores/" + strconv.FormatInt(id, 10),
		route:  "/lectores/{id}",
	})
}
