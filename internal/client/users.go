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

// ListUsers retrieves every user (GET /usuarios).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.listUsers(ctx, "/usuarios")
}

// ListActiveUsers retrieves users with estado Activo (GET /usuarios/activos).
func (c *Client) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	return c.listUsers(ctx, "/usuarios/activos")
}

func (c *Client) listUsers(ctx context.Context, path string) ([]models.User, error) {
	users := []models.User{}
	if err := c.do(ctx, request{method: http.MethodGet, path: path, route: path, out: &users}); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser retrieves one user (GET /usuarios/{id}).
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/usuarios/" + strconv.FormatInt(id, 10),
		route:  "/usuarios/{id}",
		out:    &user,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser registers a new user (POST /usuarios).
func (c *Client) CreateUser(ctx context.Context, draft models.UserDraft) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/usuarios",
		route:  "/usuarios",
		body:   draft,
		out:    &user,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces the editable fields of a user (PUT /usuarios/{id}).
func (c *Client) UpdateUser(ctx context.Context, id int64, draft models.UserDraft) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/usuarios/" + strconv.FormatInt(id, 10),
		route:  "/usuarios/{id}",
		body:   draft,
		out:    &user,
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and, on the backend, its records (DELETE /usuarios/{id}).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/usuarios/" + strconv.FormatInt(id, 10),
		route:  "/usuarios/{id}",
	})
}
