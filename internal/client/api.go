// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package client

import (
	"context"

	"github.com/tomtom215/turnstile/internal/models"
)

// AccessAPI defines every backend operation used by the dashboard.
//
// It is implemented by Client for direct calls and by CircuitBreakerClient
// for production use. Categories:
//   - Auth: Login
//   - Users: ListUsers, ListActiveUsers, GetUser, CreateUser, UpdateUser, DeleteUser
//   - Readers: ListReaders, ListActiveReaders, ListReadersWithRecords, GetReader,
//     CreateReader, UpdateReader, DeleteReader
//   - Records: ListRecords, CreateRecord, RecordsByUser, RecordsByDate,
//     RecordsByReader, LastUnknownTag, ScanTag
type AccessAPI interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, draft models.UserDraft) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, draft models.UserDraft) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListReaders(ctx context.Context) ([]models.Reader, error)
	ListActiveReaders(ctx context.Context) ([]models.Reader, error)
	ListReadersWithRecords(ctx context.Context) ([]models.Reader, error)
	GetReader(ctx context.Context, id int64) (*models.Reader, error)
	CreateReader(ctx context.Context, draft models.ReaderDraft) (*models.Reader, error)
	UpdateReader(ctx context.Context, id int64, draft models.ReaderDraft) (*models.Reader, error)
	DeleteReader(ctx context.Context, id int64) error

	ListRecords(ctx context.Context) ([]models.RawRecord, error)
	CreateRecord(ctx context.Context, draft models.RecordDraft) (*models.RawRecord, error)
	RecordsByUser(ctx context.Context, userID int64) ([]models.RawRecord, error)
	RecordsByDate(ctx context.Context, date string) ([]models.RawRecord, error)
	RecordsByReader(ctx context.Context, readerID int64) ([]models.RawRecord, error)
	LastUnknownTag(ctx context.Context) (models.UnknownTag, bool, error)
	ScanTag(ctx context.Context, scan models.TagScan) (*models.RawRecord, error)
}

// Ensure both implementations satisfy AccessAPI.
var (
	_ AccessAPI = (*Client)(nil)
	_ AccessAPI = (*CircuitBreakerClient)(nil)
)
