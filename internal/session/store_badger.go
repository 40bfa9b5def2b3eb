// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
)

// tokenKey is the single key holding the persisted token.
const tokenKey = "session:authToken"

// storedToken is the persisted value.
type storedToken struct {
	Token     string    `json:"token"`
	Encrypted bool      `json:"encrypted"`
	SavedAt   time.Time `json:"saved_at"`
}

// BadgerTokenStore persists the bearer token in BadgerDB.
// It implements client.TokenSource.
type BadgerTokenStore struct {
	db  *badger.DB
	enc *TokenEncryptor
}

// Open opens the token store described by cfg. With InMemory set nothing
// touches the disk and the token is lost on restart.
func Open(cfg *config.SessionConfig) (*BadgerTokenStore, error) {
	enc, err := NewTokenEncryptor(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.StorePath)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for session: %w", err)
	}

	logging.Info().
		Bool("in_memory", cfg.InMemory).
		Bool("encrypted", enc.IsEnabled()).
		Str("path", cfg.StorePath).
		Msg("Session token store opened")

	return NewBadgerTokenStore(db, enc), nil
}

// NewBadgerTokenStore wraps an already open database. enc may be nil.
func NewBadgerTokenStore(db *badger.DB, enc *TokenEncryptor) *BadgerTokenStore {
	return &BadgerTokenStore{db: db, enc: enc}
}

// Token returns the persisted token, or "" when none is stored.
// A token that can no longer be decrypted is discarded and reported as absent.
func (s *BadgerTokenStore) Token(ctx context.Context) (string, error) {
	var stored storedToken
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	if !stored.Encrypted {
		return stored.Token, nil
	}

	token, err := s.enc.Decrypt(stored.Token)
	if err != nil || !s.enc.IsEnabled() {
		logging.Ctx(ctx).Warn().Err(err).Msg("Discarding persisted token that cannot be decrypted")
		if clearErr := s.ClearToken(ctx); clearErr != nil {
			return "", clearErr
		}
		return "", nil
	}
	return token, nil
}

// SetToken persists token, replacing any previous one.
func (s *BadgerTokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}

	value, err := s.enc.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	data, err := json.Marshal(storedToken{
		Token:     value,
		Encrypted: s.enc.IsEnabled(),
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tokenKey), data)
	})
}

// ClearToken removes the persisted token. Clearing an empty store is not an error.
func (s *BadgerTokenStore) ClearToken(ctx context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(tokenKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete token: %w", err)
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *BadgerTokenStore) Close() error {
	return s.db.Close()
}
