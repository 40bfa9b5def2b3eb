// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config holds all application configuration.
// Struct tags specify the Koanf path for each field.
type Config struct {
	Backend BackendConfig `koanf:"backend"`
	Session SessionConfig `koanf:"session"`
	Sync    SyncConfig    `koanf:"sync"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	NATS    NATSConfig    `koanf:"nats"` // Optional: event fan-out over NATS
	Views   ViewsConfig   `koanf:"views"`
}

// BackendConfig holds the access-control backend connection settings
type BackendConfig struct {
	URL            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxRetries     int           `koanf:"max_retries"`      // HTTP 429 retries
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"` // doubled per retry unless Retry-After is sent
	RateLimit      float64       `koanf:"rate_limit"`       // requests per second, 0 = unlimited
	RateBurst      int           `koanf:"rate_burst"`

	CircuitBreaker      bool          `koanf:"circuit_breaker"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// SessionConfig holds the persisted session token settings
type SessionConfig struct {
	StorePath           string        `koanf:"store_path"`
	InMemory            bool          `koanf:"in_memory"`
	EncryptionKey       string        `koanf:"encryption_key"` // empty = stored as plaintext
	ExpiryCheckInterval time.Duration `koanf:"expiry_check_interval"`
}

// SyncConfig holds collection store synchronization settings
type SyncConfig struct {
	AutoReload    bool          `koanf:"auto_reload"`
	ReloadTimeout time.Duration `koanf:"reload_timeout"`
}

// ServerConfig holds dashboard HTTP server settings
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	Environment       string        `koanf:"environment"` // "development" or "production"
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// NATSConfig holds the optional NATS event fan-out settings
type NATSConfig struct {
	Enabled       bool   `koanf:"enabled"`
	URL           string `koanf:"url"`
	SubjectPrefix string `koanf:"subject_prefix"`
}

// ViewsConfig holds derived view defaults
type ViewsConfig struct {
	DefaultPageSize int    `koanf:"default_page_size"`
	RecentLimit     int    `koanf:"recent_limit"`
	Timezone        string `koanf:"timezone"`
}

// Location resolves Timezone. "Local" and "" mean the process location.
func (v ViewsConfig) Location() (*time.Location, error) {
	if v.Timezone == "" || strings.EqualFold(v.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", v.Timezone, err)
	}
	return loc, nil
}

// AllowedPageSizes lists the page sizes the dashboard offers.
var AllowedPageSizes = []int{5, 10, 25, 50}

// IsAllowedPageSize reports whether n is one of AllowedPageSizes.
func IsAllowedPageSize(n int) bool {
	return slices.Contains(AllowedPageSizes, n)
}
