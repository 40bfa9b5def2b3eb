// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateSync(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateViews(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateBackend validates the backend connection settings
func (c *Config) validateBackend() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if err := validateHTTPURL(c.Backend.URL, "BACKEND_URL"); err != nil {
		return fmt.Errorf("BACKEND_URL is invalid: %w", err)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %v", c.Backend.Timeout)
	}
	if c.Backend.MaxRetries < 0 || c.Backend.MaxRetries > 10 {
		return fmt.Errorf("BACKEND_MAX_RETRIES must be between 0 and 10, got %d", c.Backend.MaxRetries)
	}
	if c.Backend.MaxRetries > 0 && c.Backend.RetryBaseDelay <= 0 {
		return fmt.Errorf("BACKEND_RETRY_BASE_DELAY must be positive when retries are enabled")
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("BACKEND_RATE_LIMIT must not be negative, got %v", c.Backend.RateLimit)
	}
	return c.validateBreaker()
}

// validateBreaker validates circuit breaker tuning (only if enabled)
func (c *Config) validateBreaker() error {
	if !c.Backend.CircuitBreaker {
		return nil
	}
	if c.Backend.BreakerFailureRatio < 0 || c.Backend.BreakerFailureRatio > 1 {
		return fmt.Errorf("BACKEND_BREAKER_FAILURE_RATIO must be between 0 and 1, got %v", c.Backend.BreakerFailureRatio)
	}
	if c.Backend.BreakerTimeout < 0 {
		return fmt.Errorf("BACKEND_BREAKER_TIMEOUT must not be negative")
	}
	return nil
}

// validateSession validates the session token store settings
func (c *Config) validateSession() error {
	if !c.Session.InMemory && c.Session.StorePath == "" {
		return fmt.Errorf("SESSION_STORE_PATH is required unless SESSION_IN_MEMORY=true")
	}
	if c.Session.EncryptionKey != "" {
		if len(c.Session.EncryptionKey) < 16 {
			return fmt.Errorf("SESSION_ENCRYPTION_KEY must be at least 16 characters")
		}
		if containsPlaceholder(c.Session.EncryptionKey) {
			return fmt.Errorf("SESSION_ENCRYPTION_KEY contains a placeholder value, set a real secret")
		}
	}
	if c.Session.ExpiryCheckInterval <= 0 {
		return fmt.Errorf("SESSION_EXPIRY_CHECK_INTERVAL must be positive, got %v", c.Session.ExpiryCheckInterval)
	}
	return nil
}

// validateSync validates reload settings
func (c *Config) validateSync() error {
	if c.Sync.ReloadTimeout <= 0 {
		return fmt.Errorf("SYNC_RELOAD_TIMEOUT must be positive, got %v", c.Sync.ReloadTimeout)
	}
	return nil
}

// validateServer validates the dashboard HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS must not contain * in production")
	}
	return nil
}

// hasWildcardCORS reports whether any configured origin is "*"
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true when wildcard CORS is configured outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return !c.IsProduction() && c.hasWildcardCORS()
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.SubjectPrefix == "" {
		return fmt.Errorf("NATS_SUBJECT_PREFIX is required when NATS_ENABLED=true")
	}
	return nil
}

// validateViews validates derived view defaults
func (c *Config) validateViews() error {
	if !IsAllowedPageSize(c.Views.DefaultPageSize) {
		return fmt.Errorf("VIEWS_DEFAULT_PAGE_SIZE must be one of %v, got %d", AllowedPageSizes, c.Views.DefaultPageSize)
	}
	if c.Views.RecentLimit < 1 {
		return fmt.Errorf("VIEWS_RECENT_LIMIT must be at least 1")
	}
	if _, err := c.Views.Location(); err != nil {
		return fmt.Errorf("VIEWS_TIMEZONE is invalid: %w", err)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains a common placeholder pattern
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
