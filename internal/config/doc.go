// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package config provides centralized configuration management for Turnstile.

Configuration is loaded with Koanf v2 in three layers, later layers overriding
earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml or /etc/turnstile/config.yaml)
 3. Environment variables mapped through an explicit table

# Configuration Structure

  - BackendConfig: access-control backend URL, timeouts, retries, rate limit, breaker
  - SessionConfig: persisted token store (BadgerDB) and expiry monitoring
  - SyncConfig: automatic reload after login and reload timeout
  - ServerConfig: dashboard HTTP server, CORS and per-IP rate limiting
  - LoggingConfig: zerolog level, format and caller info
  - NATSConfig: optional fan-out of dashboard events to NATS
  - ViewsConfig: default page size, recent-records limit and timezone for "today"

# Environment Variables

Backend:
  - BACKEND_URL: backend base URL (required, e.g. http://localhost:8080)
  - BACKEND_TIMEOUT: per-request timeout (default: 30s)
  - BACKEND_MAX_RETRIES: retries for HTTP 429 (default: 3)
  - BACKEND_RETRY_BASE_DELAY: first 429 backoff step (default: 500ms)
  - BACKEND_RATE_LIMIT: outgoing requests per second, 0 disables (default: 20)
  - BACKEND_RATE_BURST: limiter burst (default: 10)
  - BACKEND_CIRCUIT_BREAKER: wrap the client with a breaker (default: true)

Session:
  - SESSION_STORE_PATH: BadgerDB directory (default: /data/session)
  - SESSION_IN_MEMORY: keep the token in memory only (default: false)
  - SESSION_ENCRYPTION_KEY: secret for encrypting the token at rest (optional)
  - SESSION_EXPIRY_CHECK_INTERVAL: token expiry poll interval (default: 30s)

Sync:
  - SYNC_AUTO_RELOAD: reload all collections after login/startup (default: true)
  - SYNC_RELOAD_TIMEOUT: upper bound for one full reload (default: 30s)

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3870)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - ENVIRONMENT: development or production

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

NATS:
  - NATS_ENABLED (default: false), NATS_URL, NATS_SUBJECT_PREFIX

Views:
  - VIEWS_DEFAULT_PAGE_SIZE: 5, 10, 25 or 50 (default: 10)
  - VIEWS_RECENT_LIMIT: records on the dashboard summary (default: 5)
  - VIEWS_TIMEZONE: IANA zone used for "today" (default: Local)

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatalf("Configuration error: %v", err)
	}
	apiClient := client.New(&cfg.Backend, tokenStore)
*/
package config
