// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/turnstile/internal/middleware"
)

// slowRequestThreshold raises access log lines to warn.
const slowRequestThreshold = time.Second

// compressLevel is the gzip level for JSON and CSV responses.
const compressLevel = 5

// Router binds the handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router using the server section of the handler's config.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromServer(&handler.config.Server)),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	mw := router.chiMiddleware
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(slowRequestThreshold))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
	})

	// ========================
	// Monitoring
	// ========================
	r.With(mw.RateLimitCustom(RateLimitHealth)).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())

		// ========================
		// Session
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimitCustom(RateLimitLogin)).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)
		})

		r.With(mw.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.WebSocket)

		// ========================
		// Data Endpoints
		// ========================
		// Served from the synchronized snapshot; require a session.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Use(chimiddleware.Compress(compressLevel, "application/json", "text/csv"))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users)
				r.Post("/", h.CreateUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
				r.Post("/{id}/toggle", h.ToggleUser)
			})

			r.Route("/readers", func(r chi.Router) {
				r.Get("/", h.Readers)
				r.Get("/active", h.ActiveReaders)
				r.Get("/with-records", h.ReadersWithRecords)
				r.Post("/", h.CreateReader)
				r.Put("/{id}", h.UpdateReader)
				r.Delete("/{id}", h.DeleteReader)
				r.Post("/{id}/toggle", h.ToggleReader)
			})

			r.Route("/records", func(r chi.Router) {
				r.Get("/", h.Records)
				r.Post("/", h.CreateRecord)
				r.Post("/scan", h.ScanTag)
				r.Get("/summary", h.RecordsSummary)
				r.With(mw.RateLimitCustom(RateLimitExport)).Get("/export", h.ExportRecords)
				r.Get("/unknown-tag", h.UnknownTag)
			})

			r.Route("/views", func(r chi.Router) {
				r.Get("/recent", h.RecentView)
				r.Get("/users", h.UsersView)
				r.Get("/users/{id}", h.UserView)
			})

			r.Get("/dashboard", h.Dashboard)
			r.With(mw.RateLimitCustom(RateLimitReload)).Post("/reload", h.Reload)
		})
	})

	return r
}
