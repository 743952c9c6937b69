package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"libraryapi/internal/auth"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/library"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	cfg       config.Config
	logger    *slog.Logger
	db        pinger
	library   *library.HTTPHandler
	auth      *auth.HTTPHandler
	rateLimit *httpx.RateLimitMiddleware
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.logger))
	r.Use(httpx.RecoveryMiddleware(d.logger))
	r.Use(httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.rateLimit != nil {
		r.Use(d.rateLimit.Middleware)
	}
	r.Use(httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", httpx.MessageMethodNotAllowed, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Database not ready", nil)
			return
		}
		httpx.JSONSuccess(w, r, map[string]string{"status": "ready"}, nil)
	})

	r.Route("/v1", func(r chi.Router) {
		if d.auth != nil {
			d.auth.Routes(r)
		}
		r.Group(func(r chi.Router) {
			r.Use(httpx.RequireAdminForWrites(d.cfg.AdminJWTSecret))
			d.library.Routes(r)
		})
	})

	return r
}
