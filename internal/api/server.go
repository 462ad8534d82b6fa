// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomitube/internal/library/history"
	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/config"
	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/middleware"
	"github.com/taibuivan/yomitube/internal/platform/respond"
	"github.com/taibuivan/yomitube/internal/users/account"
	"github.com/taibuivan/yomitube/internal/users/auth"
	"github.com/taibuivan/yomitube/internal/users/channel"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format.
	Metrics http.Handler

	// Auth handles registration, login, logout, refresh and password change.
	Auth *auth.Handler

	// Account handles the caller's own profile.
	Account *account.Handler

	// Channel handles channel profiles and subscriptions.
	Channel *channel.Handler

	// History handles watch history.
	History *history.Handler
}

// Dependencies are the cross-cutting collaborators of the middleware chain.
type Dependencies struct {
	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
	Requests    middleware.RequestObserver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := NewRouter(cfg, log, deps, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree. Split from [NewServer] so tests can drive it directly.
func NewRouter(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if deps.Requests != nil {
		r.Use(middleware.Metrics(deps.Requests))
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(deps.Verifier, deps.Revocations))
	r.Use(chimw.CleanPath)

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})

	// # Infrastructure Endpoints
	// Unauthenticated health checks for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/channels", h.Channel.Routes())
		api.Mount("/history", h.History.Routes())
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
