// Copyright (c) 2026 Rokto. All rights reserved.

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

	"github.com/roktoapp/rokto/internal/auth"
	"github.com/roktoapp/rokto/internal/blog"
	"github.com/roktoapp/rokto/internal/donation"
	"github.com/roktoapp/rokto/internal/platform/config"
	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/middleware"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/users"
	"github.com/roktoapp/rokto/pkg/query"
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
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the identity endpoints (/jwt, /logout).
	Auth *auth.Handler

	// Users handles the user directory and donor search.
	Users *users.Handler

	// Donation handles the donation-request lifecycle.
	Donation *donation.Handler

	// Blog handles the content-publishing workflow.
	Blog *blog.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Routes are mounted at the root rather than under a versioned prefix
// because the paths are a deployment contract with existing frontends.
func NewServer(cfg *config.Config, log *slog.Logger, guard *middleware.Guard, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(query.StringSlice(cfg.CORSOrigins)))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration, plus the root
	// banner the frontends use as a smoke check.
	r.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, "Blood Donation Management System Backend is running...")
	})
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	h.Auth.RegisterRoutes(r)
	h.Users.RegisterRoutes(r, guard)
	h.Donation.RegisterRoutes(r, guard)
	h.Blog.RegisterRoutes(r, guard)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
