// Copyright (c) 2026 Rokto. All rights reserved.

// Command api is the entry point for the Rokto HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB.
//  4. Connect to Redis (optional; role cache only).
//  5. Ensure collection indexes (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roktoapp/rokto/internal/api"
	"github.com/roktoapp/rokto/internal/auth"
	"github.com/roktoapp/rokto/internal/blog"
	"github.com/roktoapp/rokto/internal/donation"
	"github.com/roktoapp/rokto/internal/platform/config"
	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/middleware"
	"github.com/roktoapp/rokto/internal/platform/mongodb"
	redisstore "github.com/roktoapp/rokto/internal/platform/redis"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/internal/users"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Rokto] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.Port),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	mongoClient, err := mongodb.Connect(startupCtx, cfg.MongoURI(), log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("disconnecting mongodb client")
		if cerr := mongoClient.Disconnect(context.Background()); cerr != nil {
			log.Error("mongodb disconnect error", slog.Any("error", cerr))
		}
	}()

	db := mongoClient.Database(cfg.DBName)

	// ── 4. Redis (optional role cache) ────────────────────────────────────
	var roleCache users.RoleCache = users.NoopRoleCache{}
	var checkCache func() error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		roleCache = users.NewRedisRoleCache(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		log.Info("redis not configured, role cache disabled")
	}

	// ── 5. Repositories & Indexes ─────────────────────────────────────────
	userRepository := users.NewMongoRepository(db)
	donationRepository := donation.NewMongoRepository(db)
	blogRepository := blog.NewMongoRepository(db)

	must(log, userRepository.EnsureIndexes(startupCtx), "ensure user indexes")
	must(log, donationRepository.EnsureIndexes(startupCtx), "ensure donation indexes")
	must(log, blogRepository.EnsureIndexes(startupCtx), "ensure blog indexes")

	// ── 6. Security Services ──────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, constants.TokenTTL)
	must(log, err, "initialize token service")

	cookieTransport := sec.NewCookieTransport(cfg.IsProduction(), tokenService.Lifetime())

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return mongodb.Ping(context.Background(), mongoClient)
		},
		CheckCache: checkCache,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userService := users.NewService(userRepository, roleCache, log)
	donationService := donation.NewService(donationRepository, userService, log)
	blogService := blog.NewService(blogRepository, log)

	guard := middleware.NewGuard(tokenService, userService)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(tokenService, cookieTransport),
		Users:     users.NewHandler(userService),
		Donation:  donation.NewHandler(donationService),
		Blog:      blog.NewHandler(blogService),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, guard, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
