// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the yomitube HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Build the token codec, metrics registry and object storage uploader.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/yomitube/data/migrations"
	"github.com/taibuivan/yomitube/internal/api"
	"github.com/taibuivan/yomitube/internal/library/history"
	"github.com/taibuivan/yomitube/internal/platform/config"
	"github.com/taibuivan/yomitube/internal/platform/constants"
	"github.com/taibuivan/yomitube/internal/platform/media"
	"github.com/taibuivan/yomitube/internal/platform/metrics"
	"github.com/taibuivan/yomitube/internal/platform/migration"
	pgstore "github.com/taibuivan/yomitube/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomitube/internal/platform/redis"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/internal/users/account"
	"github.com/taibuivan/yomitube/internal/users/auth"
	"github.com/taibuivan/yomitube/internal/users/channel"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("object_storage", cfg.HasObjectStorage()),
	)

	// Misconfiguration should surface quickly rather than hang.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, migrations.FS, log), "run migrations")

	// ── 6. Security, Metrics, Storage ─────────────────────────────────────
	tokens, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        constants.AuthIssuer,
	})
	must(log, err, "initialize token codec")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer := metrics.New(registry)

	if !cfg.HasObjectStorage() {
		must(log, errors.New("S3_BUCKET is not set"), "configure object storage")
	}
	uploader, err := media.NewS3Uploader(startupCtx, media.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}, observer, log)
	must(log, err, "initialize object storage")

	must(log, os.MkdirAll(cfg.UploadDir, 0o750), "create upload directory")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	accounts := auth.NewAccountRepository(pool)
	denylist := auth.NewAccessDenylist(rdb)
	sessions := auth.NewSessionManager(accounts, tokens, observer)
	authService := auth.NewService(accounts, sessions, denylist, uploader, observer)

	accountService := account.NewService(account.NewAccountRepository(pool), uploader)
	channelService := channel.NewService(channel.NewPostgresRepository(pool))
	historyService := history.NewService(history.NewPostgresRepository(pool))

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   observer.Handler(),
		Auth:      auth.NewHandler(authService, cfg.UploadDir),
		Account:   account.NewHandler(accountService, cfg.UploadDir),
		Channel:   channel.NewHandler(channelService),
		History:   history.NewHandler(historyService),
	}

	server := api.NewServer(cfg, log, api.Dependencies{
		Verifier:    tokens,
		Revocations: denylist,
		Requests:    observer,
	}, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
