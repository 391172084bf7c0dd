// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the mangabridge HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from .env, environment variables and the sources file.
//  3. Build the shared outbound HTTP client.
//  4. Register every enabled source adapter.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/taibuivan/mangabridge/internal/aggregate"
	"github.com/taibuivan/mangabridge/internal/api"
	"github.com/taibuivan/mangabridge/internal/platform/config"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
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

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env file is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

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
		slog.String("port", cfg.ServerPort),
		slog.String("sources_file", cfg.SourcesFile),
	)

	// ── 3. Outbound HTTP ──────────────────────────────────────────────────
	client := httpclient.New(httpclient.Options{
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.HTTPRetryCount,
		UserAgent:  cfg.UserAgent(),
		Logger:     log,
	})

	// ── 4. Source Registry ────────────────────────────────────────────────
	service, err := aggregate.Build(cfg, client, log)
	must(log, err, "register sources")

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckRegistry: func() error {
			if _, ok := service.Adapter(service.DefaultSource()); !ok {
				return fmt.Errorf("default source %q is not registered", service.DefaultSource())
			}
			return nil
		},
		CacheStats: func() (int, float64) {
			cache := service.Resolver().Cache()
			return cache.Len(), cache.TTL().Seconds()
		},
	}, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	var images http.Handler
	if cfg.ImageProxyEnabled {
		images = aggregate.NewImageProxy(client)
	}

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Aggregate: aggregate.NewHandler(service, images),
	}

	// Root context cancelled on shutdown so background routines stop.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
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
// It is limited to startup wiring. After startup, all errors must be returned
// and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
