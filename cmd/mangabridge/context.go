// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/taibuivan/mangabridge/internal/aggregate"
	"github.com/taibuivan/mangabridge/internal/platform/config"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
)

// commandContext carries the global flags and the lazily built service.
type commandContext struct {
	sourcesFile string
	sourceID    string
	asJSON      bool
	verbose     bool

	service *aggregate.Service
}

// ensureService loads configuration and builds the service on first use.
func (ctx *commandContext) ensureService(stderr io.Writer) (*aggregate.Service, error) {
	if ctx.service != nil {
		return ctx.service, nil
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ctx.sourcesFile != "" {
		if err := cfg.LoadSources(ctx.sourcesFile); err != nil {
			return nil, err
		}
	}

	// Adapters log degraded upstreams; keep them quiet unless asked.
	level := slog.LevelError
	if ctx.verbose || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)

	// The terminal has no image proxy to rewrite through.
	cfg.ImageProxyEnabled = false

	client := httpclient.New(httpclient.Options{
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.HTTPRetryCount,
		UserAgent:  cfg.UserAgent(),
		Logger:     logger,
	})

	service, err := aggregate.Build(cfg, client, logger)
	if err != nil {
		return nil, err
	}

	ctx.service = service
	return service, nil
}
