// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, and 'pelletier/go-toml' to read the optional per-source settings file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the registry, resolver and server via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the aggregation service.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Outbound HTTP used by every adapter
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"     envDefault:"15s"`
	HTTPRetryCount int           `env:"HTTP_RETRY_COUNT" envDefault:"2"`
	HTTPUserAgent  string        `env:"HTTP_USER_AGENT"`

	// Chapter resolution
	ResolverCacheTTL    time.Duration `env:"RESOLVER_CACHE_TTL"    envDefault:"1h"`
	ResolverThreshold   float64       `env:"RESOLVER_THRESHOLD"    envDefault:"0.4"`
	ResolverSearchLimit int           `env:"RESOLVER_SEARCH_LIMIT" envDefault:"5"`

	// SourcesFile is an optional TOML file with per-source overrides.
	SourcesFile string `env:"SOURCES_FILE"`

	// ImageProxyEnabled rewrites hotlink-protected image URLs through /api/v1/images.
	ImageProxyEnabled bool `env:"IMAGE_PROXY_ENABLED" envDefault:"true"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Sources is populated from SourcesFile by [Load].
	Sources Sources `env:"-"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and, when
// SOURCES_FILE is set, merges the per-source settings file.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.LoadSources(cfg.SourcesFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSources reads the per-source settings file at path into c.Sources.
// An empty path leaves the built-in defaults untouched.
func (c *Config) LoadSources(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	sources, err := ReadSources(path)
	if err != nil {
		return err
	}
	c.SourcesFile = path
	c.Sources = sources
	return nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	if c.ResolverThreshold <= 0 || c.ResolverThreshold > 1 {
		return fmt.Errorf("config: RESOLVER_THRESHOLD must be within (0,1], got %v", c.ResolverThreshold)
	}
	if c.ResolverCacheTTL <= 0 {
		return fmt.Errorf("config: RESOLVER_CACHE_TTL must be positive, got %s", c.ResolverCacheTTL)
	}
	if c.ResolverSearchLimit <= 0 {
		return fmt.Errorf("config: RESOLVER_SEARCH_LIMIT must be positive, got %d", c.ResolverSearchLimit)
	}
	if c.HTTPRetryCount < 0 {
		return fmt.Errorf("config: HTTP_RETRY_COUNT must not be negative, got %d", c.HTTPRetryCount)
	}
	return nil
}

// UserAgent returns the configured outbound User-Agent or the built-in default.
func (c *Config) UserAgent() string {
	if strings.TrimSpace(c.HTTPUserAgent) == "" {
		return constants.DefaultUserAgent
	}
	return c.HTTPUserAgent
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits EXTRA_ORIGINS into a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
