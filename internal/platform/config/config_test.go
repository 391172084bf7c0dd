// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/platform/config"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sources.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

/*
TestLoad_Defaults verifies envDefault values when nothing is set.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.ResolverCacheTTL)
	assert.InDelta(t, 0.4, cfg.ResolverThreshold, 1e-9)
	assert.Equal(t, 5, cfg.ResolverSearchLimit)
	assert.True(t, cfg.ImageProxyEnabled)
	assert.Equal(t, constants.DefaultUserAgent, cfg.UserAgent())
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_Environment overrides values from the environment.
*/
func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("RESOLVER_CACHE_TTL", "10m")
	t.Setenv("HTTP_USER_AGENT", "mangabridge-test")
	t.Setenv("EXTRA_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10*time.Minute, cfg.ResolverCacheTTL)
	assert.Equal(t, "mangabridge-test", cfg.UserAgent())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

/*
TestLoad_InvalidRanges rejects values env tags cannot express.
*/
func TestLoad_InvalidRanges(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold_above_one", "RESOLVER_THRESHOLD", "1.5"},
		{"threshold_negative", "RESOLVER_THRESHOLD", "-0.1"},
		{"threshold_zero", "RESOLVER_THRESHOLD", "0"},
		{"zero_ttl", "RESOLVER_CACHE_TTL", "0s"},
		{"zero_limit", "RESOLVER_SEARCH_LIMIT", "0"},
		{"negative_retries", "HTTP_RETRY_COUNT", "-1"},
		{"malformed_duration", "HTTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

/*
TestReadSources parses per-source settings and normalizes keys and URLs.
*/
func TestReadSources(t *testing.T) {
	path := writeFile(t, `
[sources.MangaHook]
base_url = "http://localhost:3000/api/"

[sources.nhentai]
enabled = false
`)

	sources, err := config.ReadSources(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", sources.BaseURL("mangahook", "fallback"))
	assert.Equal(t, "fallback", sources.BaseURL("comick", "fallback"))
	assert.True(t, sources.Enabled("mangahook"))
	assert.False(t, sources.Enabled("nhentai"))
	assert.True(t, sources.Enabled("unlisted"))
}

/*
TestReadSources_Errors covers missing files and unknown keys.
*/
func TestReadSources_Errors(t *testing.T) {
	_, err := config.ReadSources(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = config.ReadSources(writeFile(t, "[sources.mangadex]\nenabld = true\n"))
	assert.Error(t, err)
}

/*
TestLoad_SourcesFile merges SOURCES_FILE into the config.
*/
func TestLoad_SourcesFile(t *testing.T) {
	t.Setenv("SOURCES_FILE", writeFile(t, "[sources.kitsu]\nenabled = false\n"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Sources.Enabled("kitsu"))
}
