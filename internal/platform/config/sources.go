// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// SourceSettings overrides the built-in behaviour of one adapter.
//
//	[sources.mangahook]
//	enabled  = true
//	base_url = "http://localhost:3000/api"
type SourceSettings struct {
	// Enabled is a pointer so an omitted key keeps the adapter enabled.
	Enabled *bool  `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// Sources maps registry keys to their settings.
type Sources map[string]SourceSettings

type sourcesFile struct {
	Sources Sources `toml:"sources"`
}

// ReadSources parses a sources TOML file.
func ReadSources(path string) (Sources, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open sources file: %w", err)
	}
	defer file.Close()

	var parsed sourcesFile
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("config: parse sources file: %w", err)
	}

	normalized := make(Sources, len(parsed.Sources))
	for id, settings := range parsed.Sources {
		settings.BaseURL = strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
		normalized[strings.ToLower(strings.TrimSpace(id))] = settings
	}
	return normalized, nil
}

// Enabled reports whether the source with the given id should be registered.
func (s Sources) Enabled(id string) bool {
	settings, ok := s[id]
	if !ok || settings.Enabled == nil {
		return true
	}
	return *settings.Enabled
}

// BaseURL returns the configured upstream override for id, or fallback.
func (s Sources) BaseURL(id, fallback string) string {
	if settings, ok := s[id]; ok && settings.BaseURL != "" {
		return settings.BaseURL
	}
	return fallback
}
