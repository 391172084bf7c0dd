// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package source defines the unified data model shared by every external content
source and the capability contract each source adapter implements.

Core Responsibility:

  - Model: [Manga] and [Chapter] are ephemeral DTOs rebuilt on every request.
  - Contract: [Adapter] exposes search, details, chapters and pages for one source.
  - Identity: namespaced ids ("<sourceId>:<rawId>") let any record be routed back
    to the adapter that produced it.

Concrete adapters live in sub-packages (source/mangadex, source/anilist, ...).
*/
package source

import (
	"strings"
	"time"
)

// # Domain Enums

// Status represents the publication status of a title.
type Status string

const (
	// StatusOngoing indicates the title is actively updating.
	StatusOngoing Status = "Ongoing"

	// StatusCompleted indicates no further chapters are expected.
	StatusCompleted Status = "Completed"

	// StatusHiatus indicates the publication is paused.
	StatusHiatus Status = "Hiatus"
)

// ParseStatus maps a free-form upstream status onto a [Status].
// Unrecognised values are treated as ongoing.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "finished", "ended", "cancelled":
		return StatusCompleted
	case "hiatus", "on_hiatus", "on hiatus", "paused":
		return StatusHiatus
	}
	return StatusOngoing
}

// # Core Entities

// Manga is the unified record returned by every adapter.
//
// Invariant: once a Manga leaves an adapter its ID carries enough information to
// route back to that adapter (namespaced, or a bare UUID for the default source).
type Manga struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Cover         string    `json:"cover"`
	Author        string    `json:"author"`
	Artist        string    `json:"artist"`
	Status        Status    `json:"status"`
	Genres        []string  `json:"genres"`
	Rating        float64   `json:"rating"`
	Views         string    `json:"views"`
	Description   string    `json:"description"`
	LatestChapter string    `json:"latest_chapter"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Chapter is a single readable unit of a [Manga].
//
// Pages stay empty until fetched explicitly through GetChapterPages.
type Chapter struct {
	ID      string    `json:"id"`
	MangaID string    `json:"manga_id"`
	Number  float64   `json:"number"` // Fractional for interstitial chapters (e.g. 10.5)
	Title   string    `json:"title"`
	Date    time.Time `json:"date,omitzero"`
	Pages   []string  `json:"pages"`
}

// Info is the capability record of an adapter.
type Info struct {
	// ID is the unique registry key and id namespace of the source.
	ID string `json:"id"`
	// Name is the human-readable source name.
	Name string `json:"name"`
	// IsNSFW marks sources that serve age-restricted content.
	IsNSFW bool `json:"is_nsfw"`
	// SupportsChapters is true when the source itself serves chapter content.
	SupportsChapters bool `json:"supports_chapters"`
}

// # Search

// SearchOptions is the free-form search input. Adapters ignore options they
// do not support.
type SearchOptions struct {
	Query       string            `json:"q,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Offset      int               `json:"offset,omitempty"`
	IDs         []string          `json:"ids,omitempty"`
	Sort        map[string]string `json:"sort,omitempty"` // field -> asc|desc
	IncludeNSFW bool              `json:"include_nsfw,omitempty"`
}

// LimitOr returns the requested limit, or fallback when none was given.
func (options SearchOptions) LimitOr(fallback int) int {
	if options.Limit <= 0 {
		return fallback
	}
	return options.Limit
}

// Page converts Offset into a 1-indexed page number for the given page size.
func (options SearchOptions) Page(pageSize int) int {
	if pageSize <= 0 || options.Offset <= 0 {
		return 1
	}
	return options.Offset/pageSize + 1
}

// # Helpers

// Unknown is the placeholder for attribution a source does not expose.
const Unknown = "Unknown"

// Genres trims, drops empties and de-duplicates genre names, keeping first-seen order.
func Genres(names ...string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FirstNonEmpty returns the first non-blank value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ParseTime parses raw with the first matching layout, RFC 3339 when none are
// given. Unparseable input yields the zero time.
func ParseTime(raw string, layouts ...string) time.Time {
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
