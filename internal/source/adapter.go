// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"errors"
)

// # Capability Contract

// Adapter normalizes one external source into the shared data model.
//
// Implementations hold no mutable shared state; their only side effects are
// outbound HTTP calls. They may return errors, but every adapter placed in the
// registry is wrapped with [Guard], which converts failures into empty results
// so callers never see them.
type Adapter interface {
	// Info returns the static capability record of the source.
	Info() Info

	// SearchManga returns matching titles. Unsupported options are ignored.
	SearchManga(ctx context.Context, options SearchOptions) ([]Manga, error)

	// GetMangaDetails returns the full record, or nil when the source has none.
	GetMangaDetails(ctx context.Context, id string) (*Manga, error)

	// GetChapters lists the chapters of a title. Metadata-only sources return none.
	GetChapters(ctx context.Context, mangaID string) ([]Chapter, error)

	// GetChapterPages returns page image URLs, or a single element holding the
	// rendered text for prose sources.
	GetChapterPages(ctx context.Context, chapterID string) ([]string, error)
}

// # Failure Taxonomy

var (
	// ErrNetwork marks a request that failed in transport or returned a non-success status.
	ErrNetwork = errors.New("source: network failure")

	// ErrParse marks a response body that could not be decoded.
	ErrParse = errors.New("source: parse failure")

	// ErrNoMatch marks a resolution that exhausted every candidate source.
	// It is a valid empty outcome, logged but never returned to callers.
	ErrNoMatch = errors.New("source: no match found")
)

// Kind classifies err against the taxonomy for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "internal"
}
