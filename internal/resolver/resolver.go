// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resolver reconciles metadata-only titles with content-capable sources.

A metadata source (AniList, Kitsu) can describe a title but not serve its
chapters. The [Resolver] searches a fixed, ordered list of candidate content
sources for the same title, accepts the best fuzzy match under a threshold and
remembers the mapping in a TTL [Cache].

Candidates are searched sequentially, stopping at the first accepted match.
Resolution never fails: a title without a readable mapping yields an empty
chapter list.
*/
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/mangabridge/internal/fuzzy"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/ctxutil"
	"github.com/taibuivan/mangabridge/internal/source"
)

// Registry gives the resolver read access to registered adapters.
type Registry interface {
	Adapter(sourceID string) (source.Adapter, bool)
}

// Options tunes a [Resolver]. Zero values take the package defaults.
type Options struct {
	// Candidates are the content sources tried during fallback, in priority order.
	Candidates []string
	// DefaultSource owns cached ids that carry no prefix.
	DefaultSource string
	// SearchLimit bounds each candidate search.
	SearchLimit int
	// Threshold is the highest accepted match distance (inclusive). Zero
	// selects the default; config rejects it so it always means unset.
	Threshold float64
	// TTL is the mapping lifetime.
	TTL time.Duration
	// Now is the cache clock.
	Now func() time.Time
}

// Resolver maps metadata titles to content-source chapters.
type Resolver struct {
	registry      Registry
	cache         *Cache
	candidates    []string
	defaultSource string
	searchLimit   int
	threshold     float64
}

// matchKeys weights the title over the author.
var matchKeys = []fuzzy.Key[source.Manga]{
	{Name: "title", Weight: 1, Value: func(m source.Manga) string { return m.Title }},
	{Name: "author", Weight: 0.5, Value: func(m source.Manga) string { return m.Author }},
}

// New creates a [Resolver] reading adapters from registry.
func New(registry Registry, options Options) *Resolver {
	if len(options.Candidates) == 0 {
		options.Candidates = []string{constants.SourceMangaDex, constants.SourceComick}
	}
	if options.DefaultSource == "" {
		options.DefaultSource = constants.DefaultSource
	}
	if options.SearchLimit <= 0 {
		options.SearchLimit = constants.DefaultCandidateSearchLimit
	}
	if options.Threshold <= 0 {
		options.Threshold = constants.DefaultMatchThreshold
	}
	if options.TTL <= 0 {
		options.TTL = constants.DefaultMappingTTL
	}

	return &Resolver{
		registry:      registry,
		cache:         NewCache(options.TTL, options.Now),
		candidates:    append([]string(nil), options.Candidates...),
		defaultSource: options.DefaultSource,
		searchLimit:   options.SearchLimit,
		threshold:     options.Threshold,
	}
}

// Cache exposes the mapping cache.
func (resolver *Resolver) Cache() *Cache {
	return resolver.cache
}

// Candidates returns the fallback sources in priority order.
func (resolver *Resolver) Candidates() []string {
	return append([]string(nil), resolver.candidates...)
}

// # Resolution

// ResolveChapters returns chapters for manga, which was produced by sourceID.
//
// The result is never nil. An empty list means no readable mapping exists.
func (resolver *Resolver) ResolveChapters(ctx context.Context, manga source.Manga, sourceID string) []source.Chapter {
	logger := ctxutil.GetLogger(ctx)

	// 1. Native sources need no resolution
	if adapter, ok := resolver.registry.Adapter(sourceID); ok && adapter.Info().SupportsChapters {
		return resolver.fetchChapters(ctx, adapter, manga.ID)
	}

	// 2. Reuse a live mapping
	if cached, ok := resolver.cache.Get(manga.ID); ok {
		targetSource, rawID := source.SplitQualified(cached, resolver.defaultSource)
		if adapter, ok := resolver.registry.Adapter(targetSource); ok {
			logger.DebugContext(ctx, "chapter_mapping_hit",
				slog.String("manga_id", manga.ID),
				slog.String("mapped_id", cached),
			)
			return resolver.fetchChapters(ctx, adapter, rawID)
		}
	}

	// 3. Search the candidates
	adapter, rawID, err := resolver.match(ctx, manga)
	if err != nil {
		logger.InfoContext(ctx, "chapter_mapping_not_found",
			slog.String("manga_id", manga.ID),
			slog.String("title", manga.Title),
			slog.Any("candidates", resolver.candidates),
		)
		return []source.Chapter{}
	}

	return resolver.fetchChapters(ctx, adapter, rawID)
}

// match searches candidates in order and caches the first accepted match.
// It returns [source.ErrNoMatch] once every candidate is exhausted.
func (resolver *Resolver) match(ctx context.Context, manga source.Manga) (source.Adapter, string, error) {
	logger := ctxutil.GetLogger(ctx)

	if manga.Title == "" {
		return nil, "", source.ErrNoMatch
	}

	for _, candidateID := range resolver.candidates {
		adapter, ok := resolver.registry.Adapter(candidateID)
		if !ok {
			continue
		}

		results, err := adapter.SearchManga(ctx, source.SearchOptions{
			Query: manga.Title,
			Limit: resolver.searchLimit,
		})
		if err != nil {
			logger.WarnContext(ctx, "candidate_search_failed",
				slog.String("candidate", candidateID),
				slog.String("kind", source.Kind(err)),
				slog.Any("error", err),
			)
			continue
		}
		if len(results) == 0 {
			continue
		}

		best, ok := fuzzy.Best(manga.Title, results, matchKeys, resolver.threshold)
		if !ok || best.Item.ID == "" {
			continue
		}

		mapped := best.Item.ID
		if !source.IsNamespaced(mapped) {
			mapped = source.Namespace(candidateID, mapped)
		}
		resolver.cache.Set(manga.ID, mapped)

		logger.InfoContext(ctx, "chapter_mapping_cached",
			slog.String("manga_id", manga.ID),
			slog.String("mapped_id", mapped),
			slog.Float64("score", best.Score),
		)

		return adapter, source.StripPrefix(mapped, candidateID), nil
	}

	return nil, "", fmt.Errorf("%w: %q", source.ErrNoMatch, manga.Title)
}

func (resolver *Resolver) fetchChapters(ctx context.Context, adapter source.Adapter, mangaID string) []source.Chapter {
	chapters, err := adapter.GetChapters(ctx, mangaID)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "chapter_fetch_failed",
			slog.String("source", adapter.Info().ID),
			slog.String("manga_id", mangaID),
			slog.Any("error", err),
		)
		return []source.Chapter{}
	}
	if chapters == nil {
		return []source.Chapter{}
	}
	return chapters
}
