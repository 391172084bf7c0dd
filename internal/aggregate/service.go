// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package aggregate is the single entry point over every registered source.

The [Service] owns the adapter registry, routes each request to one adapter
and, when the routed adapter cannot serve chapters itself, hands the title to
the chapter [resolver.Resolver].

Routing order for an id without an explicit source:

  - a literal prefix from the priority list ("nhentai:", "anilist:", ...)
  - any other registered source id used as a prefix
  - a bare UUID, owned by the default source
  - anything else, which also falls back to the default source

An explicit source id is authoritative. It is also the only input that can
make the service fail: an unregistered id yields apperr.UnknownSource.
*/
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/mangabridge/internal/platform/apperr"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/ctxutil"
	"github.com/taibuivan/mangabridge/internal/resolver"
	"github.com/taibuivan/mangabridge/internal/source"
)

// routePrefixes are checked, in order, before any other registered prefix.
var routePrefixes = []string{
	constants.SourceNHentai,
	constants.SourceAniList,
	constants.SourceKitsu,
	constants.SourceComick,
}

// Options configures a [Service].
type Options struct {
	// DefaultSource owns bare UUIDs and un-routed requests.
	DefaultSource string
	// NSFWSource receives every search asking for NSFW inclusion.
	NSFWSource string
	// Resolver tunes the chapter resolver.
	Resolver resolver.Options
}

// Service routes requests across the registered adapters.
//
// # Lifecycle
//
// Adapters are registered once at startup. The registry is read-only afterwards,
// so concurrent requests need no locking.
type Service struct {
	adapters      map[string]source.Adapter
	order         []string
	defaultSource string
	nsfwSource    string
	resolver      *resolver.Resolver
}

// NewService creates an empty service. Register adapters before serving.
func NewService(options Options) *Service {
	service := &Service{
		adapters:      make(map[string]source.Adapter),
		defaultSource: source.FirstNonEmpty(options.DefaultSource, constants.DefaultSource),
		nsfwSource:    source.FirstNonEmpty(options.NSFWSource, constants.NSFWSource),
	}

	resolverOptions := options.Resolver
	if resolverOptions.DefaultSource == "" {
		resolverOptions.DefaultSource = service.defaultSource
	}
	service.resolver = resolver.New(service, resolverOptions)

	return service
}

// # Registry

// Register adds adapter under its Info().ID, wrapped with [source.Guard].
func (service *Service) Register(adapter source.Adapter) error {
	id := adapter.Info().ID
	if strings.TrimSpace(id) == "" || strings.Contains(id, source.Separator) {
		return fmt.Errorf("aggregate: invalid source id %q", id)
	}
	if _, exists := service.adapters[id]; exists {
		return fmt.Errorf("aggregate: source %q registered twice", id)
	}

	service.adapters[id] = source.Guard(adapter)
	service.order = append(service.order, id)
	return nil
}

// Adapter returns the registered adapter for sourceID.
func (service *Service) Adapter(sourceID string) (source.Adapter, bool) {
	adapter, ok := service.adapters[sourceID]
	return adapter, ok
}

// Sources lists the capability records of every adapter in registration order.
func (service *Service) Sources() []source.Info {
	infos := make([]source.Info, 0, len(service.order))
	for _, id := range service.order {
		infos = append(infos, service.adapters[id].Info())
	}
	return infos
}

// DefaultSource returns the id of the default content source.
func (service *Service) DefaultSource() string {
	return service.defaultSource
}

// Resolver exposes the chapter resolver.
func (service *Service) Resolver() *resolver.Resolver {
	return service.resolver
}

// # Routing

// ResolveAdapter picks the adapter serving id. A non-empty sourceID is
// authoritative and bypasses every heuristic.
func (service *Service) ResolveAdapter(id, sourceID string) (source.Adapter, error) {
	if sourceID != "" {
		return service.lookup(sourceID)
	}
	return service.lookup(service.route(id))
}

// route applies the prefix heuristics to id and returns a source id. Prefixes
// of unregistered sources never match, so routing itself cannot fail.
func (service *Service) route(id string) string {
	for _, prefix := range routePrefixes {
		if strings.HasPrefix(id, prefix+source.Separator) && service.registered(prefix) {
			return prefix
		}
	}

	if prefix := source.Prefix(id); prefix != "" && service.registered(prefix) {
		return prefix
	}

	// Bare UUIDs and unrecognised ids both belong to the default source.
	return service.defaultSource
}

func (service *Service) registered(sourceID string) bool {
	_, ok := service.adapters[sourceID]
	return ok
}

func (service *Service) lookup(sourceID string) (source.Adapter, error) {
	adapter, ok := service.adapters[sourceID]
	if !ok {
		return nil, apperr.UnknownSource(sourceID)
	}
	return adapter, nil
}

// # Operations

// Search runs options against one adapter. NSFW inclusion routes to the NSFW
// source unconditionally; otherwise sourceID or the default source is used.
func (service *Service) Search(ctx context.Context, options source.SearchOptions, sourceID string) ([]source.Manga, error) {
	target := source.FirstNonEmpty(sourceID, service.defaultSource)
	if options.IncludeNSFW {
		target = service.nsfwSource
	}

	adapter, err := service.lookup(target)
	if err != nil {
		if options.IncludeNSFW {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "nsfw_source_unavailable",
				slog.String("source", target),
			)
			return []source.Manga{}, nil
		}
		return nil, err
	}

	results, err := adapter.SearchManga(ctx, options)
	if err != nil || results == nil {
		return []source.Manga{}, nil
	}
	return results, nil
}

// GetMangaDetails returns the full record for id, or nil when the source has none.
func (service *Service) GetMangaDetails(ctx context.Context, id, sourceID string) (*source.Manga, error) {
	adapter, err := service.ResolveAdapter(id, sourceID)
	if err != nil {
		return nil, err
	}

	// Guarded adapters report failures as a nil record
	manga, _ := adapter.GetMangaDetails(ctx, id)
	return manga, nil
}

// GetChapters lists the chapters of mangaID. Metadata-only sources are
// resolved against the candidate content sources. The result is never nil.
func (service *Service) GetChapters(ctx context.Context, mangaID, sourceID string) ([]source.Chapter, error) {
	adapter, err := service.ResolveAdapter(mangaID, sourceID)
	if err != nil {
		return nil, err
	}

	info := adapter.Info()
	if info.SupportsChapters {
		chapters, err := adapter.GetChapters(ctx, mangaID)
		if err != nil || chapters == nil {
			return []source.Chapter{}, nil
		}
		return chapters, nil
	}

	// Metadata-only: the resolver needs a title to search with
	manga, err := adapter.GetMangaDetails(ctx, mangaID)
	if err != nil || manga == nil {
		ctxutil.GetLogger(ctx).InfoContext(ctx, "chapter_resolution_skipped",
			slog.String("source", info.ID),
			slog.String("manga_id", mangaID),
		)
		return []source.Chapter{}, nil
	}

	return service.resolver.ResolveChapters(ctx, *manga, info.ID), nil
}

// GetChapterPages returns the page URLs (or rendered text) of chapterID.
func (service *Service) GetChapterPages(ctx context.Context, chapterID, sourceID string) ([]string, error) {
	adapter, err := service.ResolveAdapter(chapterID, sourceID)
	if err != nil {
		return nil, err
	}

	pages, err := adapter.GetChapterPages(ctx, chapterID)
	if err != nil || pages == nil {
		return []string{}, nil
	}
	return pages, nil
}
