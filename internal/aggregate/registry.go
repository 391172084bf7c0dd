// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package aggregate

import (
	"log/slog"
	"slices"

	"github.com/taibuivan/mangabridge/internal/platform/config"
	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/resolver"
	"github.com/taibuivan/mangabridge/internal/source"
	"github.com/taibuivan/mangabridge/internal/source/anilist"
	"github.com/taibuivan/mangabridge/internal/source/ao3"
	"github.com/taibuivan/mangabridge/internal/source/comick"
	"github.com/taibuivan/mangabridge/internal/source/consumet"
	"github.com/taibuivan/mangabridge/internal/source/fictionzone"
	"github.com/taibuivan/mangabridge/internal/source/kitsu"
	"github.com/taibuivan/mangabridge/internal/source/mangadex"
	"github.com/taibuivan/mangabridge/internal/source/mangahook"
	"github.com/taibuivan/mangabridge/internal/source/nhentai"
	"github.com/taibuivan/mangabridge/internal/source/royalroad"
	"github.com/taibuivan/mangabridge/internal/source/scribblehub"
	"github.com/taibuivan/mangabridge/internal/source/webnovel"
)

// ImageProxyPath is the route nhentai image URLs are rewritten through.
const ImageProxyPath = "/api/v1/images"

// factory builds one adapter from its configured base URL.
type factory struct {
	id    string
	build func(client *httpclient.Client, baseURL string, cfg *config.Config) source.Adapter
}

// builtins lists every adapter in registration order.
var builtins = []factory{
	{constants.SourceMangaDex, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return mangadex.New(c, base) }},
	{constants.SourceComick, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return comick.New(c, base) }},
	{constants.SourceAniList, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return anilist.New(c, base) }},
	{constants.SourceKitsu, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return kitsu.New(c, base) }},
	{constants.SourceNHentai, func(c *httpclient.Client, base string, cfg *config.Config) source.Adapter {
		var options []nhentai.Option
		if cfg.ImageProxyEnabled {
			options = append(options, nhentai.WithImageProxy(ImageProxyPath))
		}
		return nhentai.New(c, base, options...)
	}},
	{constants.SourceMangaHook, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter {
		return mangahook.New(c, base)
	}},
	{constants.SourceConsumet, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return consumet.New(c, base) }},
	{constants.SourceRoyalRoad, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter {
		return royalroad.New(c, base)
	}},
	{constants.SourceScribbleHub, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter {
		return scribblehub.New(c, base)
	}},
	{constants.SourceAO3, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return ao3.New(c, base) }},
	{constants.SourceFictionZone, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter {
		return fictionzone.New(c, base)
	}},
	{constants.SourceWebnovel, func(c *httpclient.Client, base string, _ *config.Config) source.Adapter { return webnovel.New(c, base) }},
}

// BuiltinSources returns the ids of every adapter this binary knows.
func BuiltinSources() []string {
	ids := make([]string, 0, len(builtins))
	for _, builtin := range builtins {
		ids = append(ids, builtin.id)
	}
	return ids
}

// Build constructs the service with every enabled adapter, sharing one
// outbound client between them.
//
// The default source cannot be disabled. Settings for unknown source ids are
// logged and ignored.
func Build(cfg *config.Config, client *httpclient.Client, logger *slog.Logger) (*Service, error) {
	service := NewService(Options{
		DefaultSource: constants.DefaultSource,
		NSFWSource:    constants.NSFWSource,
		Resolver: resolver.Options{
			SearchLimit: cfg.ResolverSearchLimit,
			Threshold:   cfg.ResolverThreshold,
			TTL:         cfg.ResolverCacheTTL,
		},
	})

	known := BuiltinSources()
	for id := range cfg.Sources {
		if !slices.Contains(known, id) {
			logger.Warn("unknown_source_setting", slog.String("source", id))
		}
	}

	for _, builtin := range builtins {
		if !cfg.Sources.Enabled(builtin.id) {
			if builtin.id == constants.DefaultSource {
				logger.Warn("default_source_cannot_be_disabled", slog.String("source", builtin.id))
			} else {
				logger.Info("source_disabled", slog.String("source", builtin.id))
				continue
			}
		}

		adapter := builtin.build(client, cfg.Sources.BaseURL(builtin.id, ""), cfg)
		if err := service.Register(adapter); err != nil {
			return nil, err
		}
	}

	logger.Info("sources_registered",
		slog.Int("count", len(service.order)),
		slog.Any("sources", service.order),
	)

	return service, nil
}
