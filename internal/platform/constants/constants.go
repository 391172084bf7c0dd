// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs for inbound traffic.
  - Sources: Registry keys of the built-in adapters and routing defaults.
  - Resolver: Defaults for cross-source chapter resolution.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mangabridge"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout leaves room for a full fallback resolution (two sequential
	// candidate searches plus a chapter fetch) and image proxying.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 55 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Source Registry Keys

const (
	SourceMangaDex    = "mangadex"
	SourceAniList     = "anilist"
	SourceKitsu       = "kitsu"
	SourceNHentai     = "nhentai"
	SourceComick      = "comick"
	SourceConsumet    = "consumet"
	SourceMangaHook   = "mangahook"
	SourceAO3         = "ao3"
	SourceRoyalRoad   = "royalroad"
	SourceScribbleHub = "scribblehub"
	SourceFictionZone = "fictionzone"
	SourceWebnovel    = "webnovel"
)

const (
	// DefaultSource serves unprefixed UUID ids and un-routed searches.
	DefaultSource = SourceMangaDex

	// NSFWSource receives every search that asks for NSFW inclusion.
	NSFWSource = SourceNHentai
)

// # Resolver Defaults

const (
	// DefaultMappingTTL is how long a metadata -> content mapping stays valid.
	DefaultMappingTTL = time.Hour

	// DefaultMatchThreshold is the inclusive fuzzy distance cutoff (0 = identical).
	DefaultMatchThreshold = 0.4

	// DefaultCandidateSearchLimit bounds each candidate search.
	DefaultCandidateSearchLimit = 5
)

// # Outbound HTTP

const (
	// DefaultUserAgent is sent to upstream sources that reject bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultUpstreamTimeout bounds a single upstream request.
	DefaultUpstreamTimeout = 15 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)
