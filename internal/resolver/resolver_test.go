// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resolver_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/resolver"
	"github.com/taibuivan/mangabridge/internal/source"
)

const chainsawUUID = "a77742b1-befd-49a4-bff5-1ad4e6b0ef7b"

// # Test Doubles

type fakeAdapter struct {
	mu            sync.Mutex
	info          source.Info
	results       []source.Manga
	searchErr     error
	chapters      map[string][]source.Chapter
	searchCalls   int
	chapterCalls  []string
	lastSearchLim int
}

func (f *fakeAdapter) Info() source.Info { return f.info }

func (f *fakeAdapter) SearchManga(_ context.Context, options source.SearchOptions) ([]source.Manga, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastSearchLim = options.Limit
	return f.results, f.searchErr
}

func (f *fakeAdapter) GetMangaDetails(context.Context, string) (*source.Manga, error) {
	return nil, nil
}

func (f *fakeAdapter) GetChapters(_ context.Context, mangaID string) ([]source.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chapterCalls = append(f.chapterCalls, mangaID)
	return f.chapters[mangaID], nil
}

func (f *fakeAdapter) GetChapterPages(context.Context, string) ([]string, error) {
	return []string{}, nil
}

type registry map[string]source.Adapter

func (r registry) Adapter(id string) (source.Adapter, bool) {
	adapter, ok := r[id]
	return adapter, ok
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time           { return c.now }
func (c *clock) Advance(by time.Duration) { c.now = c.now.Add(by) }

func chainsawChapters() []source.Chapter {
	return []source.Chapter{
		{ID: "mangadex:c2", MangaID: chainsawUUID, Number: 2, Title: "Chapter 2", Pages: []string{}},
		{ID: "mangadex:c1", MangaID: chainsawUUID, Number: 1, Title: "Chapter 1", Pages: []string{}},
	}
}

type fixture struct {
	clock    *clock
	anilist  *fakeAdapter
	mangadex *fakeAdapter
	comick   *fakeAdapter
	resolver *resolver.Resolver
}

func newFixture() *fixture {
	f := &fixture{
		clock:    &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		anilist:  &fakeAdapter{info: source.Info{ID: "anilist", SupportsChapters: false}},
		mangadex: &fakeAdapter{info: source.Info{ID: "mangadex", SupportsChapters: true}, chapters: map[string][]source.Chapter{}},
		comick:   &fakeAdapter{info: source.Info{ID: "comick", SupportsChapters: true}, chapters: map[string][]source.Chapter{}},
	}
	f.resolver = resolver.New(registry{
		"anilist":  f.anilist,
		"mangadex": f.mangadex,
		"comick":   f.comick,
	}, resolver.Options{
		Candidates: []string{"mangadex", "comick"},
		TTL:        time.Hour,
		Now:        f.clock.Now,
	})
	return f
}

var chainsawMan = source.Manga{ID: "anilist:30013", Title: "Chainsaw Man", Author: "Tatsuki Fujimoto"}

// # Tests

/*
TestResolveChapters_Scenario resolves an AniList record against the primary
content source and caches the namespaced mapping.
*/
func TestResolveChapters_Scenario(t *testing.T) {
	f := newFixture()
	f.mangadex.results = []source.Manga{
		{ID: chainsawUUID, Title: "Chainsaw Man", Author: "Fujimoto Tatsuki"},
		{ID: "other", Title: "Chainsaw Man Fan Colored"},
	}
	f.mangadex.chapters[chainsawUUID] = chainsawChapters()

	chapters := f.resolver.ResolveChapters(context.Background(), chainsawMan, "anilist")

	// 1. Chapters come from the matched title
	assert.Equal(t, chainsawChapters(), chapters)
	assert.Equal(t, []string{chainsawUUID}, f.mangadex.chapterCalls)

	// 2. The mapping is cached with the candidate namespace
	mapped, ok := f.resolver.Cache().Get("anilist:30013")
	require.True(t, ok)
	assert.Equal(t, "mangadex:"+chainsawUUID, mapped)

	// 3. The search was bounded and the second candidate never queried
	assert.Equal(t, 5, f.mangadex.lastSearchLim)
	assert.Zero(t, f.comick.searchCalls)
}

/*
TestResolveChapters_PrefersExactTitle verifies a spin-off listed first does not
win over the exact title listed second.
*/
func TestResolveChapters_PrefersExactTitle(t *testing.T) {
	f := newFixture()
	f.mangadex.results = []source.Manga{
		{ID: "boruto", Title: "Boruto: Naruto Next Generations", Author: "Ukyo Kodachi"},
		{ID: "naruto", Title: "Naruto", Author: "Masashi Kishimoto"},
	}
	f.mangadex.chapters["naruto"] = []source.Chapter{{ID: "mangadex:n1", MangaID: "naruto", Number: 1, Pages: []string{}}}

	naruto := source.Manga{ID: "anilist:30011", Title: "Naruto", Author: "Masashi Kishimoto"}
	chapters := f.resolver.ResolveChapters(context.Background(), naruto, "anilist")

	// 1. Chapters come from the exact title
	require.Len(t, chapters, 1)
	assert.Equal(t, []string{"naruto"}, f.mangadex.chapterCalls)

	// 2. The cached mapping points at the exact title
	mapped, ok := f.resolver.Cache().Get("anilist:30011")
	require.True(t, ok)
	assert.Equal(t, "mangadex:naruto", mapped)
}

/*
TestResolveChapters_Idempotent verifies a second call within the TTL window
reuses the mapping without searching again.
*/
func TestResolveChapters_Idempotent(t *testing.T) {
	f := newFixture()
	f.mangadex.results = []source.Manga{{ID: chainsawUUID, Title: "Chainsaw Man"}}
	f.mangadex.chapters[chainsawUUID] = chainsawChapters()
	ctx := context.Background()

	first := f.resolver.ResolveChapters(ctx, chainsawMan, "anilist")
	f.clock.Advance(59 * time.Minute)
	second := f.resolver.ResolveChapters(ctx, chainsawMan, "anilist")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.mangadex.searchCalls)
	assert.Len(t, f.mangadex.chapterCalls, 2)
}

/*
TestResolveChapters_TTLExpiry verifies an expired mapping triggers a fresh search.
*/
func TestResolveChapters_TTLExpiry(t *testing.T) {
	f := newFixture()
	f.mangadex.results = []source.Manga{{ID: chainsawUUID, Title: "Chainsaw Man"}}
	f.mangadex.chapters[chainsawUUID] = chainsawChapters()
	ctx := context.Background()

	f.resolver.ResolveChapters(ctx, chainsawMan, "anilist")
	f.clock.Advance(time.Hour)
	f.resolver.ResolveChapters(ctx, chainsawMan, "anilist")

	assert.Equal(t, 2, f.mangadex.searchCalls)
}

/*
TestResolveChapters_FallbackOrder verifies the second candidate is tried when
the first yields nothing.
*/
func TestResolveChapters_FallbackOrder(t *testing.T) {
	f := newFixture()
	f.comick.results = []source.Manga{{ID: "comick:chainsaw-man", Title: "Chainsaw Man"}}
	f.comick.chapters["chainsaw-man"] = []source.Chapter{{ID: "comick:abc", Number: 1, Pages: []string{}}}

	chapters := f.resolver.ResolveChapters(context.Background(), chainsawMan, "anilist")

	// 1. Both candidates were searched, in order
	assert.Equal(t, 1, f.mangadex.searchCalls)
	assert.Equal(t, 1, f.comick.searchCalls)

	// 2. The already namespaced id is cached verbatim
	mapped, ok := f.resolver.Cache().Get(chainsawMan.ID)
	require.True(t, ok)
	assert.Equal(t, "comick:chainsaw-man", mapped)
	require.Len(t, chapters, 1)
	assert.Equal(t, "comick:abc", chapters[0].ID)
}

/*
TestResolveChapters_Degradation verifies a failing candidate counts as zero results.
*/
func TestResolveChapters_Degradation(t *testing.T) {
	f := newFixture()
	f.mangadex.searchErr = errors.New("boom")
	f.comick.results = []source.Manga{{ID: "comick:chainsaw-man", Title: "Chainsaw Man"}}
	f.comick.chapters["chainsaw-man"] = []source.Chapter{{ID: "comick:abc", Pages: []string{}}}

	chapters := f.resolver.ResolveChapters(context.Background(), chainsawMan, "anilist")

	assert.Len(t, chapters, 1)
	assert.Equal(t, 1, f.comick.searchCalls)
}

/*
TestResolveChapters_NoMatch verifies an unmatched title yields an empty list
and caches nothing.
*/
func TestResolveChapters_NoMatch(t *testing.T) {
	f := newFixture()
	f.mangadex.results = []source.Manga{{ID: chainsawUUID, Title: "Totally Unrelated Story"}}
	f.comick.results = []source.Manga{{ID: "comick:x", Title: "Another Thing Entirely"}}

	chapters := f.resolver.ResolveChapters(context.Background(), source.Manga{ID: "kitsu:1", Title: "Chainsaw Man"}, "kitsu")

	assert.NotNil(t, chapters)
	assert.Empty(t, chapters)
	assert.Zero(t, f.resolver.Cache().Len())
}

/*
TestResolveChapters_NativeShortCircuit verifies content sources skip resolution.
*/
func TestResolveChapters_NativeShortCircuit(t *testing.T) {
	f := newFixture()
	f.mangadex.chapters[chainsawUUID] = chainsawChapters()

	chapters := f.resolver.ResolveChapters(context.Background(), source.Manga{ID: chainsawUUID, Title: "Chainsaw Man"}, "mangadex")

	assert.Equal(t, chainsawChapters(), chapters)
	assert.Zero(t, f.mangadex.searchCalls)
}

/*
TestResolveChapters_BareCachedID verifies a cached id without prefix routes to
the default source.
*/
func TestResolveChapters_BareCachedID(t *testing.T) {
	f := newFixture()
	f.mangadex.chapters[chainsawUUID] = chainsawChapters()
	f.resolver.Cache().Set(chainsawMan.ID, chainsawUUID)

	chapters := f.resolver.ResolveChapters(context.Background(), chainsawMan, "anilist")

	assert.Equal(t, chainsawChapters(), chapters)
	assert.Zero(t, f.mangadex.searchCalls)
}
