// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package aggregate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/aggregate"
	"github.com/taibuivan/mangabridge/internal/platform/apperr"
	"github.com/taibuivan/mangabridge/internal/source"
)

const chainsawUUID = "a77742b1-befd-49a4-bff5-1ad4e6b0ef7b"

// # Test Doubles

// stubAdapter records every call it receives.
type stubAdapter struct {
	mu       sync.Mutex
	info     source.Info
	results  []source.Manga
	details  map[string]*source.Manga
	chapters map[string][]source.Chapter
	pages    map[string][]string
	fail     bool
	calls    []string
	searched []source.SearchOptions
}

func newStub(id string, supportsChapters bool) *stubAdapter {
	return &stubAdapter{
		info:     source.Info{ID: id, Name: id, SupportsChapters: supportsChapters},
		details:  map[string]*source.Manga{},
		chapters: map[string][]source.Chapter{},
		pages:    map[string][]string{},
	}
}

func (s *stubAdapter) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAdapter) Info() source.Info { return s.info }

func (s *stubAdapter) SearchManga(_ context.Context, options source.SearchOptions) ([]source.Manga, error) {
	s.record("search:" + options.Query)
	s.mu.Lock()
	s.searched = append(s.searched, options)
	s.mu.Unlock()
	if s.fail {
		return nil, errors.New("upstream exploded")
	}
	return s.results, nil
}

func (s *stubAdapter) GetMangaDetails(_ context.Context, id string) (*source.Manga, error) {
	s.record("details:" + id)
	if s.fail {
		return nil, source.ErrNetwork
	}
	return s.details[source.StripPrefix(id, s.info.ID)], nil
}

func (s *stubAdapter) GetChapters(_ context.Context, mangaID string) ([]source.Chapter, error) {
	s.record("chapters:" + mangaID)
	if s.fail {
		panic("chapters exploded")
	}
	return s.chapters[source.StripPrefix(mangaID, s.info.ID)], nil
}

func (s *stubAdapter) GetChapterPages(_ context.Context, chapterID string) ([]string, error) {
	s.record("pages:" + chapterID)
	return s.pages[chapterID], nil
}

func (s *stubAdapter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fixture struct {
	service *aggregate.Service
	stubs   map[string]*stubAdapter
}

// newFixture registers a stub for every built-in shape the routing rules care about.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	stubs := map[string]*stubAdapter{
		"mangadex":  newStub("mangadex", true),
		"comick":    newStub("comick", true),
		"anilist":   newStub("anilist", false),
		"kitsu":     newStub("kitsu", false),
		"nhentai":   newStub("nhentai", true),
		"royalroad": newStub("royalroad", true),
	}
	stubs["nhentai"].info.IsNSFW = true

	service := aggregate.NewService(aggregate.Options{DefaultSource: "mangadex", NSFWSource: "nhentai"})
	for _, id := range []string{"mangadex", "comick", "anilist", "kitsu", "nhentai", "royalroad"} {
		require.NoError(t, service.Register(stubs[id]))
	}

	return &fixture{service: service, stubs: stubs}
}

// # Registry

/*
TestService_Register rejects duplicates and ids that would break namespacing.
*/
func TestService_Register(t *testing.T) {
	service := aggregate.NewService(aggregate.Options{})

	require.NoError(t, service.Register(newStub("mangadex", true)))
	assert.Error(t, service.Register(newStub("mangadex", true)))
	assert.Error(t, service.Register(newStub("bad:id", true)))
	assert.Error(t, service.Register(newStub(" ", true)))

	infos := service.Sources()
	require.Len(t, infos, 1)
	assert.Equal(t, "mangadex", infos[0].ID)
}

/*
TestService_Sources keeps registration order.
*/
func TestService_Sources(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for _, info := range f.service.Sources() {
		ids = append(ids, info.ID)
	}

	assert.Equal(t, []string{"mangadex", "comick", "anilist", "kitsu", "nhentai", "royalroad"}, ids)
}

// # Routing

/*
TestService_ResolveAdapter covers every routing rule.
*/
func TestService_ResolveAdapter(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		id       string
		sourceID string
		want     string
	}{
		{"literal_nhentai", "nhentai:177013", "", "nhentai"},
		{"literal_anilist", "anilist:30013", "", "anilist"},
		{"literal_kitsu", "kitsu:42", "", "kitsu"},
		{"literal_comick", "comick:abc", "", "comick"},
		{"registered_prefix", "royalroad:21220:123", "", "royalroad"},
		{"namespaced_default", "mangadex:" + chainsawUUID, "", "mangadex"},
		{"bare_uuid", chainsawUUID, "", "mangadex"},
		{"uppercase_uuid", "A77742B1-BEFD-49A4-BFF5-1AD4E6B0EF7B", "", "mangadex"},
		{"ambiguous", "just-some-slug", "", "mangadex"},
		{"unregistered_prefix", "bogus:1", "", "mangadex"},
		{"explicit_overrides_prefix", "anilist:30013", "comick", "comick"},
		{"explicit_overrides_uuid", chainsawUUID, "kitsu", "kitsu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := f.service.ResolveAdapter(tt.id, tt.sourceID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, adapter.Info().ID)
		})
	}
}

/*
TestService_UnknownSource is the only hard error the service surfaces.
*/
func TestService_UnknownSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ResolveAdapter("anilist:1", "bogus")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNKNOWN_SOURCE", ae.Code)

	_, err = f.service.Search(ctx, source.SearchOptions{Query: "x"}, "bogus")
	assert.True(t, apperr.IsAppError(err))

	_, err = f.service.GetMangaDetails(ctx, "x", "bogus")
	assert.Error(t, err)

	_, err = f.service.GetChapters(ctx, "x", "bogus")
	assert.Error(t, err)

	_, err = f.service.GetChapterPages(ctx, "x", "bogus")
	assert.Error(t, err)
}

// # Search

/*
TestService_Search_Routing checks the NSFW override, explicit sources and the default.
*/
func TestService_Search_Routing(t *testing.T) {
	tests := []struct {
		name     string
		options  source.SearchOptions
		sourceID string
		want     string
	}{
		{"default", source.SearchOptions{Query: "berserk"}, "", "mangadex"},
		{"explicit", source.SearchOptions{Query: "berserk"}, "anilist", "anilist"},
		{"nsfw_overrides_default", source.SearchOptions{Query: "x", IncludeNSFW: true}, "", "nhentai"},
		{"nsfw_overrides_explicit", source.SearchOptions{Query: "x", IncludeNSFW: true}, "comick", "nhentai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			results, err := f.service.Search(context.Background(), tt.options, tt.sourceID)
			require.NoError(t, err)
			assert.NotNil(t, results)

			for id, stub := range f.stubs {
				if id == tt.want {
					assert.Len(t, stub.Calls(), 1, id)
				} else {
					assert.Empty(t, stub.Calls(), id)
				}
			}
		})
	}
}

/*
TestService_Search_Degradation turns a failing adapter into an empty list.
*/
func TestService_Search_Degradation(t *testing.T) {
	f := newFixture(t)
	f.stubs["mangadex"].fail = true

	results, err := f.service.Search(context.Background(), source.SearchOptions{Query: "x"}, "")

	require.NoError(t, err)
	assert.Equal(t, []source.Manga{}, results)
}

/*
TestService_Search_NSFWUnavailable returns nothing when the NSFW source is not registered.
*/
func TestService_Search_NSFWUnavailable(t *testing.T) {
	service := aggregate.NewService(aggregate.Options{DefaultSource: "mangadex", NSFWSource: "nhentai"})
	require.NoError(t, service.Register(newStub("mangadex", true)))

	results, err := service.Search(context.Background(), source.SearchOptions{IncludeNSFW: true}, "")

	require.NoError(t, err)
	assert.Empty(t, results)
}

// # Details & Pages

/*
TestService_GetMangaDetails routes by prefix and reports missing records as nil.
*/
func TestService_GetMangaDetails(t *testing.T) {
	f := newFixture(t)
	f.stubs["anilist"].details["30013"] = &source.Manga{ID: "anilist:30013", Title: "Chainsaw Man"}

	manga, err := f.service.GetMangaDetails(context.Background(), "anilist:30013", "")
	require.NoError(t, err)
	require.NotNil(t, manga)
	assert.Equal(t, "Chainsaw Man", manga.Title)

	missing, err := f.service.GetMangaDetails(context.Background(), "anilist:1", "")
	require.NoError(t, err)
	assert.Nil(t, missing)

	f.stubs["kitsu"].fail = true
	failed, err := f.service.GetMangaDetails(context.Background(), "kitsu:1", "")
	require.NoError(t, err)
	assert.Nil(t, failed)
}

/*
TestService_GetChapterPages passes the full id to the owning adapter.
*/
func TestService_GetChapterPages(t *testing.T) {
	f := newFixture(t)
	f.stubs["royalroad"].pages["royalroad:21220:123"] = []string{"<p>text</p>"}

	pages, err := f.service.GetChapterPages(context.Background(), "royalroad:21220:123", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"<p>text</p>"}, pages)

	empty, err := f.service.GetChapterPages(context.Background(), chainsawUUID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty)
}

// # Chapters

/*
TestService_GetChapters_Native serves content sources directly without resolution.
*/
func TestService_GetChapters_Native(t *testing.T) {
	f := newFixture(t)
	f.stubs["mangadex"].chapters[chainsawUUID] = []source.Chapter{{ID: "mangadex:c1", Number: 1}}

	chapters, err := f.service.GetChapters(context.Background(), chainsawUUID, "")

	require.NoError(t, err)
	assert.Len(t, chapters, 1)
	assert.Equal(t, []string{"chapters:" + chainsawUUID}, f.stubs["mangadex"].Calls())
	assert.Equal(t, 0, f.service.Resolver().Cache().Len())
}

/*
TestService_GetChapters_Resolved maps a metadata title onto the first matching candidate.
*/
func TestService_GetChapters_Resolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1. Metadata record on AniList
	f.stubs["anilist"].details["30013"] = &source.Manga{ID: "anilist:30013", Title: "Chainsaw Man", Author: "Tatsuki Fujimoto"}

	// 2. MangaDex knows the title under a bare UUID
	f.stubs["mangadex"].results = []source.Manga{
		{ID: "00000000-0000-0000-0000-000000000000", Title: "Completely Different"},
		{ID: chainsawUUID, Title: "Chainsaw Man", Author: "Tatsuki Fujimoto"},
	}
	f.stubs["mangadex"].chapters[chainsawUUID] = []source.Chapter{
		{ID: "mangadex:c2", Number: 2},
		{ID: "mangadex:c1", Number: 1},
	}

	// 3. Resolve twice
	first, err := f.service.GetChapters(ctx, "anilist:30013", "")
	require.NoError(t, err)
	second, err := f.service.GetChapters(ctx, "anilist:30013", "")
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)

	mapped, ok := f.service.Resolver().Cache().Get("anilist:30013")
	require.True(t, ok)
	assert.Equal(t, "mangadex:"+chainsawUUID, mapped)

	// The second call reused the mapping
	assert.Len(t, f.stubs["mangadex"].searched, 1)
	assert.Empty(t, f.stubs["comick"].Calls())
}

/*
TestService_GetChapters_NoDetails yields an empty list when the metadata record is missing.
*/
func TestService_GetChapters_NoDetails(t *testing.T) {
	f := newFixture(t)

	chapters, err := f.service.GetChapters(context.Background(), "kitsu:404", "")

	require.NoError(t, err)
	assert.Equal(t, []source.Chapter{}, chapters)
	assert.Empty(t, f.stubs["mangadex"].Calls())
}

/*
TestService_GetChapters_AdapterPanics is contained by the registry guard.
*/
func TestService_GetChapters_AdapterPanics(t *testing.T) {
	f := newFixture(t)
	f.stubs["comick"].fail = true

	chapters, err := f.service.GetChapters(context.Background(), "comick:abc", "")

	require.NoError(t, err)
	assert.Equal(t, []source.Chapter{}, chapters)
}
