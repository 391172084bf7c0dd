// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/source"
)

type brokenAdapter struct {
	panics bool
}

func (b brokenAdapter) Info() source.Info { return source.Info{ID: "broken", Name: "Broken"} }

func (b brokenAdapter) SearchManga(context.Context, source.SearchOptions) ([]source.Manga, error) {
	if b.panics {
		panic("selector exploded")
	}
	return nil, fmt.Errorf("%w: 503", source.ErrNetwork)
}

func (b brokenAdapter) GetMangaDetails(context.Context, string) (*source.Manga, error) {
	return nil, fmt.Errorf("%w: bad json", source.ErrParse)
}

func (b brokenAdapter) GetChapters(context.Context, string) ([]source.Chapter, error) {
	return nil, nil
}

func (b brokenAdapter) GetChapterPages(context.Context, string) ([]string, error) {
	panic("nil map")
}

/*
TestGuard_ContainsFailures verifies errors and panics become empty results.
*/
func TestGuard_ContainsFailures(t *testing.T) {
	ctx := context.Background()
	guarded := source.Guard(brokenAdapter{})

	// 1. Network failure -> empty slice
	manga, err := guarded.SearchManga(ctx, source.SearchOptions{Query: "x"})
	require.NoError(t, err)
	assert.NotNil(t, manga)
	assert.Empty(t, manga)

	// 2. Parse failure -> nil record
	details, err := guarded.GetMangaDetails(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, details)

	// 3. Nil slice is normalized
	chapters, err := guarded.GetChapters(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, chapters)

	// 4. Panic is recovered
	pages, err := guarded.GetChapterPages(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, pages)

	panicking := source.Guard(brokenAdapter{panics: true})
	manga, err = panicking.SearchManga(ctx, source.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, manga)
}

/*
TestGuard_Idempotent verifies double wrapping is a no-op.
*/
func TestGuard_Idempotent(t *testing.T) {
	once := source.Guard(brokenAdapter{})
	assert.Same(t, once, source.Guard(once))
	assert.Equal(t, "broken", once.Info().ID)
}

/*
TestKind classifies failures for logging.
*/
func TestKind(t *testing.T) {
	assert.Equal(t, "network", source.Kind(fmt.Errorf("%w: x", source.ErrNetwork)))
	assert.Equal(t, "parse", source.Kind(fmt.Errorf("%w: x", source.ErrParse)))
	assert.Equal(t, "cancelled", source.Kind(context.Canceled))
	assert.Equal(t, "internal", source.Kind(fmt.Errorf("other")))
	assert.Empty(t, source.Kind(nil))
}
