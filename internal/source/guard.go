// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/taibuivan/mangabridge/internal/platform/ctxutil"
)

// # Adapter Boundary

// guarded enforces the adapter contract: failures never cross the boundary.
type guarded struct {
	inner Adapter
	info  Info
}

// Guard wraps adapter so that every error or panic is logged and converted
// into an empty result ([] or nil). Guarding an already guarded adapter is a no-op.
func Guard(adapter Adapter) Adapter {
	if g, ok := adapter.(*guarded); ok {
		return g
	}
	return &guarded{inner: adapter, info: adapter.Info()}
}

func (g *guarded) Info() Info { return g.info }

func (g *guarded) SearchManga(ctx context.Context, options SearchOptions) ([]Manga, error) {
	return contain(ctx, g.info, "search", []Manga{}, func() ([]Manga, error) {
		return g.inner.SearchManga(ctx, options)
	}), nil
}

func (g *guarded) GetMangaDetails(ctx context.Context, id string) (*Manga, error) {
	return contain(ctx, g.info, "details", nil, func() (*Manga, error) {
		return g.inner.GetMangaDetails(ctx, id)
	}), nil
}

func (g *guarded) GetChapters(ctx context.Context, mangaID string) ([]Chapter, error) {
	return contain(ctx, g.info, "chapters", []Chapter{}, func() ([]Chapter, error) {
		return g.inner.GetChapters(ctx, mangaID)
	}), nil
}

func (g *guarded) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	return contain(ctx, g.info, "pages", []string{}, func() ([]string, error) {
		return g.inner.GetChapterPages(ctx, chapterID)
	}), nil
}

// contain runs call and substitutes empty for any error, panic, or nil slice.
func contain[T any](ctx context.Context, info Info, operation string, empty T, call func() (T, error)) (result T) {
	logger := ctxutil.GetLogger(ctx)

	defer func() {
		if recovered := recover(); recovered != nil {
			stack := make([]byte, 2048)
			length := runtime.Stack(stack, false)
			logger.ErrorContext(ctx, "adapter_panic_recovered",
				slog.String("source", info.ID),
				slog.String("operation", operation),
				slog.String("error", fmt.Sprint(recovered)),
				slog.String("stack", string(stack[:length])),
			)
			result = empty
		}
	}()

	value, err := call()
	if err != nil {
		logger.WarnContext(ctx, "adapter_call_failed",
			slog.String("source", info.ID),
			slog.String("operation", operation),
			slog.String("kind", Kind(err)),
			slog.Any("error", err),
		)
		return empty
	}

	return normalizeEmpty(value, empty)
}

// normalizeEmpty replaces nil slices with the non-nil empty value so JSON
// renders "[]" rather than "null".
func normalizeEmpty[T any](value T, empty T) T {
	switch v := any(value).(type) {
	case []Manga:
		if v == nil {
			return empty
		}
	case []Chapter:
		if v == nil {
			return empty
		}
	case []string:
		if v == nil {
			return empty
		}
	}
	return value
}
