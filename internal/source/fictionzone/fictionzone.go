// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fictionzone scrapes the FictionZone library search. The source is
// search-only: it exposes no details, chapters or content.
package fictionzone

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

// DefaultBaseURL is the site root.
const DefaultBaseURL = "https://fictionzone.net"

// Adapter serves FictionZone.
type Adapter struct {
	client  *httpclient.Client
	baseURL string
}

// New creates the adapter. An empty baseURL selects [DefaultBaseURL].
func New(client *httpclient.Client, baseURL string) *Adapter {
	return &Adapter{client: client, baseURL: source.FirstNonEmpty(baseURL, DefaultBaseURL)}
}

// Info implements [source.Adapter].
func (adapter *Adapter) Info() source.Info {
	return source.Info{
		ID:               constants.SourceFictionZone,
		Name:             "FictionZone",
		IsNSFW:           false,
		SupportsChapters: false,
	}
}

// SearchManga implements [source.Adapter]. Novel links are de-duplicated by id.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	document, err := adapter.client.GetDocument(ctx, adapter.baseURL+"/library",
		httpclient.WithQuery(url.Values{"q": {options.Query}}),
	)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	results := []source.Manga{}
	document.Find("a[href^='/novel/']").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if strings.Contains(href, "/chapter/") {
			return
		}

		title := strings.TrimSpace(link.Find(".title, h3, h4").First().Text())
		title = source.FirstNonEmpty(title, link.AttrOr("title", ""))
		id := strings.Trim(strings.TrimPrefix(href, "/novel/"), "/")
		if title == "" || id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}

		results = append(results, source.Manga{
			ID:     source.Namespace(constants.SourceFictionZone, id),
			Title:  title,
			Cover:  adapter.baseURL + "/favicon.ico",
			Author: source.Unknown,
			Artist: source.Unknown,
			Status: source.StatusOngoing,
			Genres: []string{"Web Novel"},
			Views:  "N/A",
		})
	})

	if limit := options.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter]. Not supported.
func (adapter *Adapter) GetMangaDetails(context.Context, string) (*source.Manga, error) {
	return nil, nil
}

// GetChapters implements [source.Adapter]. Not supported.
func (adapter *Adapter) GetChapters(context.Context, string) ([]source.Chapter, error) {
	return []source.Chapter{}, nil
}

// GetChapterPages implements [source.Adapter]. Not supported.
func (adapter *Adapter) GetChapterPages(context.Context, string) ([]string, error) {
	return []string{}, nil
}
