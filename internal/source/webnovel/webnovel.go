// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package webnovel scrapes the Webnovel search page. The source is search-only.
package webnovel

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
const DefaultBaseURL = "https://www.webnovel.com"

// Adapter serves Webnovel.
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
		ID:               constants.SourceWebnovel,
		Name:             "Webnovel",
		IsNSFW:           false,
		SupportsChapters: false,
	}
}

// SearchManga implements [source.Adapter].
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	document, err := adapter.client.GetDocument(ctx, adapter.baseURL+"/search",
		httpclient.WithQuery(url.Values{"keywords": {options.Query}}),
	)
	if err != nil {
		return nil, err
	}

	results := []source.Manga{}
	document.Find("li[data-bookid]").Each(func(_ int, item *goquery.Selection) {
		id := item.AttrOr("data-bookid", "")
		title := strings.TrimSpace(item.Find("h3 a").First().Text())
		if id == "" || title == "" {
			return
		}

		results = append(results, source.Manga{
			ID:     source.Namespace(constants.SourceWebnovel, id),
			Title:  title,
			Cover:  item.Find("img").AttrOr("data-original", item.Find("img").AttrOr("src", "")),
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
