// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package royalroad scrapes Royal Road, a web-novel source.

Chapter ids use the composite form "royalroad:<fictionId>:<chapterId>" and a
chapter's single page holds its rendered HTML.
*/
package royalroad

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

const (
	// DefaultBaseURL is the site root.
	DefaultBaseURL = "https://www.royalroad.com"

	placeholderCover = "https://www.royalroadcdn.com/public/img/logo/rr-logo-white-small.png"
)

// Adapter serves Royal Road.
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
		ID:               constants.SourceRoyalRoad,
		Name:             "Royal Road",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

// SearchManga implements [source.Adapter]. An empty query lists the best rated fictions.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	endpoint := adapter.baseURL + "/fictions/best-rated"
	var requestOptions []httpclient.RequestOption
	if options.Query != "" {
		endpoint = adapter.baseURL + "/fictions/search"
		requestOptions = append(requestOptions, httpclient.WithQuery(url.Values{"title": {options.Query}}))
	}

	document, err := adapter.client.GetDocument(ctx, endpoint, requestOptions...)
	if err != nil {
		return nil, err
	}

	results := []source.Manga{}
	document.Find(".fiction-list-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find(".fiction-title a").First()
		id := segmentAfter(link.AttrOr("href", ""), "/fiction/")
		if id == "" {
			return
		}
		results = append(results, source.Manga{
			ID:     source.Namespace(constants.SourceRoyalRoad, id),
			Title:  strings.TrimSpace(link.Text()),
			Cover:  placeholderCover,
			Author: source.Unknown,
			Artist: source.Unknown,
			Status: source.StatusOngoing,
			Genres: []string{"Fantasy", "LitRPG"},
			Views:  "N/A",
		})
	})

	if limit := options.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	id = source.StripPrefix(id, constants.SourceRoyalRoad)

	document, err := adapter.client.GetDocument(ctx, adapter.baseURL+"/fiction/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(document.Find("h1").First().Text())
	if title == "" {
		return nil, nil
	}

	author := strings.TrimSpace(document.Find(".author a").First().Text())
	return &source.Manga{
		ID:          source.Namespace(constants.SourceRoyalRoad, id),
		Title:       title,
		Cover:       source.FirstNonEmpty(document.Find(".cover-art-container img").AttrOr("src", ""), placeholderCover),
		Author:      source.FirstNonEmpty(author, source.Unknown),
		Artist:      source.FirstNonEmpty(author, source.Unknown),
		Status:      source.StatusOngoing,
		Genres:      source.Genres(document.Find(".tags .label").Map(text)...),
		Views:       "N/A",
		Description: strings.TrimSpace(document.Find(".description").First().Text()),
	}, nil
}

// GetChapters implements [source.Adapter]. Chapters are numbered in table order.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	fictionID := source.StripPrefix(mangaID, constants.SourceRoyalRoad)

	document, err := adapter.client.GetDocument(ctx, adapter.baseURL+"/fiction/"+url.PathEscape(fictionID))
	if err != nil {
		return nil, err
	}

	chapters := []source.Chapter{}
	document.Find("#chapters tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		chapterID := segmentAfter(link.AttrOr("href", ""), "/chapter/")
		if chapterID == "" {
			return
		}
		chapters = append(chapters, source.Chapter{
			ID:      source.ComposeChapterID(constants.SourceRoyalRoad, fictionID, chapterID),
			MangaID: source.Namespace(constants.SourceRoyalRoad, fictionID),
			Number:  float64(len(chapters) + 1),
			Title:   strings.TrimSpace(link.Text()),
			Date:    source.ParseTime(row.Find("time").AttrOr("datetime", "")),
			Pages:   []string{},
		})
	})
	return chapters, nil
}

// GetChapterPages implements [source.Adapter]. The single page is the chapter HTML.
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	fictionID, locator, ok := source.SplitChapterID(chapterID, constants.SourceRoyalRoad)
	if !ok {
		return nil, fmt.Errorf("%w: royalroad chapter id %q", source.ErrParse, chapterID)
	}

	endpoint := fmt.Sprintf("%s/fiction/%s/chapter/%s", adapter.baseURL, url.PathEscape(fictionID), url.PathEscape(locator))
	document, err := adapter.client.GetDocument(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	content, err := document.Find(".chapter-content").First().Html()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrParse, err)
	}
	return []string{source.FirstNonEmpty(content, "Content not found")}, nil
}

// segmentAfter returns the path segment following marker in href.
func segmentAfter(href, marker string) string {
	_, rest, found := strings.Cut(href, marker)
	if !found {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	return segment
}

func text(_ int, selection *goquery.Selection) string {
	return strings.TrimSpace(selection.Text())
}
