// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ao3 scrapes Archive of Our Own.

Works without a chapter index are exposed as a single "Full Work" chapter whose
locator is [FullWorkLocator]. Every request sends the adult-content consent
cookie so gated works render.
*/
package ao3

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
	DefaultBaseURL = "https://archiveofourown.org"

	// FullWorkLocator addresses the whole work as one chapter.
	FullWorkLocator = "1"

	placeholderCover = "https://archiveofourown.org/images/ao3_logos/logo_42.png"
)

// Adapter serves AO3.
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
		ID:               constants.SourceAO3,
		Name:             "Archive of Our Own",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

func (adapter *Adapter) fetch(ctx context.Context, path string, query url.Values) (*goquery.Document, error) {
	options := []httpclient.RequestOption{httpclient.WithCookie("view_adult", "true")}
	if len(query) > 0 {
		options = append(options, httpclient.WithQuery(query))
	}
	return adapter.client.GetDocument(ctx, adapter.baseURL+path, options...)
}

// SearchManga implements [source.Adapter]. An empty query sorts all works by hits.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	query := url.Values{"work_search[query]": {options.Query}}
	if options.Query == "" {
		query.Set("work_search[sort_column]", "hits")
	}

	document, err := adapter.fetch(ctx, "/works/search", query)
	if err != nil {
		return nil, err
	}

	results := []source.Manga{}
	document.Find(".work.blurb").Each(func(_ int, blurb *goquery.Selection) {
		link := blurb.Find(".heading a").First()
		id := segmentAfter(link.AttrOr("href", ""), "/works/")
		if id == "" {
			return
		}
		author := strings.TrimSpace(blurb.Find(".heading a[rel='author']").First().Text())
		results = append(results, source.Manga{
			ID:     source.Namespace(constants.SourceAO3, id),
			Title:  strings.TrimSpace(link.Text()),
			Cover:  placeholderCover,
			Author: source.FirstNonEmpty(author, "Anonymous"),
			Artist: source.FirstNonEmpty(author, "Anonymous"),
			Status: source.StatusOngoing,
			Genres: []string{"Fanfiction"},
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
	id = source.StripPrefix(id, constants.SourceAO3)

	document, err := adapter.fetch(ctx, "/works/"+url.PathEscape(id), url.Values{"view_adult": {"true"}})
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(document.Find("h2.title").First().Text())
	if title == "" {
		return nil, nil
	}

	author := strings.TrimSpace(document.Find("h3.byline").First().Text())
	tags := document.Find("dd.freeform.tags a").Map(func(_ int, tag *goquery.Selection) string {
		return tag.Text()
	})

	return &source.Manga{
		ID:          source.Namespace(constants.SourceAO3, id),
		Title:       title,
		Cover:       placeholderCover,
		Author:      source.FirstNonEmpty(author, "Anonymous"),
		Artist:      source.FirstNonEmpty(author, "Anonymous"),
		Status:      source.StatusOngoing,
		Genres:      source.Genres(tags...),
		Views:       "N/A",
		Description: strings.TrimSpace(document.Find(".summary blockquote").First().Text()),
	}, nil
}

// GetChapters implements [source.Adapter].
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	workID := source.StripPrefix(mangaID, constants.SourceAO3)
	parent := source.Namespace(constants.SourceAO3, workID)

	document, err := adapter.fetch(ctx, "/works/"+url.PathEscape(workID)+"/navigate", nil)
	if err != nil {
		return nil, err
	}

	chapters := []source.Chapter{}
	document.Find("ol.chapter.index li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		chapterID := segmentAfter(link.AttrOr("href", ""), "/chapters/")
		if chapterID == "" {
			return
		}
		chapters = append(chapters, source.Chapter{
			ID:      source.ComposeChapterID(constants.SourceAO3, workID, chapterID),
			MangaID: parent,
			Number:  float64(len(chapters) + 1),
			Title:   strings.TrimSpace(link.Text()),
			Date:    source.ParseTime(strings.Trim(item.Find(".datetime").Text(), "() "), "2006-01-02"),
			Pages:   []string{},
		})
	})

	if len(chapters) == 0 {
		chapters = append(chapters, source.Chapter{
			ID:      source.ComposeChapterID(constants.SourceAO3, workID, FullWorkLocator),
			MangaID: parent,
			Number:  1,
			Title:   "Full Work",
			Pages:   []string{},
		})
	}
	return chapters, nil
}

// GetChapterPages implements [source.Adapter]. The single page is the chapter HTML.
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	workID, locator, ok := source.SplitChapterID(chapterID, constants.SourceAO3)
	if !ok {
		return nil, fmt.Errorf("%w: ao3 chapter id %q", source.ErrParse, chapterID)
	}

	path := "/works/" + url.PathEscape(workID)
	if locator != FullWorkLocator {
		path += "/chapters/" + url.PathEscape(locator)
	}

	document, err := adapter.fetch(ctx, path, url.Values{"view_adult": {"true"}})
	if err != nil {
		return nil, err
	}

	content, _ := document.Find("#chapters .userstuff").First().Html()
	if strings.TrimSpace(content) == "" {
		content, _ = document.Find(".userstuff").First().Html()
	}
	return []string{source.FirstNonEmpty(content, "<p>Content not found</p>")}, nil
}

// segmentAfter returns the path segment following marker in href.
func segmentAfter(href, marker string) string {
	_, rest, found := strings.Cut(href, marker)
	if !found {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	segment, _, _ = strings.Cut(segment, "?")
	return segment
}
