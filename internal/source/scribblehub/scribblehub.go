// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scribblehub scrapes ScribbleHub, a web-novel source.

ScribbleHub chapter pages have no stable numeric address, so chapter ids carry
the encoded chapter URL as their locator:
"scribblehub:<seriesId>:<base64url(chapterURL)>".
*/
package scribblehub

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

// DefaultBaseURL is the site root.
const DefaultBaseURL = "https://www.scribblehub.com"

var seriesIDRegex = regexp.MustCompile(`/series/(\d+)/`)

// Adapter serves ScribbleHub.
type Adapter struct {
	client  *httpclient.Client
	baseURL string
}

// New creates the adapter. An empty baseURL selects [DefaultBaseURL].
func New(client *httpclient.Client, baseURL string) *Adapter {
	return &Adapter{client: client, baseURL: strings.TrimRight(source.FirstNonEmpty(baseURL, DefaultBaseURL), "/")}
}

// Info implements [source.Adapter].
func (adapter *Adapter) Info() source.Info {
	return source.Info{
		ID:               constants.SourceScribbleHub,
		Name:             "ScribbleHub",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

func (adapter *Adapter) cover() string {
	return adapter.baseURL + "/favicon.ico"
}

// SearchManga implements [source.Adapter]. An empty query lists the series ranking.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	endpoint := adapter.baseURL + "/series-ranking/"
	var requestOptions []httpclient.RequestOption
	if options.Query != "" {
		endpoint = adapter.baseURL + "/"
		requestOptions = append(requestOptions, httpclient.WithQuery(url.Values{
			"s":         {options.Query},
			"post_type": {"fictionposts"},
		}))
	}

	document, err := adapter.client.GetDocument(ctx, endpoint, requestOptions...)
	if err != nil {
		return nil, err
	}

	results := []source.Manga{}
	document.Find(".search_main_box").Each(func(_ int, box *goquery.Selection) {
		link := box.Find(".search_title a").First()
		match := seriesIDRegex.FindStringSubmatch(link.AttrOr("href", ""))
		if match == nil {
			return
		}
		results = append(results, source.Manga{
			ID:     source.Namespace(constants.SourceScribbleHub, match[1]),
			Title:  strings.TrimSpace(link.Text()),
			Cover:  adapter.cover(),
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

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	id = source.StripPrefix(id, constants.SourceScribbleHub)

	document, err := adapter.client.GetDocument(ctx, adapter.baseURL+"/series/"+url.PathEscape(id)+"/")
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(document.Find(".fic_title").First().Text())
	if title == "" {
		return nil, nil
	}

	author := strings.TrimSpace(document.Find(".auth_name_fic").First().Text())
	genres := document.Find(".fic_genre").Map(func(_ int, genre *goquery.Selection) string {
		return strings.TrimSpace(genre.Text())
	})

	return &source.Manga{
		ID:          source.Namespace(constants.SourceScribbleHub, id),
		Title:       title,
		Cover:       source.FirstNonEmpty(document.Find(".fic_image img").AttrOr("src", ""), adapter.cover()),
		Author:      source.FirstNonEmpty(author, source.Unknown),
		Artist:      source.FirstNonEmpty(author, source.Unknown),
		Status:      source.StatusOngoing,
		Genres:      source.Genres(genres...),
		Views:       "N/A",
		Description: strings.TrimSpace(document.Find(".wi_fic_desc").First().Text()),
	}, nil
}

// GetChapters implements [source.Adapter]. The table of contents is served
// newest first and numbered here oldest first.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	seriesID := source.StripPrefix(mangaID, constants.SourceScribbleHub)

	document, err := adapter.client.PostDocument(ctx, adapter.baseURL+"/wp-admin/admin-ajax.php",
		httpclient.WithForm(map[string]string{
			"action":   "wi_getreleases_pagination",
			"pagenum":  "-1",
			"mypostid": seriesID,
		}),
	)
	if err != nil {
		return nil, err
	}

	chapters := []source.Chapter{}
	document.Find(".toc_w").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(".toc_a").First()
		href := link.AttrOr("href", "")
		if href == "" {
			return
		}
		chapters = append(chapters, source.Chapter{
			ID:      source.ComposeChapterID(constants.SourceScribbleHub, seriesID, source.EncodeLocator(href)),
			MangaID: source.Namespace(constants.SourceScribbleHub, seriesID),
			Title:   strings.TrimSpace(link.Text()),
			Pages:   []string{},
		})
	})

	slices.Reverse(chapters)
	for index := range chapters {
		chapters[index].Number = float64(index + 1)
	}
	return chapters, nil
}

// GetChapterPages implements [source.Adapter]. Only URLs on the site host are fetched.
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	_, locator, ok := source.SplitChapterID(chapterID, constants.SourceScribbleHub)
	if !ok {
		return nil, fmt.Errorf("%w: scribblehub chapter id %q", source.ErrParse, chapterID)
	}

	chapterURL, err := source.DecodeLocator(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: scribblehub locator: %v", source.ErrParse, err)
	}
	if !adapter.owns(chapterURL) {
		return nil, fmt.Errorf("%w: scribblehub locator points off-site", source.ErrParse)
	}

	document, err := adapter.client.GetDocument(ctx, chapterURL)
	if err != nil {
		return nil, err
	}

	content, _ := document.Find(".chp_raw").First().Html()
	if strings.TrimSpace(content) == "" {
		content, _ = document.Find(".chapter-content").First().Html()
	}
	return []string{source.FirstNonEmpty(content, "Content not found")}, nil
}

// owns reports whether rawURL points at the configured site.
func (adapter *Adapter) owns(rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	base, err := url.Parse(adapter.baseURL)
	if err != nil {
		return false
	}
	return target.Host == base.Host && (target.Scheme == "https" || target.Scheme == "http")
}
