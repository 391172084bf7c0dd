// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package kitsu adapts the Kitsu JSON:API catalog, a metadata-only source.
package kitsu

import (
	"context"
	"net/url"
	"strconv"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://kitsu.io/api/edge"

const defaultLimit = 20

// Adapter serves Kitsu.
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
		ID:               constants.SourceKitsu,
		Name:             "Kitsu",
		IsNSFW:           false,
		SupportsChapters: false,
	}
}

type resource struct {
	ID         string `json:"id"`
	Attributes struct {
		CanonicalTitle string            `json:"canonicalTitle"`
		Titles         map[string]string `json:"titles"`
		Synopsis       string            `json:"synopsis"`
		Status         string            `json:"status"`
		AverageRating  string            `json:"averageRating"`
		ChapterCount   *int              `json:"chapterCount"`
		UpdatedAt      string            `json:"updatedAt"`
		PosterImage    *struct {
			Large    string `json:"large"`
			Original string `json:"original"`
		} `json:"posterImage"`
	} `json:"attributes"`
}

// SearchManga implements [source.Adapter].
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	params := url.Values{}
	params.Set("page[limit]", strconv.Itoa(options.LimitOr(defaultLimit)))
	params.Set("page[offset]", strconv.Itoa(max(options.Offset, 0)))
	if options.Query != "" {
		params.Set("filter[text]", options.Query)
	}

	var response struct {
		Data []resource `json:"data"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/manga", &response,
		httpclient.WithQuery(params),
		httpclient.WithHeader("Accept", "application/vnd.api+json"),
	); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response.Data))
	for _, item := range response.Data {
		results = append(results, toManga(item))
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	id = source.StripPrefix(id, constants.SourceKitsu)

	var response struct {
		Data *resource `json:"data"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/manga/"+url.PathEscape(id), &response,
		httpclient.WithHeader("Accept", "application/vnd.api+json"),
	); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, nil
	}

	manga := toManga(*response.Data)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. Kitsu lists no readable chapters.
func (adapter *Adapter) GetChapters(context.Context, string) ([]source.Chapter, error) {
	return []source.Chapter{}, nil
}

// GetChapterPages implements [source.Adapter].
func (adapter *Adapter) GetChapterPages(context.Context, string) ([]string, error) {
	return []string{}, nil
}

func toManga(item resource) source.Manga {
	attributes := item.Attributes

	var cover string
	if attributes.PosterImage != nil {
		cover = source.FirstNonEmpty(attributes.PosterImage.Large, attributes.PosterImage.Original)
	}

	var rating float64
	if value, err := strconv.ParseFloat(attributes.AverageRating, 64); err == nil {
		rating = value / 10
	}

	latest := "?"
	if attributes.ChapterCount != nil {
		latest = strconv.Itoa(*attributes.ChapterCount)
	}

	status := source.StatusOngoing
	if attributes.Status == "finished" {
		status = source.StatusCompleted
	}

	return source.Manga{
		ID:            source.Namespace(constants.SourceKitsu, item.ID),
		Title:         source.FirstNonEmpty(attributes.CanonicalTitle, attributes.Titles["en"], attributes.Titles["en_jp"]),
		Cover:         cover,
		Author:        source.Unknown,
		Artist:        source.Unknown,
		Status:        status,
		Genres:        []string{},
		Rating:        rating,
		Views:         "N/A",
		Description:   attributes.Synopsis,
		LatestChapter: latest,
		UpdatedAt:     source.ParseTime(attributes.UpdatedAt, "2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05Z07:00"),
	}
}
