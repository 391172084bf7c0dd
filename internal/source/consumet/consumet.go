// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package consumet adapts the Consumet MangaDex provider, usually self-hosted.
package consumet

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strconv"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

const (
	// DefaultBaseURL is the public provider root.
	DefaultBaseURL = "https://api.consumet.org/manga/mangadex"

	// defaultQuery is sent when none is given; the provider rejects empty searches.
	defaultQuery = "naruto"
)

// Adapter serves Consumet.
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
		ID:               constants.SourceConsumet,
		Name:             "Consumet (MangaDex)",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

// text accepts either a plain string or a localized {"en": ...} object.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = text(plain)
		return nil
	}
	var localized map[string]string
	if err := json.Unmarshal(data, &localized); err != nil {
		return nil
	}
	*t = text(localized["en"])
	return nil
}

type info struct {
	ID          string   `json:"id"`
	Title       text     `json:"title"`
	Image       string   `json:"image"`
	Author      string   `json:"author"`
	Status      string   `json:"status"`
	Description text     `json:"description"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	Chapters    []struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		ChapterNumber string `json:"chapterNumber"`
	} `json:"chapters"`
}

// SearchManga implements [source.Adapter].
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	query := source.FirstNonEmpty(options.Query, defaultQuery)

	var response struct {
		Results []info `json:"results"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/"+url.PathEscape(query), &response); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response.Results))
	for _, item := range response.Results {
		results = append(results, toManga(item))
	}
	if limit := options.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	item, err := adapter.info(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}

	manga := toManga(*item)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. The provider lists newest first;
// chapters are returned oldest first.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	item, err := adapter.info(ctx, mangaID)
	if err != nil || item == nil {
		return nil, err
	}

	chapters := make([]source.Chapter, 0, len(item.Chapters))
	for _, entry := range item.Chapters {
		number, _ := strconv.ParseFloat(entry.ChapterNumber, 64)
		chapters = append(chapters, source.Chapter{
			ID:      source.Namespace(constants.SourceConsumet, entry.ID),
			MangaID: source.Namespace(constants.SourceConsumet, item.ID),
			Number:  number,
			Title:   source.FirstNonEmpty(entry.Title, "Chapter "+entry.ChapterNumber),
			Pages:   []string{},
		})
	}
	slices.Reverse(chapters)
	return chapters, nil
}

// GetChapterPages implements [source.Adapter]. Pages may be plain URLs or {"img": url} objects.
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	chapterID = source.StripPrefix(chapterID, constants.SourceConsumet)

	var response []json.RawMessage
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/read/"+url.PathEscape(chapterID), &response); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(response))
	for _, raw := range response {
		var plain string
		if json.Unmarshal(raw, &plain) == nil {
			pages = append(pages, plain)
			continue
		}
		var page struct {
			Img string `json:"img"`
		}
		if json.Unmarshal(raw, &page) == nil && page.Img != "" {
			pages = append(pages, page.Img)
		}
	}
	return pages, nil
}

func (adapter *Adapter) info(ctx context.Context, id string) (*info, error) {
	id = source.StripPrefix(id, constants.SourceConsumet)

	var item info
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/info/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	return &item, nil
}

func toManga(item info) source.Manga {
	return source.Manga{
		ID:          source.Namespace(constants.SourceConsumet, item.ID),
		Title:       string(item.Title),
		Cover:       item.Image,
		Author:      source.FirstNonEmpty(item.Author, source.Unknown),
		Artist:      source.Unknown,
		Status:      source.ParseStatus(item.Status),
		Genres:      source.Genres(item.Genres...),
		Rating:      item.Rating,
		Views:       "0",
		Description: string(item.Description),
	}
}
