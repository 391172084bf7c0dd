// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mangahook adapts a self-hosted MangaHook API instance.
package mangahook

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

// DefaultBaseURL is the conventional local instance.
const DefaultBaseURL = "http://localhost:3000/api"

var chapterNumberRegex = regexp.MustCompile(`\d+(\.\d+)?`)

// Adapter serves MangaHook.
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
		ID:               constants.SourceMangaHook,
		Name:             "MangaHook (Local)",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

type detail struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Author      string `json:"author"`
	Status      string `json:"status"`
	Description string `json:"description"`
	View        string `json:"view"`
	Chapter     string `json:"chapter"`
	Category    []struct {
		Type string `json:"type"`
	} `json:"category"`
	ChapterList []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"chapterList"`
}

// SearchManga implements [source.Adapter].
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	var requestOptions []httpclient.RequestOption
	if options.Query != "" {
		requestOptions = append(requestOptions, httpclient.WithQuery(url.Values{"word": {options.Query}}))
	}

	var response struct {
		MangaList []detail `json:"mangaList"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/mangaList", &response, requestOptions...); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response.MangaList))
	for _, item := range response.MangaList {
		results = append(results, toManga(item, item.ID))
	}
	if limit := options.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	id = source.StripPrefix(id, constants.SourceMangaHook)

	item, err := adapter.detail(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}

	manga := toManga(*item, id)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. Numbers are read from chapter names.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	mangaID = source.StripPrefix(mangaID, constants.SourceMangaHook)

	item, err := adapter.detail(ctx, mangaID)
	if err != nil || item == nil {
		return nil, err
	}

	chapters := make([]source.Chapter, 0, len(item.ChapterList))
	for _, entry := range item.ChapterList {
		number, _ := strconv.ParseFloat(chapterNumberRegex.FindString(entry.Name), 64)
		chapters = append(chapters, source.Chapter{
			ID:      source.Namespace(constants.SourceMangaHook, entry.ID),
			MangaID: source.Namespace(constants.SourceMangaHook, mangaID),
			Number:  number,
			Title:   source.FirstNonEmpty(entry.Name, "Chapter "+entry.ID),
			Pages:   []string{},
		})
	}
	return chapters, nil
}

// GetChapterPages implements [source.Adapter].
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	chapterID = source.StripPrefix(chapterID, constants.SourceMangaHook)

	var response struct {
		Images []string `json:"images"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/mangaList/chapter/"+url.PathEscape(chapterID), &response); err != nil {
		return nil, err
	}
	return response.Images, nil
}

func (adapter *Adapter) detail(ctx context.Context, id string) (*detail, error) {
	var item detail
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/mangaList/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	if item.Title == "" {
		return nil, nil
	}
	return &item, nil
}

func toManga(item detail, fallbackID string) source.Manga {
	genres := make([]string, 0, len(item.Category))
	for _, category := range item.Category {
		genres = append(genres, category.Type)
	}

	return source.Manga{
		ID:            source.Namespace(constants.SourceMangaHook, source.FirstNonEmpty(item.ID, fallbackID)),
		Title:         item.Title,
		Cover:         item.Image,
		Author:        source.FirstNonEmpty(item.Author, source.Unknown),
		Artist:        source.Unknown,
		Status:        source.ParseStatus(item.Status),
		Genres:        source.Genres(genres...),
		Views:         source.FirstNonEmpty(item.View, "0"),
		Description:   item.Description,
		LatestChapter: item.Chapter,
	}
}
