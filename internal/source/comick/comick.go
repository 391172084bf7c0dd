// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comick adapts the Comick JSON API, the secondary content source.
package comick

import (
	"context"
	"net/url"
	"strconv"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.comick.io"

	imageHost     = "https://meo.comick.pictures/"
	defaultLimit  = 20
	chapterLimit  = 300
	statusOngoing = 1
)

// Adapter serves Comick.
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
		ID:               constants.SourceComick,
		Name:             "Comick",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

type image struct {
	B2Key string `json:"b2key"`
}

type named struct {
	Name string `json:"name"`
}

type comic struct {
	HID         string  `json:"hid"`
	Title       string  `json:"title"`
	Desc        string  `json:"desc"`
	Rating      string  `json:"rating"`
	Status      int     `json:"status"`
	ViewCount   int     `json:"view_count"`
	LastChapter float64 `json:"last_chapter"`
	Covers      []image `json:"md_covers"`
	Genres      []struct {
		Genre named `json:"md_genres"`
	} `json:"md_comic_md_genres"`
}

func coverOf(covers []image) string {
	if len(covers) == 0 || covers[0].B2Key == "" {
		return ""
	}
	return imageHost + covers[0].B2Key
}

// SearchManga implements [source.Adapter]. An empty query returns nothing.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	if options.Query == "" {
		return []source.Manga{}, nil
	}

	params := url.Values{}
	params.Set("q", options.Query)
	params.Set("limit", strconv.Itoa(options.LimitOr(defaultLimit)))

	var response []comic
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/v1.0/search", &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response))
	for _, item := range response {
		rating, _ := strconv.ParseFloat(item.Rating, 64)
		results = append(results, source.Manga{
			ID:          source.Namespace(constants.SourceComick, item.HID),
			Title:       item.Title,
			Cover:       coverOf(item.Covers),
			Author:      source.Unknown,
			Artist:      source.Unknown,
			Status:      source.StatusOngoing,
			Genres:      []string{},
			Rating:      rating,
			Views:       "N/A",
			Description: item.Desc,
		})
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	hid := source.StripPrefix(id, constants.SourceComick)

	var response struct {
		Comic   *comic  `json:"comic"`
		Authors []named `json:"authors"`
		Artists []named `json:"artists"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/comic/"+url.PathEscape(hid), &response); err != nil {
		return nil, err
	}
	if response.Comic == nil {
		return nil, nil
	}

	item := response.Comic
	genres := make([]string, 0, len(item.Genres))
	for _, genre := range item.Genres {
		genres = append(genres, genre.Genre.Name)
	}

	status := source.StatusCompleted
	if item.Status == statusOngoing {
		status = source.StatusOngoing
	}

	var author, artist string
	if len(response.Authors) > 0 {
		author = response.Authors[0].Name
	}
	if len(response.Artists) > 0 {
		artist = response.Artists[0].Name
	}

	views := "N/A"
	if item.ViewCount > 0 {
		views = strconv.Itoa(item.ViewCount)
	}

	var latest string
	if item.LastChapter > 0 {
		latest = strconv.FormatFloat(item.LastChapter, 'f', -1, 64)
	}

	rating, _ := strconv.ParseFloat(item.Rating, 64)
	return &source.Manga{
		ID:            source.Namespace(constants.SourceComick, item.HID),
		Title:         item.Title,
		Cover:         coverOf(item.Covers),
		Author:        source.FirstNonEmpty(author, source.Unknown),
		Artist:        source.FirstNonEmpty(artist, source.Unknown),
		Status:        status,
		Genres:        source.Genres(genres...),
		Rating:        rating,
		Views:         views,
		Description:   item.Desc,
		LatestChapter: latest,
	}, nil
}

// GetChapters implements [source.Adapter]. English chapters only.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	hid := source.StripPrefix(mangaID, constants.SourceComick)

	params := url.Values{}
	params.Set("lang", "en")
	params.Set("limit", strconv.Itoa(chapterLimit))

	var response struct {
		Chapters []struct {
			HID       string `json:"hid"`
			Chap      string `json:"chap"`
			Title     string `json:"title"`
			CreatedAt string `json:"created_at"`
		} `json:"chapters"`
	}
	endpoint := adapter.baseURL + "/comic/" + url.PathEscape(hid) + "/chapters"
	if err := adapter.client.GetJSON(ctx, endpoint, &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}

	chapters := make([]source.Chapter, 0, len(response.Chapters))
	for _, item := range response.Chapters {
		number, _ := strconv.ParseFloat(item.Chap, 64)
		chapters = append(chapters, source.Chapter{
			ID:      source.Namespace(constants.SourceComick, item.HID),
			MangaID: source.Namespace(constants.SourceComick, hid),
			Number:  number,
			Title:   source.FirstNonEmpty(item.Title, "Chapter "+item.Chap),
			Date:    source.ParseTime(item.CreatedAt),
			Pages:   []string{},
		})
	}
	return chapters, nil
}

// GetChapterPages implements [source.Adapter].
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	hid := source.StripPrefix(chapterID, constants.SourceComick)

	var response struct {
		Chapter struct {
			Images []image `json:"md_images"`
		} `json:"chapter"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/chapter/"+url.PathEscape(hid), &response); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(response.Chapter.Images))
	for _, page := range response.Chapter.Images {
		pages = append(pages, imageHost+page.B2Key)
	}
	return pages, nil
}
