// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mangadex adapts the MangaDex REST API.

MangaDex is the default content source: its manga and chapter ids are bare
UUIDs, which the aggregation layer routes here without a prefix. Pages are
served by the MangaDex@Home network, resolved per chapter.
*/
package mangadex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.mangadex.org"

	coversURL    = "https://uploads.mangadex.org/covers"
	defaultLimit = 20
	feedLimit    = 100
)

// Adapter serves MangaDex.
type Adapter struct {
	client    *httpclient.Client
	baseURL   string
	dataSaver bool
}

// New creates the adapter. An empty baseURL selects [DefaultBaseURL].
func New(client *httpclient.Client, baseURL string) *Adapter {
	return &Adapter{
		client:    client,
		baseURL:   source.FirstNonEmpty(baseURL, DefaultBaseURL),
		dataSaver: true,
	}
}

// Info implements [source.Adapter].
func (adapter *Adapter) Info() source.Info {
	return source.Info{
		ID:               constants.SourceMangaDex,
		Name:             "MangaDex",
		IsNSFW:           false,
		SupportsChapters: true,
	}
}

// # Wire Types

type localized map[string]string

// english prefers the "en" entry, then any entry in key order.
func (l localized) english() string {
	if value := l["en"]; value != "" {
		return value
	}
	var firstKey string
	for key, value := range l {
		if value != "" && (firstKey == "" || key < firstKey) {
			firstKey = key
		}
	}
	return l[firstKey]
}

type relationship struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name     string `json:"name"`
		FileName string `json:"fileName"`
	} `json:"attributes"`
}

type mangaData struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       localized `json:"title"`
		Description localized `json:"description"`
		Status      string    `json:"status"`
		Tags        []struct {
			Attributes struct {
				Name localized `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
		LastChapter string `json:"lastChapter"`
		UpdatedAt   string `json:"updatedAt"`
	} `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

type chapterData struct {
	ID         string `json:"id"`
	Attributes struct {
		Chapter   string `json:"chapter"`
		Title     string `json:"title"`
		PublishAt string `json:"publishAt"`
	} `json:"attributes"`
}

type atHomeResponse struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

// # Operations

// SearchManga implements [source.Adapter]. Query, Limit, Offset, IDs, Sort and
// IncludeNSFW are all honored.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(options.LimitOr(defaultLimit)))
	params.Set("offset", strconv.Itoa(max(options.Offset, 0)))
	params["includes[]"] = []string{"cover_art", "author", "artist"}
	params["contentRating[]"] = []string{"safe", "suggestive", "erotica"}
	if options.IncludeNSFW {
		params["contentRating[]"] = append(params["contentRating[]"], "pornographic")
	}
	if options.Query != "" {
		params.Set("title", options.Query)
	}
	for _, id := range options.IDs {
		params.Add("ids[]", source.StripPrefix(id, constants.SourceMangaDex))
	}
	for field, direction := range options.Sort {
		params.Set(fmt.Sprintf("order[%s]", field), direction)
	}

	var response struct {
		Data []mangaData `json:"data"`
	}
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/manga", &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response.Data))
	for _, data := range response.Data {
		results = append(results, toManga(data))
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	id = source.StripPrefix(id, constants.SourceMangaDex)

	params := url.Values{"includes[]": {"cover_art", "author", "artist"}}
	var response struct {
		Data mangaData `json:"data"`
	}
	endpoint := adapter.baseURL + "/manga/" + url.PathEscape(id)
	if err := adapter.client.GetJSON(ctx, endpoint, &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}
	if response.Data.ID == "" {
		return nil, nil
	}

	manga := toManga(response.Data)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. English chapters only, newest first.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	mangaID = source.StripPrefix(mangaID, constants.SourceMangaDex)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(feedLimit))
	params.Set("offset", "0")
	params.Set("translatedLanguage[]", "en")
	params.Set("order[chapter]", "desc")

	var response struct {
		Data []chapterData `json:"data"`
	}
	endpoint := adapter.baseURL + "/manga/" + url.PathEscape(mangaID) + "/feed"
	if err := adapter.client.GetJSON(ctx, endpoint, &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}

	chapters := make([]source.Chapter, 0, len(response.Data))
	for _, data := range response.Data {
		number, _ := strconv.ParseFloat(data.Attributes.Chapter, 64)
		chapters = append(chapters, source.Chapter{
			ID:      data.ID,
			MangaID: mangaID,
			Number:  number,
			Title:   source.FirstNonEmpty(data.Attributes.Title, "Chapter "+data.Attributes.Chapter),
			Date:    source.ParseTime(data.Attributes.PublishAt),
			Pages:   []string{},
		})
	}
	return chapters, nil
}

// GetChapterPages implements [source.Adapter].
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	chapterID = source.StripPrefix(chapterID, constants.SourceMangaDex)

	var response atHomeResponse
	endpoint := adapter.baseURL + "/at-home/server/" + url.PathEscape(chapterID)
	if err := adapter.client.GetJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	mode, files := "data", response.Chapter.Data
	if adapter.dataSaver {
		mode, files = "data-saver", response.Chapter.DataSaver
	}

	pages := make([]string, 0, len(files))
	for _, file := range files {
		pages = append(pages, fmt.Sprintf("%s/%s/%s/%s", response.BaseURL, mode, response.Chapter.Hash, file))
	}
	return pages, nil
}

// # Mapping

func toManga(data mangaData) source.Manga {
	var cover, author, artist string
	for _, rel := range data.Relationships {
		switch rel.Type {
		case "cover_art":
			if cover == "" && rel.Attributes.FileName != "" {
				cover = fmt.Sprintf("%s/%s/%s.256.jpg", coversURL, data.ID, rel.Attributes.FileName)
			}
		case "author":
			author = source.FirstNonEmpty(author, rel.Attributes.Name)
		case "artist":
			artist = source.FirstNonEmpty(artist, rel.Attributes.Name)
		}
	}

	tags := make([]string, 0, len(data.Attributes.Tags))
	for _, tag := range data.Attributes.Tags {
		tags = append(tags, tag.Attributes.Name.english())
	}

	return source.Manga{
		ID:            data.ID,
		Title:         source.FirstNonEmpty(data.Attributes.Title.english(), "Unknown Title"),
		Cover:         cover,
		Author:        source.FirstNonEmpty(author, source.Unknown),
		Artist:        source.FirstNonEmpty(artist, source.Unknown),
		Status:        source.ParseStatus(data.Attributes.Status),
		Genres:        source.Genres(tags...),
		Views:         "N/A",
		Description:   data.Attributes.Description.english(),
		LatestChapter: data.Attributes.LastChapter,
		UpdatedAt:     source.ParseTime(data.Attributes.UpdatedAt),
	}
}
