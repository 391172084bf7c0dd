// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package nhentai adapts the nhentai gallery API, the dedicated NSFW source.

Every gallery is exposed as a single-chapter title whose chapter id equals the
gallery id. The image CDN rejects hot-linked requests, so page and cover URLs
can be rewritten through the image proxy with [WithImageProxy].
*/
package nhentai

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

const (
	// DefaultBaseURL is the public site root hosting the JSON API.
	DefaultBaseURL = "https://nhentai.net"

	// Referer is the header the image CDN expects on every request.
	Referer = "https://nhentai.net/"

	galleriesURL  = "https://i.nhentai.net/galleries"
	thumbnailsURL = "https://t.nhentai.net/galleries"
	pageSize      = 25
)

// ImageHosts lists the CDN hosts the image proxy may fetch from.
var ImageHosts = []string{"i.nhentai.net", "t.nhentai.net"}

// Adapter serves nhentai.
type Adapter struct {
	client  *httpclient.Client
	baseURL string
	rewrite func(string) string
}

// Option customizes an [Adapter].
type Option func(*Adapter)

// WithImageProxy rewrites every image URL to "<endpoint>?url=<escaped url>".
func WithImageProxy(endpoint string) Option {
	return func(adapter *Adapter) {
		adapter.rewrite = func(imageURL string) string {
			return endpoint + "?url=" + url.QueryEscape(imageURL)
		}
	}
}

// New creates the adapter. An empty baseURL selects [DefaultBaseURL].
func New(client *httpclient.Client, baseURL string, options ...Option) *Adapter {
	adapter := &Adapter{
		client:  client,
		baseURL: source.FirstNonEmpty(baseURL, DefaultBaseURL),
		rewrite: func(imageURL string) string { return imageURL },
	}
	for _, option := range options {
		option(adapter)
	}
	return adapter
}

// Info implements [source.Adapter].
func (adapter *Adapter) Info() source.Info {
	return source.Info{
		ID:               constants.SourceNHentai,
		Name:             "nhentai",
		IsNSFW:           true,
		SupportsChapters: true,
	}
}

// # Wire Types

// flexID accepts both numeric and quoted ids.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	*id = flexID(bytes.Trim(data, `"`))
	return nil
}

type imageInfo struct {
	Type string `json:"t"`
}

// extension maps the single-letter image type onto a file extension.
func (info imageInfo) extension() string {
	switch info.Type {
	case "j":
		return "jpg"
	case "p":
		return "png"
	case "w":
		return "webp"
	}
	return "gif"
}

type gallery struct {
	ID      flexID `json:"id"`
	MediaID flexID `json:"media_id"`
	Title   struct {
		English  string `json:"english"`
		Japanese string `json:"japanese"`
		Pretty   string `json:"pretty"`
	} `json:"title"`
	Images struct {
		Pages []imageInfo `json:"pages"`
		Cover imageInfo   `json:"cover"`
	} `json:"images"`
	Tags []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	} `json:"tags"`
	NumPages      int   `json:"num_pages"`
	NumFavorites  int   `json:"num_favorites"`
	UploadDateSec int64 `json:"upload_date"`
}

// # Operations

// SearchManga implements [source.Adapter]. An empty query lists recent galleries.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(options.Page(options.LimitOr(pageSize))))

	endpoint := adapter.baseURL + "/api/galleries/all"
	if options.Query != "" {
		endpoint = adapter.baseURL + "/api/galleries/search"
		params.Set("query", options.Query)
	}

	var response struct {
		Result []gallery `json:"result"`
	}
	if err := adapter.client.GetJSON(ctx, endpoint, &response, httpclient.WithQuery(params)); err != nil {
		return nil, err
	}

	results := make([]source.Manga, 0, len(response.Result))
	for _, item := range response.Result {
		results = append(results, adapter.toManga(item))
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	item, err := adapter.gallery(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}

	manga := adapter.toManga(*item)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. A gallery is one chapter.
func (adapter *Adapter) GetChapters(ctx context.Context, mangaID string) ([]source.Chapter, error) {
	item, err := adapter.gallery(ctx, mangaID)
	if err != nil || item == nil {
		return nil, err
	}

	id := source.Namespace(constants.SourceNHentai, string(item.ID))
	return []source.Chapter{{
		ID:      id,
		MangaID: id,
		Number:  1,
		Title:   "Chapter 1",
		Date:    uploadedAt(*item),
		Pages:   []string{},
	}}, nil
}

// GetChapterPages implements [source.Adapter].
func (adapter *Adapter) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	item, err := adapter.gallery(ctx, chapterID)
	if err != nil || item == nil {
		return nil, err
	}

	pages := make([]string, 0, len(item.Images.Pages))
	for index, page := range item.Images.Pages {
		imageURL := fmt.Sprintf("%s/%s/%d.%s", galleriesURL, item.MediaID, index+1, page.extension())
		pages = append(pages, adapter.rewrite(imageURL))
	}
	return pages, nil
}

func (adapter *Adapter) gallery(ctx context.Context, id string) (*gallery, error) {
	id = source.StripPrefix(id, constants.SourceNHentai)

	var item gallery
	if err := adapter.client.GetJSON(ctx, adapter.baseURL+"/api/gallery/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	return &item, nil
}

// # Mapping

func (adapter *Adapter) toManga(item gallery) source.Manga {
	coverURL := fmt.Sprintf("%s/%s/cover.%s", thumbnailsURL, item.MediaID, item.Images.Cover.extension())

	tags := make([]string, 0, len(item.Tags))
	artist := source.Unknown
	for _, tag := range item.Tags {
		tags = append(tags, tag.Name)
		if tag.Type == "artist" && artist == source.Unknown {
			artist = tag.Name
		}
	}

	return source.Manga{
		ID:            source.Namespace(constants.SourceNHentai, string(item.ID)),
		Title:         source.FirstNonEmpty(item.Title.English, item.Title.Japanese, item.Title.Pretty),
		Cover:         adapter.rewrite(coverURL),
		Author:        artist,
		Artist:        artist,
		Status:        source.StatusCompleted,
		Genres:        source.Genres(tags...),
		Views:         fmt.Sprintf("%d pages", item.NumPages),
		Description:   fmt.Sprintf("Pages: %d | Favorites: %d", item.NumPages, item.NumFavorites),
		LatestChapter: "1",
		UpdatedAt:     uploadedAt(item),
	}
}

func uploadedAt(item gallery) time.Time {
	if item.UploadDateSec <= 0 {
		return time.Time{}
	}
	return time.Unix(item.UploadDateSec, 0).UTC()
}
