// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package anilist adapts the AniList GraphQL API.

AniList is a metadata-only source: it describes titles but serves no chapters,
so the aggregation layer hands its records to the chapter resolver.
*/
package anilist

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shurcooL/graphql"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

// DefaultBaseURL is the GraphQL endpoint.
const DefaultBaseURL = "https://graphql.anilist.co"

const defaultLimit = 20

// Adapter serves AniList.
type Adapter struct {
	client *graphql.Client
}

// New creates the adapter on top of the shared HTTP client. An empty baseURL
// selects [DefaultBaseURL].
func New(client *httpclient.Client, baseURL string) *Adapter {
	return &Adapter{
		client: graphql.NewClient(source.FirstNonEmpty(baseURL, DefaultBaseURL), client.HTTPClient()),
	}
}

// Info implements [source.Adapter].
func (adapter *Adapter) Info() source.Info {
	return source.Info{
		ID:               constants.SourceAniList,
		Name:             "AniList",
		IsNSFW:           false,
		SupportsChapters: false,
	}
}

// # Queries

type media struct {
	ID    int `graphql:"id"`
	Title struct {
		Romaji  string `graphql:"romaji"`
		English string `graphql:"english"`
		Native  string `graphql:"native"`
	} `graphql:"title"`
	CoverImage struct {
		ExtraLarge string `graphql:"extraLarge"`
		Large      string `graphql:"large"`
	} `graphql:"coverImage"`
	Description  string   `graphql:"description"`
	Status       string   `graphql:"status"`
	Genres       []string `graphql:"genres"`
	AverageScore *int     `graphql:"averageScore"`
	Staff        struct {
		Edges []struct {
			Role string `graphql:"role"`
			Node struct {
				Name struct {
					Full string `graphql:"full"`
				} `graphql:"name"`
			} `graphql:"node"`
		} `graphql:"edges"`
	} `graphql:"staff"`
	Chapters  *int  `graphql:"chapters"`
	UpdatedAt int64 `graphql:"updatedAt"`
}

type searchQuery struct {
	Page struct {
		Media []media `graphql:"media(search: $search, type: MANGA, isAdult: $isAdult, sort: POPULARITY_DESC)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type detailsQuery struct {
	Media *media `graphql:"Media(id: $id, type: MANGA)"`
}

// # Operations

// SearchManga implements [source.Adapter]. IncludeNSFW toggles adult titles.
func (adapter *Adapter) SearchManga(ctx context.Context, options source.SearchOptions) ([]source.Manga, error) {
	limit := options.LimitOr(defaultLimit)

	var search *graphql.String
	if options.Query != "" {
		search = graphql.NewString(graphql.String(options.Query))
	}

	var query searchQuery
	variables := map[string]interface{}{
		"search":  search,
		"page":    graphql.Int(options.Page(limit)),
		"perPage": graphql.Int(limit),
		"isAdult": graphql.Boolean(options.IncludeNSFW),
	}
	if err := adapter.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("%w: anilist search: %v", source.ErrNetwork, err)
	}

	results := make([]source.Manga, 0, len(query.Page.Media))
	for _, item := range query.Page.Media {
		results = append(results, toManga(item))
	}
	return results, nil
}

// GetMangaDetails implements [source.Adapter].
func (adapter *Adapter) GetMangaDetails(ctx context.Context, id string) (*source.Manga, error) {
	rawID, err := strconv.Atoi(source.StripPrefix(id, constants.SourceAniList))
	if err != nil {
		return nil, fmt.Errorf("%w: anilist id %q", source.ErrParse, id)
	}

	var query detailsQuery
	variables := map[string]interface{}{"id": graphql.Int(rawID)}
	if err := adapter.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("%w: anilist details: %v", source.ErrNetwork, err)
	}
	if query.Media == nil {
		return nil, nil
	}

	manga := toManga(*query.Media)
	return &manga, nil
}

// GetChapters implements [source.Adapter]. AniList lists no chapters.
func (adapter *Adapter) GetChapters(context.Context, string) ([]source.Chapter, error) {
	return []source.Chapter{}, nil
}

// GetChapterPages implements [source.Adapter]. AniList serves no pages.
func (adapter *Adapter) GetChapterPages(context.Context, string) ([]string, error) {
	return []string{}, nil
}

// # Mapping

func toManga(item media) source.Manga {
	var author, artist string
	for _, edge := range item.Staff.Edges {
		switch edge.Role {
		case "STORY":
			author = source.FirstNonEmpty(author, edge.Node.Name.Full)
		case "ART":
			artist = source.FirstNonEmpty(artist, edge.Node.Name.Full)
		}
	}

	var status source.Status
	switch item.Status {
	case "FINISHED":
		status = source.StatusCompleted
	case "RELEASING":
		status = source.StatusOngoing
	default:
		status = source.StatusHiatus
	}

	var rating float64
	if item.AverageScore != nil {
		rating = float64(*item.AverageScore) / 10
	}

	latest := "?"
	if item.Chapters != nil {
		latest = strconv.Itoa(*item.Chapters)
	}

	var updatedAt time.Time
	if item.UpdatedAt > 0 {
		updatedAt = time.Unix(item.UpdatedAt, 0).UTC()
	}

	return source.Manga{
		ID:            source.Namespace(constants.SourceAniList, strconv.Itoa(item.ID)),
		Title:         source.FirstNonEmpty(item.Title.English, item.Title.Romaji, item.Title.Native),
		Cover:         source.FirstNonEmpty(item.CoverImage.ExtraLarge, item.CoverImage.Large),
		Author:        source.FirstNonEmpty(author, source.Unknown),
		Artist:        source.FirstNonEmpty(artist, source.Unknown),
		Status:        status,
		Genres:        source.Genres(item.Genres...),
		Rating:        rating,
		Views:         "N/A",
		Description:   item.Description,
		LatestChapter: latest,
		UpdatedAt:     updatedAt,
	}
}
