// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package aggregate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangabridge/internal/platform/apperr"
	requestutil "github.com/taibuivan/mangabridge/internal/platform/request"
	"github.com/taibuivan/mangabridge/internal/platform/respond"
	"github.com/taibuivan/mangabridge/internal/platform/validate"
	"github.com/taibuivan/mangabridge/internal/source"
	"github.com/taibuivan/mangabridge/pkg/pagination"
	"github.com/taibuivan/mangabridge/pkg/query"
)

const (
	// maxQueryLength bounds the free-text search query.
	maxQueryLength = 200

	fieldQuery  = "q"
	fieldIDs    = "ids"
	fieldSort   = "sort"
	fieldNSFW   = "nsfw"
	fieldSource = "source"
)

// Handler exposes the [Service] over HTTP.
type Handler struct {
	service *Service
	images  http.Handler
}

// NewHandler creates the handler. A nil images handler disables the image proxy route.
func NewHandler(service *Service, images http.Handler) *Handler {
	return &Handler{service: service, images: images}
}

// Routes returns a [chi.Router] with the aggregation endpoints.
//
// Every id-addressed endpoint accepts an optional "source" query parameter
// that bypasses id-based routing.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/sources", handler.listSources)

	router.Get("/manga", handler.searchManga)
	router.Get("/manga/{id}", handler.getManga)
	router.Get("/manga/{id}/chapters", handler.listChapters)

	router.Get("/chapters/{id}/pages", handler.listPages)

	if handler.images != nil {
		router.Method(http.MethodGet, "/images", handler.images)
	}

	return router
}

func (handler *Handler) listSources(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Sources())
}

func (handler *Handler) searchManga(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	searchQuery := requestutil.Query(request, fieldQuery)
	includeNSFW, validNSFW := requestutil.QueryBool(request, fieldNSFW, false)
	values := request.URL.Query()

	validator := &validate.Validator{}
	validator.
		MaxLen(fieldQuery, searchQuery, maxQueryLength).
		Custom(fieldNSFW, !validNSFW, "Must be a boolean")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	options := source.SearchOptions{
		Query:       searchQuery,
		Limit:       paginationParams.Limit,
		Offset:      paginationParams.Offset(),
		IDs:         query.List(values[fieldIDs]),
		Sort:        query.Sort(values[fieldSort]),
		IncludeNSFW: includeNSFW,
	}

	results, err := handler.service.Search(request.Context(), options, requestutil.Query(request, fieldSource))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, pagination.NewMeta(paginationParams, len(results)))
}

func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	manga, err := handler.service.GetMangaDetails(request.Context(), mangaID, requestutil.Query(request, fieldSource))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if manga == nil {
		respond.Error(writer, request, apperr.NotFound("Manga"))
		return
	}

	respond.OK(writer, manga)
}

func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	chapters, err := handler.service.GetChapters(request.Context(), mangaID, requestutil.Query(request, fieldSource))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

func (handler *Handler) listPages(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "id")

	pages, err := handler.service.GetChapterPages(request.Context(), chapterID, requestutil.Query(request, fieldSource))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}
