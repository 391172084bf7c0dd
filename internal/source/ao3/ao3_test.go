// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ao3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
	"github.com/taibuivan/mangabridge/internal/source/ao3"
)

func requireConsent(t *testing.T, r *http.Request) {
	cookie, err := r.Cookie("view_adult")
	if assert.NoError(t, err) {
		assert.Equal(t, "true", cookie.Value)
	}
}

func newAdapter(t *testing.T) *ao3.Adapter {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /works/search", func(w http.ResponseWriter, r *http.Request) {
		requireConsent(t, r)
		assert.Equal(t, "time loop", r.URL.Query().Get("work_search[query]"))
		_, _ = w.Write([]byte(`<ol>
			<li class="work blurb"><h4 class="heading"><a href="/works/100">Loop</a> by <a rel="author" href="/users/me">me</a></h4></li>
			<li class="work blurb"><h4 class="heading"><a href="/works/200">Anon Work</a></h4></li>
		</ol>`))
	})
	mux.HandleFunc("GET /works/100/navigate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<ol class="chapter index">
			<li><a href="/works/100/chapters/555">1. Start</a> <span class="datetime">(2020-05-01)</span></li>
			<li><a href="/works/100/chapters/556">2. End</a></li>
		</ol>`))
	})
	mux.HandleFunc("GET /works/200/navigate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p>oneshot</p>`))
	})
	mux.HandleFunc("GET /works/200", func(w http.ResponseWriter, r *http.Request) {
		requireConsent(t, r)
		_, _ = w.Write([]byte(`<h2 class="title">Anon Work</h2><div id="chapters"><div class="userstuff"><p>Whole text</p></div></div>`))
	})
	mux.HandleFunc("GET /works/100/chapters/555", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div id="chapters"><div class="userstuff"><p>Chapter one text</p></div></div>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return ao3.New(httpclient.New(httpclient.Options{}), server.URL)
}

/*
TestSearchManga verifies author fallback and consent cookie.
*/
func TestSearchManga(t *testing.T) {
	adapter := newAdapter(t)

	results, err := adapter.SearchManga(context.Background(), source.SearchOptions{Query: "time loop"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ao3:100", results[0].ID)
	assert.Equal(t, "me", results[0].Author)
	assert.Equal(t, "Anonymous", results[1].Author)
}

/*
TestGetChapters covers indexed works and the single chapter fallback.
*/
func TestGetChapters(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)

	// 1. Indexed work
	chapters, err := adapter.GetChapters(ctx, "ao3:100")
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "ao3:100:555", chapters[0].ID)
	assert.Equal(t, 2020, chapters[0].Date.Year())

	pages, err := adapter.GetChapterPages(ctx, chapters[0].ID)
	require.NoError(t, err)
	assert.Contains(t, pages[0], "Chapter one text")

	// 2. Oneshot falls back to the full work
	chapters, err = adapter.GetChapters(ctx, "ao3:200")
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "ao3:200:"+ao3.FullWorkLocator, chapters[0].ID)
	assert.Equal(t, "Full Work", chapters[0].Title)

	pages, err = adapter.GetChapterPages(ctx, chapters[0].ID)
	require.NoError(t, err)
	assert.Contains(t, pages[0], "Whole text")
}
