// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangabridge/internal/platform/httpclient"
	"github.com/taibuivan/mangabridge/internal/source"
)

/*
TestGetJSON decodes bodies and forwards headers, query and cookies.
*/
func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mangabridge-test", r.UserAgent())
		assert.Equal(t, []string{"author", "cover_art"}, r.URL.Query()["includes[]"])
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		cookie, err := r.Cookie("view_adult")
		assert.NoError(t, err)
		if cookie != nil {
			assert.Equal(t, "true", cookie.Value)
		}
		_, _ = w.Write([]byte(`{"title": "Chainsaw Man"}`))
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{UserAgent: "mangabridge-test"})

	var body struct {
		Title string `json:"title"`
	}
	err := client.GetJSON(context.Background(), server.URL, &body,
		httpclient.WithQuery(url.Values{"includes[]": {"author", "cover_art"}}),
		httpclient.WithHeader("X-Extra", "yes"),
		httpclient.WithCookie("view_adult", "true"),
	)

	require.NoError(t, err)
	assert.Equal(t, "Chainsaw Man", body.Title)
}

/*
TestErrorTaxonomy maps status failures to ErrNetwork and bad bodies to ErrParse.
*/
func TestErrorTaxonomy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{not json`))
		}
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{})
	var target map[string]any

	err := client.GetJSON(context.Background(), server.URL+"/missing?key=secret", &target)
	require.ErrorIs(t, err, source.ErrNetwork)
	assert.NotContains(t, err.Error(), "secret")

	err = client.GetJSON(context.Background(), server.URL+"/broken", &target)
	assert.ErrorIs(t, err, source.ErrParse)
}

/*
TestRetryOnServerError retries 5xx responses up to the configured count.
*/
func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{RetryCount: 2})

	body, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.EqualValues(t, 2, calls.Load())
}

/*
TestPostDocument sends a form and parses the HTML response.
*/
func TestPostDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "wi_getreleases_pagination", r.PostForm.Get("action"))
		_, _ = w.Write([]byte(`<ol><li class="toc_w"><a href="/c/1">One</a></li></ol>`))
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{})

	document, err := client.PostDocument(context.Background(), server.URL,
		httpclient.WithForm(map[string]string{"action": "wi_getreleases_pagination"}))

	require.NoError(t, err)
	assert.Equal(t, "One", document.Find("li.toc_w a").Text())
}

/*
TestStream leaves the body open for the caller.
*/
func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{})

	response, err := client.Stream(context.Background(), server.URL+"/image.png")
	require.NoError(t, err)
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", response.Header.Get("Content-Type"))

	_, err = client.Stream(context.Background(), server.URL+"/gone")
	assert.ErrorIs(t, err, source.ErrNetwork)
}
