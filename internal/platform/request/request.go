// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
query parsing patterns, ensuring consistent handling of optional input.
*/
package requestutil

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

/*
ID retrieves a named URL parameter (namespaced id) from the request.

The value is path-unescaped so both "anilist:30013" and "anilist%3A30013" work.
*/
func ID(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query returns the trimmed value of a query parameter.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
QueryBool parses a boolean query parameter.

Returns:
  - bool: the parsed value, or fallback when the parameter is absent
  - bool: false when the parameter is present but malformed
*/
func QueryBool(request *http.Request, name string, fallback bool) (bool, bool) {
	raw := Query(request, name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, false
	}
	return value, true
}
