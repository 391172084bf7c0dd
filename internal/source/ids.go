// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// Separator joins the segments of a namespaced id.
const Separator = ":"

// uuidRegex matches the canonical 8-4-4-4-12 hex UUID shape (case-insensitive).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUUID reports whether id has the canonical UUID shape.
func IsUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// Namespace prefixes raw with sourceID unless it is already namespaced by it.
func Namespace(sourceID, raw string) string {
	if strings.HasPrefix(raw, sourceID+Separator) {
		return raw
	}
	return sourceID + Separator + raw
}

// IsNamespaced reports whether id carries any "<prefix>:" segment.
func IsNamespaced(id string) bool {
	return strings.Contains(id, Separator)
}

// Prefix returns the namespace segment of id, or "" for a bare id.
func Prefix(id string) string {
	prefix, _, found := strings.Cut(id, Separator)
	if !found {
		return ""
	}
	return prefix
}

// StripPrefix removes the adapter's own "<sourceID>:" prefix from id.
//
// Every adapter calls this before using an id against its upstream, whether or
// not the caller already removed the prefix.
func StripPrefix(id, sourceID string) string {
	return strings.TrimPrefix(id, sourceID+Separator)
}

// SplitQualified splits "<sourceId>:<rawId>" into its parts. Bare ids yield
// fallbackSource and the id unchanged.
func SplitQualified(id, fallbackSource string) (sourceID, rawID string) {
	prefix, rest, found := strings.Cut(id, Separator)
	if !found {
		return fallbackSource, id
	}
	return prefix, rest
}

// # Composite Chapter IDs

// ComposeChapterID builds the three-segment "<sourceId>:<workId>:<locator>" id
// used by text-addressed sources.
func ComposeChapterID(sourceID, workID, locator string) string {
	return sourceID + Separator + workID + Separator + locator
}

// SplitChapterID parses a three-segment chapter id owned by sourceID.
// The locator is returned verbatim; only the owning adapter interprets it.
func SplitChapterID(id, sourceID string) (workID, locator string, ok bool) {
	rest := StripPrefix(id, sourceID)
	workID, locator, found := strings.Cut(rest, Separator)
	if !found || workID == "" || locator == "" || strings.Contains(locator, Separator) {
		return "", "", false
	}
	return workID, locator, true
}

// EncodeLocator turns an arbitrary addressing string (typically an original
// URL) into an opaque token safe for both id segments and URL paths.
func EncodeLocator(raw string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeLocator reverses [EncodeLocator]. Padded standard base64 is accepted as well.
func DecodeLocator(token string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err == nil {
		return string(decoded), nil
	}
	decoded, stdErr := base64.StdEncoding.DecodeString(token)
	if stdErr != nil {
		return "", err
	}
	return string(decoded), nil
}
