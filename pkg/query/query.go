// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-shaped URL query parameters.
package query

import (
	"strings"
)

// List flattens repeated and comma-separated values ("?ids=a,b&ids=c") into a
// trimmed slice. Empty entries are dropped.
func List(values []string) []string {
	var res []string
	for _, value := range values {
		for _, v := range strings.Split(value, ",") {
			if clean := strings.TrimSpace(v); clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}

// Sort parses "field:dir" pairs ("?sort=rating:desc,title") into a field to
// direction map. A missing or unknown direction means "desc".
func Sort(values []string) map[string]string {
	pairs := List(values)
	if len(pairs) == 0 {
		return nil
	}

	res := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, direction, _ := strings.Cut(pair, ":")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		direction = strings.ToLower(strings.TrimSpace(direction))
		if direction != "asc" {
			direction = "desc"
		}
		res[field] = direction
	}
	return res
}
