// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fuzzy ranks candidate records against a free-text query by weighted
field similarity.

Scores are distances in [0, 1]: 0 is an identical match, 1 is unrelated.
A candidate is kept when its score is less than or equal to the threshold
(the cutoff itself is accepted).

# Scoring

For every weighted key the field value and the query are normalized (accents
removed, lower-cased, punctuation collapsed to single spaces) and compared in
two ways, keeping the better result:

  - Full: Levenshtein distance divided by the longer length.
  - Partial: when the query is shorter, the best Levenshtein distance against
    any equally long window of the field, divided by the query length, plus a
    penalty proportional to the unmatched share of the field. A field that
    merely contains the query therefore never scores 0.

The key distance is divided by the key weight and the item score is the
lowest key score, clamped to 1. Weights below 1 therefore make a key less
influential.
*/
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// partialPenalty is the score added when the query covers none of the field.
const partialPenalty = 0.2

// Key selects one weighted field of a candidate.
type Key[T any] struct {
	Name   string
	Weight float64
	Value  func(T) string
}

// Match is one accepted candidate.
type Match[T any] struct {
	Item  T
	Index int     // Position in the input slice
	Score float64 // 0 = identical
	Key   string  // Name of the best scoring key
}

// Rank scores every candidate against query and returns those scoring at or
// below threshold, best first. Ties keep input order.
func Rank[T any](query string, candidates []T, keys []Key[T], threshold float64) []Match[T] {
	normalizedQuery := Normalize(query)
	matches := make([]Match[T], 0, len(candidates))

	for index, candidate := range candidates {
		score, key := scoreItem(normalizedQuery, candidate, keys)
		if score > threshold {
			continue
		}
		matches = append(matches, Match[T]{Item: candidate, Index: index, Score: score, Key: key})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches
}

// Best returns the top ranked match, or false when nothing clears threshold.
func Best[T any](query string, candidates []T, keys []Key[T], threshold float64) (Match[T], bool) {
	matches := Rank(query, candidates, keys, threshold)
	if len(matches) == 0 {
		return Match[T]{}, false
	}
	return matches[0], true
}

func scoreItem[T any](query string, candidate T, keys []Key[T]) (float64, string) {
	best, bestKey := 1.0, ""

	for _, key := range keys {
		if key.Weight <= 0 || key.Value == nil {
			continue
		}
		value := Normalize(key.Value(candidate))
		if value == "" {
			continue
		}
		score := distance(query, value)
		if key.Weight != 1 {
			score /= key.Weight
		}
		if bestKey == "" || score < best {
			best, bestKey = score, key.Name
		}
	}

	return math.Min(best, 1), bestKey
}

// Distance returns the normalized distance between a and b in [0, 1].
func Distance(a, b string) float64 {
	return distance(Normalize(a), Normalize(b))
}

func distance(query, target string) float64 {
	if query == target {
		return 0
	}
	if query == "" || target == "" {
		return 1
	}

	queryRunes, targetRunes := []rune(query), []rune(target)
	longest := max(len(queryRunes), len(targetRunes))
	best := float64(levenshtein.ComputeDistance(query, target)) / float64(longest)

	// Partial window matching lets "chainsaw man" hit "chainsaw man colored"
	if len(queryRunes) < len(targetRunes) {
		width := len(queryRunes)
		penalty := partialPenalty * (1 - float64(width)/float64(len(targetRunes)))
		for start := 0; start+width <= len(targetRunes) && best > penalty; start++ {
			window := string(targetRunes[start : start+width])
			partial := float64(levenshtein.ComputeDistance(query, window))/float64(width) + penalty
			best = math.Min(best, partial)
		}
	}

	return math.Min(best, 1)
}

// # Normalization

// Normalize folds s for comparison: accents stripped, lower-cased, every run of
// non alphanumeric characters reduced to one space.
func Normalize(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMn)), s)
	if err != nil {
		folded = s
	}

	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)

	return strings.Join(strings.Fields(folded), " ")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
