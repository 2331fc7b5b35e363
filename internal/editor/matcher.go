// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultSuggestThreshold is the minimum similarity Suggest accepts.
const DefaultSuggestThreshold = 0.6

// Suggest returns the candidate closest to name for "did you mean"
// diagnostics, or "" when none reaches threshold. Ties go to the earlier
// candidate.
func Suggest(name string, candidates []string, threshold float64) string {
	dmp := diffmatchpatch.New()
	best, bestScore := "", threshold
	for _, c := range candidates {
		score := similarity(dmp, name, c)
		if score > bestScore || (best == "" && score == bestScore) {
			best, bestScore = c, score
		}
	}
	return best
}

// similarity is 1 minus the Levenshtein distance over the longer length,
// in runes. Identical strings score 1, disjoint ones 0.
func similarity(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	distance := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
	return 1 - float64(distance)/float64(longest)
}
