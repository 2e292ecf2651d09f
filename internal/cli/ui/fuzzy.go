package ui

import (
	"sort"
	"strings"
)

const (
	maxSuggestionDistance = 3
	maxSuggestions        = 3
)

type suggestion struct {
	value    string
	distance int
}

// FindSimilar returns up to three candidates within a small edit distance
// of target, closest first. Matching is case-insensitive. Used to suggest
// registered schema types and field names when a CLI argument has a typo.
func FindSimilar(target string, candidates []string) []string {
	lowered := strings.ToLower(target)

	var close []suggestion
	for _, candidate := range candidates {
		dist := levenshtein(lowered, strings.ToLower(candidate))
		if dist <= maxSuggestionDistance {
			close = append(close, suggestion{value: candidate, distance: dist})
		}
	}

	sort.Slice(close, func(i, j int) bool {
		return close[i].distance < close[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(close) && i < maxSuggestions; i++ {
		result = append(result, close[i].value)
	}
	return result
}

// levenshtein is the minimum number of single-character edits turning s1
// into s2.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func min(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
