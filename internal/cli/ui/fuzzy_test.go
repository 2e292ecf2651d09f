package ui

import (
	"reflect"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"user", "usr", 1},
		{"comment", "commet", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			result := levenshtein(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("levenshtein(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"post", "user", "product", "comment", "category"}

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{"close match first", "pst", []string{"post"}},
		{"case-insensitive", "USR", []string{"user"}},
		{"nothing close", "zzzzzzzzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, candidates)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestFindSimilarCapsSuggestions(t *testing.T) {
	candidates := []string{"tag1", "tag2", "tag3", "tag4", "tag5"}
	result := FindSimilar("tag", candidates)
	if len(result) != 3 {
		t.Errorf("expected at most 3 suggestions, got %d", len(result))
	}
}
