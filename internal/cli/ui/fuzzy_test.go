package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Point", "Point", 0},
		{"Pont", "Point", 1},
		{"naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Point", "Point3", "Line", "Polygon"}

	tests := []struct {
		name   string
		target string
		opts   *FuzzyMatchOptions
		want   []string
	}{
		{name: "closest first", target: "Pont", want: []string{"Point", "Point3", "Line"}},
		{name: "case insensitive", target: "point", want: []string{"Point", "Point3", "Line"}},
		{
			name:   "case sensitive",
			target: "point",
			opts:   &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1},
			want:   []string{"Point"},
		},
		{
			name:   "limit",
			target: "Pont",
			opts:   &FuzzyMatchOptions{MaxSuggestions: 1},
			want:   []string{"Point"},
		},
		{name: "nothing close", target: "Rectangle", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSimilar(tt.target, candidates, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindSimilar(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestFindBestMatch(t *testing.T) {
	if got := FindBestMatch("lne", []string{"Point", "Line"}, nil); got != "Line" {
		t.Errorf("expected Line, got %q", got)
	}
	if got := FindBestMatch("zzzzzz", []string{"Point", "Line"}, nil); got != "" {
		t.Errorf("expected no match, got %q", got)
	}
}
