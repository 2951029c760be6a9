package strings

import (
	"sort"
	"strings"
)

const (
	// MaxSimilarDistance is the largest edit distance Similar accepts
	MaxSimilarDistance = 3
	// MaxSuggestions caps the number of names Similar returns
	MaxSuggestions = 3
)

// Similar returns the candidates closest to target by case-insensitive
// Levenshtein distance, nearest first. Ties keep candidate order.
//
// Example:
//
//	Similar("Bok", []string{"Book", "Shelf", "Box"}) // ["Book", "Box"]
func Similar(target string, candidates []string) []string {
	type match struct {
		value    string
		distance int
	}

	lower := strings.ToLower(target)
	var matches []match
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := Distance(lower, strings.ToLower(c)); d <= MaxSimilarDistance {
			matches = append(matches, match{value: c, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, 0, MaxSuggestions)
	for i := 0; i < len(matches) && i < MaxSuggestions; i++ {
		out = append(out, matches[i].value)
	}
	return out
}

// Distance is the Levenshtein distance between a and b, counted in bytes
func Distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
