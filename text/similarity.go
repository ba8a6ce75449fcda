package text

import (
	"strings"

	"merge3/merge"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Similarity computes a similarity score between two strings (0.0 to 1.0)
// using Levenshtein ratio: 1 - (levenshtein_distance / max_length).
// Empty strings have 0 similarity with non-empty ones. The diff runs without
// a deadline, so the score does not depend on machine speed.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMain(a, b, false)
	levenshteinDist := dmp.DiffLevenshtein(diffs)

	maxLen := max(len([]rune(a)), len([]rune(b)))
	return 1.0 - float64(levenshteinDist)/float64(maxLen)
}

// LineMoves identifies moved blocks of lines. A block must span at least
// MinLines lines on one side, and the two blocks compared as text must not
// differ by more than MaxDistance. Unlike merge.EditDistanceMoves, a line
// edited inside the block counts by its changed characters, not as a whole
// line.
type LineMoves struct {
	MaxDistance float64
	MinLines    int
}

func (m LineMoves) MoveWeight(del merge.Delete[string], ins merge.Insert[string]) (float64, bool) {
	longest := max(len(del.Value), len(ins.Value))
	if longest == 0 || longest < m.MinLines {
		return 0, false
	}

	distance := 1 - Similarity(strings.Join(del.Value, ""), strings.Join(ins.Value, ""))
	if distance > m.MaxDistance {
		return 0, false
	}
	return distance, true
}
