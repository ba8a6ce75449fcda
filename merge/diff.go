package merge

import (
	"slices"
	"time"
	"unicode/utf8"

	"merge3/logger"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStrategy computes the changes turning ancestor into modified.
// Implementations must be deterministic and must not retain or mutate inputs.
type DiffStrategy[T comparable] interface {
	Diff(ancestor, modified []T) []Change[T]
}

// OptimalDiff is the default strategy: a minimal insert/delete script from the
// edit-distance table. Memory and time are O(len(ancestor) * len(modified)).
type OptimalDiff[T comparable] struct{}

func (OptimalDiff[T]) Diff(ancestor, modified []T) []Change[T] {
	return changesFromOperations(ancestor, modified, Operations(ancestor, modified, equal[T]))
}

// changesFromOperations coalesces single-element operations into Insert and
// Delete changes. ops must be ordered by ancestor index.
func changesFromOperations[T comparable](ancestor, modified []T, ops []Operation) []Change[T] {
	var changes []Change[T]
	// shift is how far modified positions have drifted from ancestor positions
	shift := 0

	for k := 0; k < len(ops); {
		pos := ops[k].Index
		n := 0
		for k < len(ops) && ops[k].Kind == OpInsert && ops[k].Index == pos {
			n++
			k++
		}
		if n > 0 {
			r := RangeFromLength(pos+shift, n)
			changes = append(changes, NewInsert(slices.Clone(modified[r.Start:r.End]), pos, r))
			shift += n
		}
		if k >= len(ops) {
			break
		}

		pos = ops[k].Index
		n = 0
		for k < len(ops) && ops[k].Kind == OpDelete && ops[k].Index == pos+n {
			n++
			k++
		}
		if n > 0 {
			r := RangeFromLength(pos, n)
			changes = append(changes, NewDelete(slices.Clone(ancestor[r.Start:r.End]), r, pos+shift))
			shift -= n
		}
	}
	return changes
}

// DiffMatchPatch diffs with the Myers-based diff-match-patch algorithm.
// It is much faster than OptimalDiff on long inputs but the script is not
// guaranteed to be minimal. A zero Timeout means no deadline.
type DiffMatchPatch[T comparable] struct {
	Timeout time.Duration
}

// maxInternedElements bounds the number of distinct elements that can be
// mapped onto valid runes (surrogates excluded).
const maxInternedElements = utf8.MaxRune + 1 - (0xE000 - 0xD800)

func (d DiffMatchPatch[T]) Diff(ancestor, modified []T) []Change[T] {
	codes := make(map[T]rune)
	intern := func(seq []T) ([]rune, bool) {
		runes := make([]rune, len(seq))
		for i, el := range seq {
			code, ok := codes[el]
			if !ok {
				if len(codes) >= maxInternedElements {
					return nil, false
				}
				code = runeForIndex(len(codes))
				codes[el] = code
			}
			runes[i] = code
		}
		return runes, true
	}

	text1, ok1 := intern(ancestor)
	text2, ok2 := intern(modified)
	if !ok1 || !ok2 {
		logger.Warn("diff-match-patch: too many distinct elements, falling back to optimal diff")
		return OptimalDiff[T]{}.Diff(ancestor, modified)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = d.Timeout
	diffs := dmp.DiffMainRunes(text1, text2, false)

	var ops []Operation
	i := 0
	for _, diff := range diffs {
		n := utf8.RuneCountInString(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			i += n
		case diffmatchpatch.DiffDelete:
			for range n {
				ops = append(ops, Operation{Index: i, Kind: OpDelete})
				i++
			}
		case diffmatchpatch.DiffInsert:
			for range n {
				ops = append(ops, Operation{Index: i, Kind: OpInsert})
			}
		}
	}
	return changesFromOperations(ancestor, modified, ops)
}

// runeForIndex maps the n-th distinct element onto a valid rune, skipping
// the surrogate block so the text survives string conversion.
func runeForIndex(n int) rune {
	r := rune(n)
	if r >= 0xD800 {
		r += 0xE000 - 0xD800
	}
	return r
}
