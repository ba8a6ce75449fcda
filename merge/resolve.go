package merge

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// resolution is the outcome of classifying one (first, second) change pair.
// Messages name the first operand [A] and the second [B].
type resolution[T comparable] struct {
	dropFirst  bool
	dropSecond bool
	fuse       bool // both are deletes; the first absorbs the second
	conflicts  []string
}

var swapTags = strings.NewReplacer("[A]", "[B]", "[B]", "[A]")

// mirrored converts the resolution of (b, a) into the resolution of (a, b).
func (r resolution[T]) mirrored() resolution[T] {
	out := resolution[T]{dropFirst: r.dropSecond, dropSecond: r.dropFirst}
	if r.fuse {
		panic("merge: fused resolution cannot be mirrored")
	}
	for _, msg := range r.conflicts {
		out.conflicts = append(out.conflicts, swapTags.Replace(msg))
	}
	return out
}

func conflictOf[T comparable](messages ...string) resolution[T] {
	return resolution[T]{conflicts: messages}
}

// resolvePair classifies a change from branch A against one from branch B.
func resolvePair[T comparable](a, b Change[T]) resolution[T] {
	switch {
	case a.Kind == KindDelete && b.Kind == KindDelete:
		return resolveDeleteDelete(a.Delete, b.Delete)
	case a.Kind == KindDelete && b.Kind == KindInsert:
		return resolveDeleteInsert[T](a.Delete, b.Insert)
	case a.Kind == KindDelete && b.Kind == KindMove:
		return resolveDeleteMove[T](a.Delete, b.Move)

	case a.Kind == KindInsert && b.Kind == KindDelete:
		return resolveDeleteInsert[T](b.Delete, a.Insert).mirrored()
	case a.Kind == KindInsert && b.Kind == KindInsert:
		return resolveInsertInsert[T](a.Insert, b.Insert)
	case a.Kind == KindInsert && b.Kind == KindMove:
		return resolveInsertMove[T](a.Insert, b.Move)

	case a.Kind == KindMove && b.Kind == KindDelete:
		return resolveDeleteMove[T](b.Delete, a.Move).mirrored()
	case a.Kind == KindMove && b.Kind == KindInsert:
		return resolveInsertMove[T](b.Insert, a.Move).mirrored()
	case a.Kind == KindMove && b.Kind == KindMove:
		return resolveMoveMove[T](a.Move, b.Move)
	}
	panic(fmt.Sprintf("merge: unsupported change kinds %s/%s", a.Kind, b.Kind))
}

// Overlapping deletes fuse into one delete over the union of both ranges.
func resolveDeleteDelete[T comparable](a, b Delete[T]) resolution[T] {
	if !a.AncestorRange.OverlapsWith(b.AncestorRange) {
		return resolution[T]{}
	}
	return resolution[T]{fuse: true, dropSecond: true}
}

func fuseDeletes[T comparable](a, b Delete[T]) Change[T] {
	r := Join(a.AncestorRange, b.AncestorRange)
	value := make([]T, r.Len())
	copy(value[a.AncestorRange.Start-r.Start:], a.Value)
	copy(value[b.AncestorRange.Start-r.Start:], b.Value)
	resultPosition := a.ResultPosition
	if b.AncestorRange.Start < a.AncestorRange.Start {
		resultPosition = b.ResultPosition
	}
	return NewDelete(value, r, resultPosition)
}

func resolveDeleteInsert[T comparable](a Delete[T], b Insert[T]) resolution[T] {
	if a.AncestorRange.ContainsPosition(b.AncestorPosition, false) {
		return conflictOf[T]("[A] is deleting text that [B] is inserting into.")
	}
	return resolution[T]{}
}

// A delete fully inside the move source is left to the recursive merge of
// the moved block.
func resolveDeleteMove[T comparable](a Delete[T], b Move[T]) resolution[T] {
	var out resolution[T]
	source := b.From.AncestorRange

	switch {
	case a.AncestorRange.Contains(source, false):
		out.conflicts = append(out.conflicts, "[A] is deleting text that [B] is moving.")
	case !source.Contains(a.AncestorRange, true) && a.AncestorRange.OverlapsWith(source):
		out.conflicts = append(out.conflicts, "[B] is moving only part of some text that [A] is deleting.")
	}

	if a.AncestorRange.ContainsPosition(b.To.AncestorPosition, false) {
		out.conflicts = append(out.conflicts, "[A] is deleting text that [B] is moving text into.")
	}
	return out
}

// Inserts at the same point collide unless they insert the same value.
func resolveInsertInsert[T comparable](a, b Insert[T]) resolution[T] {
	if a.AncestorPosition != b.AncestorPosition {
		return resolution[T]{}
	}
	if slices.Equal(a.Value, b.Value) {
		return resolution[T]{dropSecond: true}
	}
	return conflictOf[T]("[A] && [B] are inserting text at the same location.")
}

func resolveInsertMove[T comparable](a Insert[T], b Move[T]) resolution[T] {
	if a.AncestorPosition != b.To.AncestorPosition {
		return resolution[T]{}
	}
	if slices.Equal(a.Value, b.To.Value) {
		return resolution[T]{dropFirst: true}
	}
	return conflictOf[T]("[A] is inserting text at the same location that [B] is moving text to.")
}

func resolveMoveMove[T comparable](a, b Move[T]) resolution[T] {
	var out resolution[T]
	sa, sb := a.From.AncestorRange, b.From.AncestorRange
	if sa.OverlapsWith(sb) && !sa.Contains(sb, true) && !sb.Contains(sa, true) {
		out.conflicts = append(out.conflicts, "A text move by [A] overlaps with a text move by [B].")
	}
	if a.To.AncestorPosition == b.To.AncestorPosition {
		out.conflicts = append(out.conflicts, "[A] && [B] are moving text to the same location.")
	} else if sa == sb {
		out.conflicts = append(out.conflicts, "[A] && [B] are moving the same text to different locations.")
	}
	return out
}

// Resolve classifies every (A, B) change pair. Pairs are always classified
// on the changes as diffed, so a fused delete never shadows the branch's own
// neighbouring edits, and a delete absorbed by fusion is still checked for
// conflicts against the rest of A. Conflicts are collected over the whole
// pass; when there are none the surviving changes of both branches are
// returned sorted by ancestor position, A's before B's on ties.
func Resolve[T comparable](changesA, changesB []Change[T]) ([]Change[T], []Conflict[T]) {
	result := slices.Clone(changesA)
	droppedA := make([]bool, len(changesA))
	droppedB := make([]bool, len(changesB))
	absorbedB := make([]bool, len(changesB))

	var conflicts []Conflict[T]
	for i, a := range changesA {
		for j, b := range changesB {
			if droppedB[j] && !absorbedB[j] {
				continue
			}
			r := resolvePair(a, b)
			for _, msg := range r.conflicts {
				conflicts = append(conflicts, Conflict[T]{A: a, B: b, Message: msg})
			}
			if absorbedB[j] {
				continue
			}
			if r.fuse {
				result[i] = fuseDeletes(result[i].Delete, b.Delete)
				absorbedB[j] = true
			}
			if r.dropSecond {
				droppedB[j] = true
			}
			if r.dropFirst {
				droppedA[i] = true
				break
			}
		}
	}
	if len(conflicts) > 0 {
		return nil, conflicts
	}

	keptA := lo.Filter(result, func(_ Change[T], i int) bool { return !droppedA[i] })
	keptB := lo.Filter(changesB, func(_ Change[T], j int) bool { return !droppedB[j] })

	merged := append(keptA, keptB...)
	slices.SortStableFunc(merged, func(x, y Change[T]) int {
		return cmp.Compare(x.AncestorPosition(), y.AncestorPosition())
	})
	return fuseOverlappingDeletes(merged), nil
}

// fuseOverlappingDeletes joins deletes that still overlap after resolution,
// which happens when one delete from A was absorbed into another and a
// second A delete overlaps the absorbed one. changes must be sorted.
func fuseOverlappingDeletes[T comparable](changes []Change[T]) []Change[T] {
	out := make([]Change[T], 0, len(changes))
	open := -1
	for _, c := range changes {
		if c.Kind != KindDelete {
			out = append(out, c)
			continue
		}
		if open >= 0 && out[open].Delete.AncestorRange.OverlapsWith(c.Delete.AncestorRange) {
			out[open] = fuseDeletes(out[open].Delete, c.Delete)
			continue
		}
		out = append(out, c)
		open = len(out) - 1
	}
	return out
}
