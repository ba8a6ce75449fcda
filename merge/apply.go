package merge

import (
	"fmt"
	"slices"

	"merge3/logger"
)

// applier replays a reconciled plan onto a copy of the ancestor.
type applier[T comparable] struct {
	merger *Merger[T]
	depth  int

	ancestor, a, b []T
	plan           *Plan[T]

	buf   []T
	joint *Offsets
}

func (ap *applier[T]) run() ([]T, error) {
	ap.buf = slices.Clone(ap.ancestor)
	ap.joint = NewOffsets()

	var moves []Move[T]
	for _, c := range ap.plan.Changes {
		switch c.Kind {
		case KindDelete:
			ap.remove(c.Delete.AncestorRange)
		case KindInsert:
			ap.insert(c.Insert.AncestorPosition, c.Insert.Value)
		case KindMove:
			moves = append(moves, c.Move)
		default:
			panic(fmt.Sprintf("merge: unsupported change kind %d", c.Kind))
		}
	}

	for _, m := range moves {
		ap.remove(m.From.AncestorRange)
	}

	if len(moves) == 0 {
		return ap.buf, nil
	}
	offsetsA := BranchOffsets(ap.plan.ChangesA)
	offsetsB := BranchOffsets(ap.plan.ChangesB)

	for _, m := range moves {
		source := m.From.AncestorRange
		aSlice, bSlice := m.To.Value, m.To.Value
		if m.Origin == BranchA {
			bSlice = slice(ap.b, offsetsB.TranslateRange(source))
		} else {
			aSlice = slice(ap.a, offsetsA.TranslateRange(source))
		}

		logger.Debug("merge depth %d: merging block moved by %s from %s to %d", ap.depth, m.Origin, source, m.To.AncestorPosition)
		block, err := ap.merger.merge(m.From.Value, aSlice, bSlice, ap.depth+1)
		if err != nil {
			return nil, fmt.Errorf("failed to merge block moved from %s: %w", source, err)
		}
		ap.insert(m.To.AncestorPosition, block)
	}
	return ap.buf, nil
}

// remove deletes the current image of the ancestor range r.
func (ap *applier[T]) remove(r Range) {
	current := clamp(ap.joint.TranslateRange(r), len(ap.buf))
	ap.buf = slices.Delete(ap.buf, current.Start, current.End)
	ap.joint.AddDeletion(r.End, current.Len())
}

// insert splices value in at the current image of ancestor position pos.
func (ap *applier[T]) insert(pos int, value []T) {
	at := min(max(ap.joint.Translate(pos), 0), len(ap.buf))
	ap.buf = slices.Insert(ap.buf, at, value...)
	ap.joint.AddInsertion(pos, len(value))
}

func clamp(r Range, n int) Range {
	start := min(max(r.Start, 0), n)
	end := min(max(r.End, start), n)
	return Range{Start: start, End: end}
}

// slice returns a copy of seq[r], with r clamped to seq.
func slice[T any](seq []T, r Range) []T {
	r = clamp(r, len(seq))
	return slices.Clone(seq[r.Start:r.End])
}
