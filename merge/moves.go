package merge

import (
	"fmt"

	"merge3/logger"
)

// MoveIdentifier decides whether a delete and an insert from the same diff
// are one relocated block. It returns a similarity weight (lower is more
// similar) and true for a move, or false otherwise.
type MoveIdentifier[T comparable] interface {
	MoveWeight(del Delete[T], ins Insert[T]) (float64, bool)
}

// EditDistanceMoves treats a delete/insert pair as a move when the longer of
// the two values has at least MinLength elements and their normalized edit
// distance is at most MaxDistance.
type EditDistanceMoves[T comparable] struct {
	MaxDistance float64
	MinLength   int
}

// NewEditDistanceMoves validates the thresholds and returns the identifier.
func NewEditDistanceMoves[T comparable](maxDistance float64, minLength int) (*EditDistanceMoves[T], error) {
	if maxDistance < 0 || maxDistance > 1 {
		return nil, fmt.Errorf("max move distance %v must be within [0, 1]", maxDistance)
	}
	if minLength < 0 {
		return nil, fmt.Errorf("min move length %d must not be negative", minLength)
	}
	return &EditDistanceMoves[T]{MaxDistance: maxDistance, MinLength: minLength}, nil
}

func (m *EditDistanceMoves[T]) MoveWeight(del Delete[T], ins Insert[T]) (float64, bool) {
	longest := max(len(del.Value), len(ins.Value))
	if longest < m.MinLength || longest == 0 {
		return 0, false
	}

	dist := NormalizedDistance(del.Value, ins.Value, true)
	if dist > m.MaxDistance {
		return 0, false
	}
	return dist, true
}

// NoMoves never reports a move, leaving every delete and insert unpaired.
type NoMoves[T comparable] struct{}

func (NoMoves[T]) MoveWeight(Delete[T], Insert[T]) (float64, bool) {
	return 0, false
}

// FindMoves pairs deletes with inserts from one branch's diff. Pairs are
// scanned greedily in diff order and the first pair the identifier accepts
// wins; this is not a minimum-cost matching. Unpaired changes keep their
// order and moves are appended after them.
func FindMoves[T comparable](changes []Change[T], origin Branch, identifier MoveIdentifier[T]) []Change[T] {
	var deletes, inserts []int
	for i, c := range changes {
		switch c.Kind {
		case KindDelete:
			deletes = append(deletes, i)
		case KindInsert:
			inserts = append(inserts, i)
		}
	}

	paired := make([]bool, len(changes))
	var moves []Change[T]
	for _, di := range deletes {
		for _, ii := range inserts {
			if paired[ii] {
				continue
			}
			del, ins := changes[di].Delete, changes[ii].Insert
			weight, ok := identifier.MoveWeight(del, ins)
			if !ok {
				continue
			}
			logger.Debug("move detected in %s: %s to %d (weight %.3f)", origin, del.AncestorRange, ins.AncestorPosition, weight)
			moves = append(moves, NewMove(del, ins, origin))
			paired[di] = true
			paired[ii] = true
			break
		}
	}

	result := make([]Change[T], 0, len(changes)-len(moves))
	for i, c := range changes {
		if !paired[i] {
			result = append(result, c)
		}
	}
	return append(result, moves...)
}
