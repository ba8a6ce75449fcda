package merge

import (
	"slices"

	"merge3/logger"
)

const (
	// DefaultMaxMoveDistance is the largest normalized edit distance at which
	// a delete/insert pair still counts as a move.
	DefaultMaxMoveDistance = 0.2
	// DefaultMinMoveLength is the shortest block eligible for move detection.
	DefaultMinMoveLength = 10
)

// Config selects the strategies of a Merger. Nil fields get defaults.
type Config[T comparable] struct {
	Diff  DiffStrategy[T]
	Moves MoveIdentifier[T]
}

// Merger runs three-way merges with a fixed diff strategy and move
// identifier. It holds no per-merge state and is safe for concurrent use if
// its strategies are.
type Merger[T comparable] struct {
	diff  DiffStrategy[T]
	moves MoveIdentifier[T]
}

// Plan is the reconciled change set of a merge before it is applied.
type Plan[T comparable] struct {
	// Changes are the surviving changes of both branches sorted by ancestor
	// position.
	Changes []Change[T]
	// ChangesA and ChangesB are each branch's diff after move extraction.
	ChangesA []Change[T]
	ChangesB []Change[T]
}

// New creates a Merger from cfg
func New[T comparable](cfg Config[T]) *Merger[T] {
	m := &Merger[T]{diff: cfg.Diff, moves: cfg.Moves}
	if m.diff == nil {
		m.diff = OptimalDiff[T]{}
	}
	if m.moves == nil {
		m.moves = &EditDistanceMoves[T]{MaxDistance: DefaultMaxMoveDistance, MinLength: DefaultMinMoveLength}
	}
	return m
}

// Merge merges a and b, both derived from ancestor, with the default
// strategies.
func Merge[T comparable](ancestor, a, b []T) ([]T, error) {
	return New(Config[T]{}).Merge(ancestor, a, b)
}

// Merge returns the sequence combining the edits of a and b relative to
// ancestor. On conflict it returns a *ConflictError and no sequence.
// None of the inputs are modified.
func (m *Merger[T]) Merge(ancestor, a, b []T) ([]T, error) {
	defer logger.Trace("merge.Merge")()
	return m.merge(ancestor, a, b, 0)
}

// Reconcile diffs both branches, extracts moves and resolves the two change
// lists without applying them.
func (m *Merger[T]) Reconcile(ancestor, a, b []T) (*Plan[T], error) {
	defer logger.Trace("merge.Reconcile")()
	return m.reconcile(ancestor, a, b)
}

func (m *Merger[T]) reconcile(ancestor, a, b []T) (*Plan[T], error) {
	plan := &Plan[T]{
		ChangesA: FindMoves(m.diff.Diff(ancestor, a), BranchA, m.moves),
		ChangesB: FindMoves(m.diff.Diff(ancestor, b), BranchB, m.moves),
	}

	changes, conflicts := Resolve(plan.ChangesA, plan.ChangesB)
	if len(conflicts) > 0 {
		for _, c := range conflicts {
			logger.Debug("conflict: %s", c)
		}
		return nil, &ConflictError[T]{Conflicts: conflicts}
	}
	plan.Changes = changes
	return plan, nil
}

func (m *Merger[T]) merge(ancestor, a, b []T, depth int) ([]T, error) {
	switch {
	case slices.Equal(a, b):
		return slices.Clone(a), nil
	case slices.Equal(ancestor, a):
		return slices.Clone(b), nil
	case slices.Equal(ancestor, b):
		return slices.Clone(a), nil
	}

	plan, err := m.reconcile(ancestor, a, b)
	if err != nil {
		return nil, err
	}
	logger.Debug("merge depth %d: applying %d changes (%d from A, %d from B)",
		depth, len(plan.Changes), len(plan.ChangesA), len(plan.ChangesB))

	ap := &applier[T]{merger: m, depth: depth, ancestor: ancestor, a: a, b: b, plan: plan}
	return ap.run()
}
