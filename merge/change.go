package merge

import "fmt"

// ChangeKind tags the variant held by a Change
type ChangeKind int

const (
	KindDelete ChangeKind = iota
	KindInsert
	KindMove
)

func (k ChangeKind) String() string {
	switch k {
	case KindDelete:
		return "delete"
	case KindInsert:
		return "insert"
	case KindMove:
		return "move"
	default:
		return "unknown"
	}
}

// Branch identifies which modified sequence a change was detected in
type Branch int

const (
	BranchA Branch = iota
	BranchB
)

func (b Branch) String() string {
	if b == BranchA {
		return "A"
	}
	return "B"
}

// Delete removes Value, which is exactly ancestor[AncestorRange].
// ResultPosition is where the deletion point falls in the modified sequence.
type Delete[T comparable] struct {
	Value          []T
	AncestorRange  Range
	ResultPosition int
}

// Insert splices Value into the ancestor at AncestorPosition.
// ResultRange is where Value sits in the modified sequence.
type Insert[T comparable] struct {
	Value            []T
	AncestorPosition int
	ResultRange      Range
}

// Move is a Delete and an Insert from the same diff recognised as one
// relocated block.
type Move[T comparable] struct {
	From   Delete[T]
	To     Insert[T]
	Origin Branch
}

// Change is a closed union of Delete, Insert and Move. Only the field
// matching Kind is meaningful.
type Change[T comparable] struct {
	Kind   ChangeKind
	Delete Delete[T]
	Insert Insert[T]
	Move   Move[T]
}

// NewDelete builds a delete change. It panics if value does not cover r.
func NewDelete[T comparable](value []T, r Range, resultPosition int) Change[T] {
	if len(value) != r.Len() {
		panic(fmt.Sprintf("merge: delete value has %d elements, range %s has %d", len(value), r, r.Len()))
	}
	return Change[T]{
		Kind:   KindDelete,
		Delete: Delete[T]{Value: value, AncestorRange: r, ResultPosition: resultPosition},
	}
}

// NewInsert builds an insert change. It panics if value does not fill resultRange.
func NewInsert[T comparable](value []T, ancestorPosition int, resultRange Range) Change[T] {
	if len(value) != resultRange.Len() {
		panic(fmt.Sprintf("merge: insert value has %d elements, range %s has %d", len(value), resultRange, resultRange.Len()))
	}
	return Change[T]{
		Kind:   KindInsert,
		Insert: Insert[T]{Value: value, AncestorPosition: ancestorPosition, ResultRange: resultRange},
	}
}

// NewMove pairs a delete and an insert into a move.
func NewMove[T comparable](from Delete[T], to Insert[T], origin Branch) Change[T] {
	if len(from.Value) != from.AncestorRange.Len() || len(to.Value) != to.ResultRange.Len() {
		panic("merge: move built from inconsistent delete/insert")
	}
	return Change[T]{
		Kind: KindMove,
		Move: Move[T]{From: from, To: to, Origin: origin},
	}
}

// AncestorPosition is the sort key of a change in ancestor coordinates.
// A move sorts at its source, not its destination.
func (c Change[T]) AncestorPosition() int {
	switch c.Kind {
	case KindDelete:
		return c.Delete.AncestorRange.Start
	case KindInsert:
		return c.Insert.AncestorPosition
	case KindMove:
		return c.Move.From.AncestorRange.Start
	default:
		panic(fmt.Sprintf("merge: unsupported change kind %d", c.Kind))
	}
}

func (c Change[T]) String() string {
	switch c.Kind {
	case KindDelete:
		return fmt.Sprintf("delete %s (%d elements)", c.Delete.AncestorRange, len(c.Delete.Value))
	case KindInsert:
		return fmt.Sprintf("insert at %d (%d elements)", c.Insert.AncestorPosition, len(c.Insert.Value))
	case KindMove:
		return fmt.Sprintf("move %s to %d (%d elements, from %s)",
			c.Move.From.AncestorRange, c.Move.To.AncestorPosition, len(c.Move.To.Value), c.Move.Origin)
	default:
		return "unknown change"
	}
}
