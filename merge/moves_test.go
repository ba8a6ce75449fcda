package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditDistanceMoves_MoveWeight(t *testing.T) {
	m, err := NewEditDistanceMoves[rune](0.2, 10)
	require.NoError(t, err)

	block := []rune("abcdefghij")
	del := NewDelete(block, RangeFromLength(0, 10), 0).Delete

	weight, ok := m.MoveWeight(del, NewInsert([]rune("abcdefghij"), 20, RangeFromLength(10, 10)).Insert)
	assert.True(t, ok, "identical block is a move")
	assert.Equal(t, 0.0, weight, "identical weight")

	weight, ok = m.MoveWeight(del, NewInsert([]rune("abcdeFghij"), 20, RangeFromLength(10, 10)).Insert)
	assert.True(t, ok, "one edit in ten is a move")
	assert.InDelta(t, 0.1, weight, 1e-9, "one edit weight")

	_, ok = m.MoveWeight(del, NewInsert([]rune("abcXYZghij"), 20, RangeFromLength(10, 10)).Insert)
	assert.False(t, ok, "three edits in ten is not a move")

	short := NewDelete([]rune("abc"), RangeFromLength(0, 3), 0).Delete
	_, ok = m.MoveWeight(short, NewInsert([]rune("abc"), 5, RangeFromLength(2, 3)).Insert)
	assert.False(t, ok, "blocks below the minimum length are not moves")
}

func TestNewEditDistanceMoves_Validation(t *testing.T) {
	_, err := NewEditDistanceMoves[rune](-0.1, 10)
	assert.Error(t, err, "negative distance")

	_, err = NewEditDistanceMoves[rune](1.5, 10)
	assert.Error(t, err, "distance above one")

	_, err = NewEditDistanceMoves[rune](0.5, -1)
	assert.Error(t, err, "negative length")

	m, err := NewEditDistanceMoves[rune](0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.MaxDistance, "max distance")
}

func TestFindMoves_WholeBlock(t *testing.T) {
	ancestor := []rune("aaaaaaaaaabbbbbbbbbb")
	modified := []rune("bbbbbbbbbbaaaaaaaaaa")
	identifier := &EditDistanceMoves[rune]{MaxDistance: 0.2, MinLength: 10}

	changes := FindMoves(OptimalDiff[rune]{}.Diff(ancestor, modified), BranchB, identifier)

	require.Equal(t, 1, len(changes), "delete and insert pair into one move")
	move := changes[0]
	assert.Equal(t, KindMove, move.Kind, "change kind")
	assert.Equal(t, BranchB, move.Move.Origin, "origin")
	assert.Equal(t, NewRange(0, 10), move.Move.From.AncestorRange, "source")
	assert.Equal(t, 20, move.Move.To.AncestorPosition, "destination")
	assert.Equal(t, 0, move.AncestorPosition(), "moves sort at their source")
}

func TestFindMoves_NoMoves(t *testing.T) {
	ancestor := []rune("aaaaaaaaaabbbbbbbbbb")
	modified := []rune("bbbbbbbbbbaaaaaaaaaa")
	diff := OptimalDiff[rune]{}.Diff(ancestor, modified)

	changes := FindMoves(diff, BranchA, NoMoves[rune]{})

	assert.Equal(t, diff, changes, "changes untouched")
}

func TestFindMoves_KeepsUnpairedOrder(t *testing.T) {
	blockDel := NewDelete([]rune("0123456789"), RangeFromLength(0, 10), 0)
	other := NewInsert([]rune("x"), 12, RangeFromLength(2, 1))
	blockIns := NewInsert([]rune("0123456789"), 15, RangeFromLength(5, 10))
	tail := NewDelete([]rune("yz"), RangeFromLength(20, 2), 15)
	identifier := &EditDistanceMoves[rune]{MaxDistance: 0.2, MinLength: 10}

	changes := FindMoves([]Change[rune]{blockDel, other, blockIns, tail}, BranchA, identifier)

	require.Equal(t, 3, len(changes), "two survivors and one move")
	assert.Equal(t, other, changes[0], "first survivor")
	assert.Equal(t, tail, changes[1], "second survivor")
	assert.Equal(t, KindMove, changes[2].Kind, "move appended last")
}

func TestFindMoves_FirstMatchWins(t *testing.T) {
	del := NewDelete([]rune("0123456789"), RangeFromLength(0, 10), 0)
	near := NewInsert([]rune("0123456780"), 12, RangeFromLength(2, 10))
	exact := NewInsert([]rune("0123456789"), 15, RangeFromLength(15, 10))
	identifier := &EditDistanceMoves[rune]{MaxDistance: 0.2, MinLength: 10}

	changes := FindMoves([]Change[rune]{del, near, exact}, BranchA, identifier)

	require.Equal(t, 2, len(changes), "one survivor and one move")
	assert.Equal(t, exact, changes[0], "later exact match left over")
	assert.Equal(t, 12, changes[1].Move.To.AncestorPosition, "first acceptable insert paired")
}
