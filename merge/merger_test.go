package merge

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergeStrings(ancestor, a, b string) (string, error) {
	out, err := Merge([]rune(ancestor), []rune(a), []rune(b))
	return string(out), err
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		ancestor     string
		a            string
		b            string
		expected     string
		wantConflict bool
	}{
		{name: "identity", ancestor: "test", a: "test", b: "test", expected: "test"},
		{name: "one-sided edit", ancestor: "test", a: "hest", b: "test", expected: "hest"},
		{name: "edits at different positions", ancestor: "test", a: "vest", b: "tast", expected: "vast"},
		{name: "edit and elongation", ancestor: "test", a: "fest", b: "tester", expected: "fester"},
		{name: "edit and trailing deletion", ancestor: "test", a: "vest", b: "tes", expected: "ves"},
		{name: "disjoint deletions", ancestor: "test", a: "te", b: "st", expected: ""},
		{
			name:     "whole block move",
			ancestor: "aaaaaaaaaabbbbbbbbbb",
			a:        "aaaaaaaaaabbbbbbbbbb",
			b:        "bbbbbbbbbbaaaaaaaaaa",
			expected: "bbbbbbbbbbaaaaaaaaaa",
		},
		{
			name:     "move plus edit inside moved block",
			ancestor: "aaaaaaaaaabbbbbbbbbb",
			a:        "aaaaaaaaaabbbbccbbbb",
			b:        "bbbbbbbbbbaaaaaaaaaa",
			expected: "bbbbccbbbbaaaaaaaaaa",
		},
		{name: "same character replaced differently", ancestor: "test", a: "hest", b: "vest", wantConflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mergeStrings(tt.ancestor, tt.a, tt.b)
			if tt.wantConflict {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConflict), "conflict error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got, "merged text")
		})
	}
}

func TestMerge_ConflictReport(t *testing.T) {
	_, err := mergeStrings("test", "hest", "vest")

	var conflictErr *ConflictError[rune]
	require.True(t, errors.As(err, &conflictErr), "typed conflict error")
	assert.NotEmpty(t, conflictErr.Conflicts, "conflicts reported")

	messages := make([]string, len(conflictErr.Conflicts))
	for i, c := range conflictErr.Conflicts {
		messages[i] = c.Message
	}
	assert.Contains(t, messages, "[A] && [B] are inserting text at the same location.", "insert collision reported")
	assert.True(t, strings.HasSuffix(strings.SplitN(err.Error(), ":", 2)[0], "merge conflicts"), "error summary")
}

func TestMerge_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "test", "the quick brown fox", "aaaaaaaaaabbbbbbbbbb"} {
		got, err := mergeStrings(s, s, s)
		require.NoError(t, err)
		assert.Equal(t, s, got, "merge(x, x, x)")
	}
}

func TestMerge_OneSided(t *testing.T) {
	pairs := [][2]string{
		{"test", "hest"},
		{"", "inserted"},
		{"deleted", ""},
		{"the quick brown fox", "a quick red fox jumps"},
	}
	for _, p := range pairs {
		got, err := mergeStrings(p[0], p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, p[1], got, "merge(x, x, y)")

		got, err = mergeStrings(p[0], p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, p[1], got, "merge(x, y, x)")
	}
}

func TestMerge_DuplicateInsertAppliedOnce(t *testing.T) {
	got, err := mergeStrings("abc", "abXc", "abXcd")

	require.NoError(t, err)
	assert.Equal(t, "abXcd", got, "shared insert kept once")
}

func TestMerge_MovedBlockPicksUpOtherBranchEdit(t *testing.T) {
	ancestor := "ABCDEFGHIJklmnopqrstuvw"
	a := "ABCDeFGHIJKlmnopqrstuvw"
	b := "klmnopqrstuvwABCDEFGHIJ"

	got, err := mergeStrings(ancestor, a, b)

	require.NoError(t, err)
	assert.Equal(t, "KlmnopqrstuvwABCDeFGHIJ", got, "edits follow the moved block")

	got, err = mergeStrings(ancestor, b, a)
	require.NoError(t, err)
	assert.Equal(t, "KlmnopqrstuvwABCDeFGHIJ", got, "branch order does not matter")
}

func TestMerge_ConflictInsideMovedBlock(t *testing.T) {
	ancestor := "ABCDEFGHIJklmnopqrstuvw"
	a := "klmnopqrstuvwABCDeFGHIJ"
	b := "ABCDXFGHIJklmnopqrstuvw"

	_, err := mergeStrings(ancestor, a, b)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict), "sub-merge conflict fails the merge")
	assert.Contains(t, err.Error(), "moved from [0, 10)", "error names the moved block")
}

func TestMerge_BlockMovedToTwoPlacesConflicts(t *testing.T) {
	const tail = "abcdefghijklmnopqrstuvwxyzABCD"
	ancestor := block + tail
	a := tail[:15] + block + tail[15:]
	b := tail + block

	for _, order := range [][2]string{{a, b}, {b, a}} {
		_, err := mergeStrings(ancestor, order[0], order[1])

		require.Error(t, err)
		var conflictErr *ConflictError[rune]
		require.True(t, errors.As(err, &conflictErr), "conflict error")
		messages := make([]string, len(conflictErr.Conflicts))
		for i, c := range conflictErr.Conflicts {
			messages[i] = c.Message
		}
		assert.Contains(t, messages, "[A] && [B] are moving the same text to different locations.", "block is not dropped")
	}
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	ancestor := []rune("aaaaaaaaaabbbbbbbbbb")
	a := []rune("aaaaaaaaaabbbbccbbbb")
	b := []rune("bbbbbbbbbbaaaaaaaaaa")

	_, err := Merge(ancestor, a, b)

	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaabbbbbbbbbb", string(ancestor), "ancestor")
	assert.Equal(t, "aaaaaaaaaabbbbccbbbb", string(a), "a")
	assert.Equal(t, "bbbbbbbbbbaaaaaaaaaa", string(b), "b")
}

func TestMerge_Lines(t *testing.T) {
	ancestor := []string{"package main", "", "func a() {}", "", "func b() {}"}
	a := []string{"package main", "", "func a() { return }", "", "func b() {}"}
	b := []string{"package main", "", "func a() {}", "", "func b() {}", "", "func c() {}"}

	m := New(Config[string]{Diff: DiffMatchPatch[string]{Timeout: time.Second}})
	got, err := m.Merge(ancestor, a, b)

	require.NoError(t, err)
	assert.Equal(t, []string{"package main", "", "func a() { return }", "", "func b() {}", "", "func c() {}"}, got, "merged lines")
}

func TestMerge_NoMoves(t *testing.T) {
	m := New(Config[rune]{Moves: NoMoves[rune]{}})

	got, err := m.Merge([]rune("aaaaaaaaaabbbbbbbbbb"), []rune("aaaaaaaaaabbbbccbbbb"), []rune("bbbbbbbbbbaaaaaaaaaa"))

	require.NoError(t, err)
	assert.Equal(t, "bbbbccbbbbaaaaaaaaaa", string(got), "delete and reinsert without move tracking")
}

func TestMerger_Reconcile(t *testing.T) {
	m := New(Config[rune]{})

	plan, err := m.Reconcile([]rune("aaaaaaaaaabbbbbbbbbb"), []rune("aaaaaaaaaabbbbccbbbb"), []rune("bbbbbbbbbbaaaaaaaaaa"))

	require.NoError(t, err)
	require.Equal(t, 3, len(plan.Changes), "move, delete and insert")
	assert.Equal(t, KindMove, plan.Changes[0].Kind, "move sorts at its source")
	assert.Equal(t, BranchB, plan.Changes[0].Move.Origin, "move detected in B")
	assert.Equal(t, 2, len(plan.ChangesA), "A's replacement")
	assert.Equal(t, 1, len(plan.ChangesB), "B's move")
}

func TestConflictError_Message(t *testing.T) {
	single := &ConflictError[rune]{Conflicts: []Conflict[rune]{
		{A: ins("x", 0), B: ins("y", 0), Message: "[A] && [B] are inserting text at the same location."},
	}}
	assert.Equal(t,
		"merge conflict: [A] && [B] are inserting text at the same location. (A: insert at 0 (1 elements); B: insert at 0 (1 elements))",
		single.Error(), "single conflict")
	assert.True(t, errors.Is(single, ErrConflict), "matches sentinel")

	double := &ConflictError[rune]{Conflicts: append(single.Conflicts, single.Conflicts...)}
	assert.True(t, strings.HasPrefix(double.Error(), "2 merge conflicts: "), "count prefix")
}
