package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange_ContainsItself(t *testing.T) {
	ranges := []Range{NewRange(0, 0), NewRange(3, 3), NewRange(0, 5), NewRange(2, 9)}
	for _, r := range ranges {
		assert.True(t, r.Contains(r, true), "%s contains itself including start", r)
		assert.False(t, r.Contains(r, false), "%s excluding start", r)
		assert.Equal(t, r, Join(r, r), "join with itself")
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(2, 6)

	assert.True(t, r.Contains(NewRange(3, 5), false), "strictly inside")
	assert.True(t, r.Contains(NewRange(3, 6), false), "end is inclusive")
	assert.False(t, r.Contains(NewRange(2, 4), false), "start excluded")
	assert.True(t, r.Contains(NewRange(2, 4), true), "start included")
	assert.False(t, r.Contains(NewRange(1, 4), true), "starts before")
	assert.False(t, r.Contains(NewRange(3, 7), true), "ends after")

	assert.True(t, r.ContainsPosition(6, false), "position at end")
	assert.False(t, r.ContainsPosition(2, false), "position at start excluded")
	assert.True(t, r.ContainsPosition(2, true), "position at start included")
	assert.False(t, r.ContainsPosition(7, true), "position after end")
}

func TestRange_OverlapsWithIsSymmetric(t *testing.T) {
	tests := []struct {
		name string
		r1   Range
		r2   Range
		want bool
	}{
		{"disjoint", NewRange(0, 2), NewRange(4, 6), false},
		{"adjacent", NewRange(0, 2), NewRange(2, 4), false},
		{"sharing one element", NewRange(0, 3), NewRange(2, 4), true},
		{"nested", NewRange(0, 10), NewRange(3, 4), true},
		{"equal", NewRange(1, 5), NewRange(1, 5), true},
		{"point at start", NewRange(2, 2), NewRange(2, 5), true},
		{"point inside", NewRange(3, 3), NewRange(2, 5), true},
		{"point at end", NewRange(5, 5), NewRange(2, 5), false},
		{"equal points", NewRange(4, 4), NewRange(4, 4), true},
		{"distinct points", NewRange(4, 4), NewRange(5, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r1.OverlapsWith(tt.r2), "r1 overlaps r2")
			assert.Equal(t, tt.want, tt.r2.OverlapsWith(tt.r1), "r2 overlaps r1")
		})
	}
}

func TestRange_Join(t *testing.T) {
	assert.Equal(t, NewRange(1, 9), Join(NewRange(1, 4), NewRange(6, 9)), "join of disjoint ranges")
	assert.Equal(t, NewRange(0, 5), Join(NewRange(2, 5), NewRange(0, 3)), "join of overlapping ranges")
}

func TestRange_Basics(t *testing.T) {
	r := RangeFromLength(3, 4)

	assert.Equal(t, NewRange(3, 7), r, "range from length")
	assert.Equal(t, 4, r.Len(), "length")
	assert.False(t, r.IsEmpty(), "non-empty")
	assert.True(t, RangeFromLength(3, 0).IsEmpty(), "zero length")
	assert.Equal(t, "[3, 7)", r.String(), "string form")
}

func TestNewRange_PanicsWhenEndBeforeStart(t *testing.T) {
	assert.Panics(t, func() { NewRange(5, 4) }, "end before start")
	assert.NotPanics(t, func() { NewRange(5, 5) }, "empty range")
}
