package merge

import "fmt"

// Range is a half-open interval [Start, End) over sequence positions.
// A zero-length range denotes an insertion point, not an element.
type Range struct {
	Start int
	End   int
}

// NewRange creates a range, panicking if end < start.
func NewRange(start, end int) Range {
	if end < start {
		panic(fmt.Sprintf("merge: invalid range [%d, %d): end before start", start, end))
	}
	return Range{Start: start, End: end}
}

// RangeFromLength creates the range [start, start+length).
func RangeFromLength(start, length int) Range {
	return NewRange(start, start+length)
}

// Len returns the number of positions covered by the range
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range is an insertion point
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether other lies within r. When includeStart is false,
// other must begin strictly after r.Start. The end bound is always inclusive,
// so a point at r.End is contained.
func (r Range) Contains(other Range, includeStart bool) bool {
	startOK := r.Start < other.Start
	if includeStart {
		startOK = r.Start <= other.Start
	}
	return startOK && r.End >= other.End
}

// ContainsPosition reports whether the insertion point pos lies within r.
func (r Range) ContainsPosition(pos int, includeStart bool) bool {
	return r.Contains(Range{Start: pos, End: pos}, includeStart)
}

// OverlapsWith reports whether the two ranges share a position.
// An empty range at p overlaps r when r.Start <= p < r.End.
func (r Range) OverlapsWith(other Range) bool {
	switch {
	case r.IsEmpty() && other.IsEmpty():
		return r.Start == other.Start
	case r.IsEmpty():
		return other.Start <= r.Start && r.Start < other.End
	case other.IsEmpty():
		return r.Start <= other.Start && other.Start < r.End
	default:
		return r.Start < other.End && other.Start < r.End
	}
}

// Join returns the smallest range covering both r1 and r2.
func Join(r1, r2 Range) Range {
	return Range{Start: min(r1.Start, r2.Start), End: max(r1.End, r2.End)}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
