package merge

// offset is one ledger entry. Deletions anchor at the end of the deleted
// ancestor range, insertions at their ancestor insertion point.
type offset struct {
	anchor    int
	delta     int
	insertion bool
}

// Offsets translates ancestor coordinates into the coordinates of a buffer
// that a prefix of changes has been applied to.
type Offsets struct {
	entries []offset
}

// NewOffsets returns an empty ledger
func NewOffsets() *Offsets {
	return &Offsets{}
}

// BranchOffsets builds the ledger of a branch's complete change list without
// replaying it. Moves contribute both their deletion and insertion.
func BranchOffsets[T comparable](changes []Change[T]) *Offsets {
	o := NewOffsets()
	for _, c := range changes {
		switch c.Kind {
		case KindDelete:
			o.AddDeletion(c.Delete.AncestorRange.End, c.Delete.AncestorRange.Len())
		case KindInsert:
			o.AddInsertion(c.Insert.AncestorPosition, len(c.Insert.Value))
		case KindMove:
			o.AddDeletion(c.Move.From.AncestorRange.End, c.Move.From.AncestorRange.Len())
			o.AddInsertion(c.Move.To.AncestorPosition, len(c.Move.To.Value))
		}
	}
	return o
}

// AddDeletion records that length elements ending at ancestor position end
// were removed.
func (o *Offsets) AddDeletion(end, length int) {
	o.entries = append(o.entries, offset{anchor: end, delta: -length})
}

// AddInsertion records that length elements were inserted at ancestor
// position pos.
func (o *Offsets) AddInsertion(pos, length int) {
	o.entries = append(o.entries, offset{anchor: pos, delta: length, insertion: true})
}

// Translate returns pos + the sum of every delta anchored at or before pos.
// Text inserted at pos lands before the translated point.
func (o *Offsets) Translate(pos int) int {
	translated := pos
	for _, e := range o.entries {
		if e.anchor <= pos {
			translated += e.delta
		}
	}
	return translated
}

// TranslateRange translates both bounds of r. Insertions anchored exactly at
// r.End stay outside the translated range; insertions strictly inside r are
// covered by it.
func (o *Offsets) TranslateRange(r Range) Range {
	start := o.Translate(r.Start)
	end := r.End
	for _, e := range o.entries {
		if e.anchor < r.End || (e.anchor == r.End && !e.insertion) {
			end += e.delta
		}
	}
	return Range{Start: start, End: max(start, end)}
}

// Len returns the number of recorded entries
func (o *Offsets) Len() int {
	return len(o.entries)
}
