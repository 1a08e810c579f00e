package texpos

import "fmt"

// ChangeRelation classifies a buffer change against a range.
type ChangeRelation uint8

const (
	// RelationNone is the zero value; ProcessChange never returns it without an error.
	RelationNone ChangeRelation = iota

	// RelationBefore means the change happened before the range, which moved.
	RelationBefore

	// RelationWithin means the change happened inside the range, whose end moved.
	RelationWithin

	// RelationAcross means the change straddles a boundary; nothing moved.
	RelationAcross

	// RelationAfter means the change happened after the range, which is untouched.
	RelationAfter
)

var relationNames = [...]string{
	RelationNone:   "None",
	RelationBefore: "Before",
	RelationWithin: "Within",
	RelationAcross: "Across",
	RelationAfter:  "After",
}

// String returns the relation name.
func (r ChangeRelation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return fmt.Sprintf("ChangeRelation(%d)", r)
}

// Range is an ordered pair of positions: From is inclusive, To is exclusive.
type Range struct {
	From Position
	To   Position
}

// NewRange creates a range. Ordering is not enforced.
func NewRange(from, to Position) *Range {
	return &Range{From: from, To: to}
}

// IsSingleLine reports whether both ends sit on the same effective line.
func (r *Range) IsSingleLine() bool {
	return r.From.Line() == r.To.Line()
}

// IsEmpty reports whether both ends are at the same effective point.
func (r *Range) IsEmpty() bool {
	return r.From.IsEqual(r.To)
}

// Contains reports whether p lies in [From, To).
func (r *Range) Contains(p Position) bool {
	return r.From.IsBeforeOrEqual(p) && p.IsBefore(r.To)
}

// SameSpan reports whether both ranges have equal effective endpoints.
func (r *Range) SameSpan(other *Range) bool {
	return r.From.IsEqual(other.From) && r.To.IsEqual(other.To)
}

// EditorRange converts the effective range for the editor boundary.
func (r *Range) EditorRange() EditorRange {
	return EditorRange{Start: r.From.EditorPosition(), End: r.To.EditorPosition()}
}

// String renders the effective range as "[from, to)".
func (r *Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.From, r.To)
}

// ProcessChange classifies change against the range and moves the range
// endpoints accordingly:
//
//   - RelationAfter: the range ends before the change starts; nothing moves.
//   - RelationBefore: the range starts at or after the change end; both ends
//     take the line and offset shift, and the column shift when they sit on
//     the line where the change ends.
//   - RelationWithin: the change lies inside the range; only the end moves.
//   - RelationAcross: the change crosses a boundary; nothing moves.
//
// An inverted change or range yields an *UnreachableChangeRelationError.
func (r *Range) ProcessChange(change SourceFileChange) (ChangeRelation, error) {
	if change.End.IsBefore(change.Start) {
		return RelationNone, &UnreachableChangeRelationError{
			From: r.From, To: r.To, Change: change, Reason: "change end precedes change start",
		}
	}
	if r.To.IsBefore(r.From) {
		return RelationNone, &UnreachableChangeRelationError{
			From: r.From, To: r.To, Change: change, Reason: "range end precedes range start",
		}
	}

	shift := change.Shift

	switch {
	case r.To.IsBefore(change.Start):
		return RelationAfter, nil

	case r.From.IsAfterOrEqual(change.End):
		startOnEndLine := r.From.Line() == change.End.Line()
		singleLine := r.IsSingleLine()

		r.From.addShift(shift.Lines, 0, shift.Offset)
		r.To.addShift(shift.Lines, 0, shift.Offset)
		if startOnEndLine {
			r.From.addShift(0, shift.Columns, 0)
			if singleLine {
				r.To.addShift(0, shift.Columns, 0)
			}
		}
		return RelationBefore, nil

	case change.Start.IsAfterOrEqual(r.From) && change.End.IsBeforeOrEqual(r.To):
		columns := 0
		if change.End.Line() == r.To.Line() {
			columns = shift.Columns
		}
		r.To.addShift(shift.Lines, columns, shift.Offset)
		return RelationWithin, nil

	case change.Start.IsBeforeOrEqual(r.To) && change.End.IsAfter(r.From):
		return RelationAcross, nil
	}

	return RelationNone, &UnreachableChangeRelationError{
		From: r.From, To: r.To, Change: change, Reason: "no geometric relation matched",
	}
}

// UnreachableChangeRelationError reports a change that could not be
// classified against a range, which means the change descriptor and the
// tree disagree.
type UnreachableChangeRelationError struct {
	From   Position
	To     Position
	Change SourceFileChange
	Reason string
}

func (e *UnreachableChangeRelationError) Error() string {
	return fmt.Sprintf("unreachable change relation: change [%s, %s) against range [%s, %s): %s",
		e.Change.Start, e.Change.End, e.From, e.To, e.Reason)
}
