package edit

import (
	"fmt"

	"github.com/yaklabco/texviz/pkg/texpos"
)

// Change describes e as a SourceFileChange against the text index was built
// from. Start and End carry offsets, and Shift is the net displacement of the
// old end of the replaced span.
func (e TextEdit) Change(index *texpos.LineIndex) (texpos.SourceFileChange, error) {
	if err := Validate([]TextEdit{e}, index.Len()); err != nil {
		return texpos.SourceFileChange{}, err
	}

	start, err := index.PositionAt(e.Start)
	if err != nil {
		return texpos.SourceFileChange{}, fmt.Errorf("edit start: %w", err)
	}
	end, err := index.PositionAt(e.End)
	if err != nil {
		return texpos.SourceFileChange{}, fmt.Errorf("edit end: %w", err)
	}

	shift := texpos.ReplacementShift(start, end, e.Len(), e.NewText)
	return texpos.NewSourceFileChange(start, end, shift), nil
}

// FromEditorRange converts an editor range plus replacement text into a
// TextEdit against the text index was built from.
func FromEditorRange(index *texpos.LineIndex, rng texpos.EditorRange, newText string) (TextEdit, error) {
	start, err := index.OffsetAt(rng.Start.Line, rng.Start.Character)
	if err != nil {
		return TextEdit{}, fmt.Errorf("range start %d:%d: %w", rng.Start.Line, rng.Start.Character, err)
	}
	end, err := index.OffsetAt(rng.End.Line, rng.End.Character)
	if err != nil {
		return TextEdit{}, fmt.Errorf("range end %d:%d: %w", rng.End.Line, rng.End.Character, err)
	}
	if end < start {
		return TextEdit{}, &ValidationError{
			Edit:    TextEdit{Start: start, End: end, NewText: newText},
			Message: "end offset is before start offset",
		}
	}
	return TextEdit{Start: start, End: end, NewText: newText}, nil
}
