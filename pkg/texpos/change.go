package texpos

import (
	"strings"
	"unicode/utf8"
)

// SourceFileChange describes one text-buffer mutation: the text between
// Start and End was replaced, with the net effect recorded in Shift.
type SourceFileChange struct {
	Start       Position    `json:"-" yaml:"-"`
	End         Position    `json:"-" yaml:"-"`
	Shift       Shift       `json:"shift" yaml:"shift"`
	EditorRange EditorRange `json:"range" yaml:"range"`
}

// NewSourceFileChange creates a change whose editor range mirrors start and end.
func NewSourceFileChange(start, end Position, shift Shift) SourceFileChange {
	return SourceFileChange{
		Start:       start,
		End:         end,
		Shift:       shift,
		EditorRange: EditorRange{Start: start.EditorPosition(), End: end.EditorPosition()},
	}
}

// ReplacementShift computes the shift produced by replacing replacedLen runes
// between start and end with newText.
//
// Columns is the distance the old end column moves: the new end sits at
// start column + len(newText) when newText has no newline, otherwise at the
// length of its last line.
func ReplacementShift(start, end Position, replacedLen int, newText string) Shift {
	newLines := strings.Count(newText, "\n")

	newEndColumn := start.Column() + utf8.RuneCountInString(newText)
	if newLines > 0 {
		newEndColumn = utf8.RuneCountInString(newText[strings.LastIndexByte(newText, '\n')+1:])
	}

	return Shift{
		Lines:   newLines - (end.Line() - start.Line()),
		Columns: newEndColumn - end.Column(),
		Offset:  utf8.RuneCountInString(newText) - replacedLen,
	}
}

// IsInsertion reports whether the change replaced nothing.
func (c SourceFileChange) IsInsertion() bool {
	return c.Start.IsEqual(c.End)
}
