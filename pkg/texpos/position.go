// Package texpos provides the source-position primitives shared by the LaTeX
// parser, the AST and the incremental edit layer:
//   - Position: a zero-based (line, column[, offset]) point plus a mutable shift
//   - Range: an ordered pair of positions that can absorb text-buffer changes
//   - SourceFileChange: the description of a single buffer mutation
//   - LineIndex: offset <-> line/column conversion for a text snapshot
//
// Parse-time coordinates are never rewritten. Edits made after parsing are
// accumulated in each position's Shift, and only Range.ProcessChange mutates it.
package texpos

import (
	"errors"
	"fmt"
)

// ErrUnspecifiedOffset is returned when the offset of a Position constructed
// without one is requested.
var ErrUnspecifiedOffset = errors.New("position offset is unspecified")

// Shift is the adjustment accumulated by a Position since it was parsed.
type Shift struct {
	Lines   int `json:"lines" yaml:"lines"`
	Columns int `json:"columns" yaml:"columns"`
	Offset  int `json:"offset" yaml:"offset"`
}

// IsZero returns true if the shift has no component.
func (s Shift) IsZero() bool {
	return s.Lines == 0 && s.Columns == 0 && s.Offset == 0
}

// Position is a zero-based point in a text buffer.
//
// The initial coordinates are fixed at construction. The effective coordinates
// returned by Line, Column and Offset are the initial ones plus the shift.
type Position struct {
	line      int
	column    int
	offset    int
	hasOffset bool
	shift     Shift
}

// NewPosition creates a position without an offset.
func NewPosition(line, column int) Position {
	return Position{line: line, column: column}
}

// NewPositionWithOffset creates a position with an absolute offset.
func NewPositionWithOffset(line, column, offset int) Position {
	return Position{line: line, column: column, offset: offset, hasOffset: true}
}

// Line returns the effective zero-based line.
func (p Position) Line() int {
	return p.line + p.shift.Lines
}

// Column returns the effective zero-based column.
func (p Position) Column() int {
	return p.column + p.shift.Columns
}

// Offset returns the effective zero-based offset.
// It fails with ErrUnspecifiedOffset if the position was built without one.
func (p Position) Offset() (int, error) {
	if !p.hasOffset {
		return 0, ErrUnspecifiedOffset
	}
	return p.offset + p.shift.Offset, nil
}

// HasOffset returns true if the position carries an offset.
func (p Position) HasOffset() bool {
	return p.hasOffset
}

// Shift returns a copy of the accumulated shift.
func (p Position) Shift() Shift {
	return p.shift
}

// Initial returns the position as it was at construction, without shift.
func (p Position) Initial() Position {
	p.shift = Shift{}
	return p
}

// IsBefore compares (line, column) lexicographically; offsets are ignored.
func (p Position) IsBefore(other Position) bool {
	if p.Line() != other.Line() {
		return p.Line() < other.Line()
	}
	return p.Column() < other.Column()
}

// IsBeforeOrEqual reports whether p is before or at other.
func (p Position) IsBeforeOrEqual(other Position) bool {
	return p.IsBefore(other) || p.IsEqual(other)
}

// IsEqual reports whether p and other have the same effective line and column.
func (p Position) IsEqual(other Position) bool {
	return p.Line() == other.Line() && p.Column() == other.Column()
}

// IsAfterOrEqual reports whether p is after or at other.
func (p Position) IsAfterOrEqual(other Position) bool {
	return !p.IsBefore(other)
}

// IsAfter reports whether p is strictly after other.
func (p Position) IsAfter(other Position) bool {
	return !p.IsBeforeOrEqual(other)
}

// String renders the effective position as "line:column" (zero-based).
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line(), p.Column())
}

func (p *Position) addShift(lines, columns, offset int) {
	p.shift.Lines += lines
	p.shift.Columns += columns
	p.shift.Offset += offset
}

// ParserIndex is the parser's native location: 1-based line and column and a
// 0-based offset, all counted in runes.
type ParserIndex struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders the index as "line:column".
func (i ParserIndex) String() string {
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// FromParserIndex converts a parser index to a zero-based Position with offset.
func FromParserIndex(idx ParserIndex) Position {
	return NewPositionWithOffset(idx.Line-1, idx.Column-1, idx.Offset)
}

// ParserIndex converts the effective position back to the parser's native index.
func (p Position) ParserIndex() (ParserIndex, error) {
	offset, err := p.Offset()
	if err != nil {
		return ParserIndex{}, err
	}
	return ParserIndex{Offset: offset, Line: p.Line() + 1, Column: p.Column() + 1}, nil
}

// EditorPosition is the host editor's zero-based (line, character) pair.
type EditorPosition struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// EditorRange is the host editor's native range.
type EditorRange struct {
	Start EditorPosition `json:"start" yaml:"start"`
	End   EditorPosition `json:"end" yaml:"end"`
}

// EditorPosition converts the effective position for the editor boundary.
func (p Position) EditorPosition() EditorPosition {
	return EditorPosition{Line: p.Line(), Character: p.Column()}
}

// FromEditorPosition creates an offset-less Position from an editor position.
func FromEditorPosition(ep EditorPosition) Position {
	return NewPosition(ep.Line, ep.Character)
}
