package texpos

import (
	"errors"
	"sort"
	"unicode/utf8"
)

// ErrOutOfRange is returned when an offset or line/column lies outside the text.
var ErrOutOfRange = errors.New("position out of range")

// LineIndex maps rune offsets to zero-based line/column pairs for one text snapshot.
// Only '\n' terminates a line; a preceding '\r' counts as a column.
type LineIndex struct {
	starts []int
	length int
}

// NewLineIndex builds the index for text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	offset := 0
	for _, r := range text {
		offset++
		if r == '\n' {
			starts = append(starts, offset)
		}
	}
	return &LineIndex{starts: starts, length: utf8.RuneCountInString(text)}
}

// LineCount returns the number of lines. An empty text has one empty line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Len returns the text length in runes.
func (li *LineIndex) Len() int {
	return li.length
}

// LineLength returns the number of runes on line, excluding its '\n'.
func (li *LineIndex) LineLength(line int) (int, error) {
	if line < 0 || line >= len(li.starts) {
		return 0, ErrOutOfRange
	}
	end := li.length
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	return end - li.starts[line], nil
}

// PositionAt converts a rune offset to a Position carrying that offset.
// The offset equal to Len() is valid and denotes the end of the text.
func (li *LineIndex) PositionAt(offset int) (Position, error) {
	if offset < 0 || offset > li.length {
		return Position{}, ErrOutOfRange
	}

	// Binary search for the last line starting at or before offset.
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	return NewPositionWithOffset(line, offset-li.starts[line], offset), nil
}

// OffsetAt converts a zero-based line and column to a rune offset.
// The column may point just past the last rune of the line.
func (li *LineIndex) OffsetAt(line, column int) (int, error) {
	lineLen, err := li.LineLength(line)
	if err != nil {
		return 0, err
	}
	if column < 0 || column > lineLen {
		return 0, ErrOutOfRange
	}
	return li.starts[line] + column, nil
}

// Resolve returns p with its offset filled in from the index.
// Positions that already carry an offset are returned unchanged.
func (li *LineIndex) Resolve(p Position) (Position, error) {
	if p.HasOffset() {
		return p, nil
	}
	offset, err := li.OffsetAt(p.Line(), p.Column())
	if err != nil {
		return Position{}, err
	}
	return NewPositionWithOffset(p.Line(), p.Column(), offset), nil
}
