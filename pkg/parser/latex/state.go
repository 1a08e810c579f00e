package latex

import (
	"slices"
	"unicode"

	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

const eof = -1

// cursor is a location in the input; line and column are zero-based.
type cursor struct {
	offset int
	line   int
	column int
}

func (c cursor) position() texpos.Position {
	return texpos.NewPositionWithOffset(c.line, c.column, c.offset)
}

func (c cursor) index() texpos.ParserIndex {
	return texpos.ParserIndex{Offset: c.offset, Line: c.line + 1, Column: c.column + 1}
}

// state holds the input and cursor of one parse, plus the furthest failure
// position and the alternatives expected there.
type state struct {
	input    []rune
	cur      cursor
	registry *Registry

	ffp      cursor
	expected []string
}

func newState(input string, registry *Registry) *state {
	return &state{input: []rune(input), registry: registry}
}

// backtrack is returned by failed rules and absorbed by choice and repetition.
type backtrack struct{}

func (backtrack) Error() string { return "backtrack" }

var errBacktrack error = backtrack{}

// fail records label as expected at the current cursor and returns errBacktrack.
func (s *state) fail(label string) error {
	switch {
	case s.cur.offset > s.ffp.offset:
		s.ffp = s.cur
		s.expected = append(s.expected[:0], label)
	case s.cur.offset == s.ffp.offset:
		if !slices.Contains(s.expected, label) {
			s.expected = append(s.expected, label)
		}
	}
	return errBacktrack
}

func (s *state) mark() cursor {
	return s.cur
}

func (s *state) reset(c cursor) {
	s.cur = c
}

func (s *state) atEOF() bool {
	return s.cur.offset >= len(s.input)
}

func (s *state) peek() rune {
	if s.atEOF() {
		return eof
	}
	return s.input[s.cur.offset]
}

func (s *state) peekAt(n int) rune {
	if s.cur.offset+n >= len(s.input) {
		return eof
	}
	return s.input[s.cur.offset+n]
}

// hasPrefix reports whether the unconsumed input starts with prefix.
func (s *state) hasPrefix(prefix string) bool {
	i := s.cur.offset
	for _, r := range prefix {
		if i >= len(s.input) || s.input[i] != r {
			return false
		}
		i++
	}
	return true
}

// advance consumes one rune.
func (s *state) advance() rune {
	r := s.input[s.cur.offset]
	s.cur.offset++
	s.cur.column++
	if r == '\n' {
		s.cur.line++
		s.cur.column = 0
	}
	return r
}

func (s *state) expectRune(want rune, label string) error {
	if s.peek() != want {
		return s.fail(label)
	}
	s.advance()
	return nil
}

func (s *state) expectLiteral(literal, label string) error {
	start := s.mark()
	for _, want := range literal {
		if s.peek() != want {
			s.reset(start)
			return s.fail(label)
		}
		s.advance()
	}
	return nil
}

// takeWhile consumes runes while accept holds and returns them.
func (s *state) takeWhile(accept func(rune) bool) string {
	start := s.cur.offset
	for !s.atEOF() && accept(s.peek()) {
		s.advance()
	}
	return string(s.input[start:s.cur.offset])
}

func (s *state) slice(from, to cursor) string {
	return string(s.input[from.offset:to.offset])
}

func (s *state) rangeFrom(start cursor) *texpos.Range {
	return texpos.NewRange(start.position(), s.cur.position())
}

// node builds an unnumbered node spanning start to the current cursor.
func (s *state) node(kind texast.NodeKind, name string, value texast.Value, start cursor) *texast.Node {
	return texast.NewNode(0, kind, name, value, s.rangeFrom(start))
}

func isLetter(r rune) bool {
	return r != eof && unicode.IsLetter(r)
}

func isSpace(r rune) bool {
	return r != eof && unicode.IsSpace(r)
}
