package latex

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texviz/pkg/texpos"
)

// ParsingFailure reports input that does not match the grammar. Index is
// the furthest position the parser reached; Expected lists the
// alternatives that would have allowed it to continue there.
type ParsingFailure struct {
	Path     string
	Index    texpos.ParserIndex
	Expected []string
	Found    string
}

func (e *ParsingFailure) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%s: parse failure: expected %s, found %s", e.Index, e.ExpectedDescription(), e.Found)
	return b.String()
}

// ExpectedDescription joins the expected alternatives as "a, b or c".
func (e *ParsingFailure) ExpectedDescription() string {
	switch len(e.Expected) {
	case 0:
		return "nothing"
	case 1:
		return e.Expected[0]
	default:
		return strings.Join(e.Expected[:len(e.Expected)-1], ", ") + " or " + e.Expected[len(e.Expected)-1]
	}
}

// Position returns the zero-based position of the failure.
func (e *ParsingFailure) Position() texpos.Position {
	return texpos.FromParserIndex(e.Index)
}

func (s *state) failure(path string) *ParsingFailure {
	found := "end of input"
	if s.ffp.offset < len(s.input) {
		found = fmt.Sprintf("%q", s.input[s.ffp.offset])
	}
	return &ParsingFailure{
		Path:     path,
		Index:    s.ffp.index(),
		Expected: append([]string(nil), s.expected...),
		Found:    found,
	}
}
