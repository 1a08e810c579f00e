package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texviz/pkg/parser/latex"
)

// FormatFailure renders a parse failure as "path:line:col  error  expected X, found Y",
// followed by the source line and a caret when sourceLine is non-empty.
func (s *Styles) FormatFailure(path string, failure *latex.ParsingFailure, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		failure.Index.Line,
		failure.Index.Column,
	)

	fmt.Fprintf(&builder, "  %s  %s  expected %s, found %s\n",
		location,
		s.Error.Render("error"),
		s.Expected.Render(failure.ExpectedDescription()),
		s.Found.Render(failure.Found),
	)

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, failure.Index.Column))
	}

	return builder.String()
}

// FormatFileError renders a file that could not be read.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("  %s  %s  %v\n", s.FilePath.Render(path), s.Error.Render("error"), err)
}

// FormatSourceContext formats the source line with a caret under the
// 1-based column. Tabs are kept so the caret lines up in a terminal.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		var pad strings.Builder
		for i, r := range []rune(line) {
			if i >= column-1 {
				break
			}
			if r == '\t' {
				pad.WriteRune('\t')
			} else {
				pad.WriteByte(' ')
			}
		}
		if extra := column - 1 - len([]rune(line)); extra > 0 {
			pad.WriteString(strings.Repeat(" ", extra))
		}
		builder.WriteString(indent + pad.String() + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, nodes int) string {
	header := s.FilePath.Render(path)
	if nodes > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d nodes)", nodes))
	}
	return header
}
