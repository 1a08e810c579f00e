package pretty_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/internal/ui/pretty"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/runner"
	"github.com/yaklabco/texviz/pkg/texast"
)

func plain() *pretty.Styles {
	return pretty.NewStyles(false)
}

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := plain()
	for _, style := range []lipgloss.Style{styles.Bold, styles.Error, styles.Kind, styles.Range} {
		assert.Equal(t, "test", style.Render("test"))
	}
	assert.Equal(t, "\tx", styles.SourceLine.Render("\tx"))
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func TestTerminalWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Zero(t, pretty.TerminalWidth(&buf))
}

func TestFormatTree(t *testing.T) {
	t.Parallel()

	root, err := latex.Parse("a $x$")
	require.NoError(t, err)

	tests := []struct {
		name string
		opts pretty.TreeOptions
		want string
	}{
		{
			name: "guides",
			opts: pretty.TreeOptions{},
			want: "Latex\n" +
				"├─ Text \"a\"\n" +
				"├─ Whitespace \" \"\n" +
				"└─ InlineMathBlock\n" +
				"   └─ Math \"x\"\n",
		},
		{
			name: "depth limit",
			opts: pretty.TreeOptions{MaxDepth: 1},
			want: "Latex\n" +
				"├─ Text \"a\"\n" +
				"├─ Whitespace \" \"\n" +
				"└─ InlineMathBlock\n",
		},
		{
			name: "ranges",
			opts: pretty.TreeOptions{MaxDepth: 1, ShowRanges: true},
			want: "Latex [0:0, 0:5)\n" +
				"├─ Text \"a\" [0:0, 0:1)\n" +
				"├─ Whitespace \" \" [0:1, 0:2)\n" +
				"└─ InlineMathBlock [0:2, 0:5)\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, plain().FormatTree(root, testCase.opts))
		})
	}

	t.Run("width truncates", func(t *testing.T) {
		t.Parallel()

		out := plain().FormatTree(root, pretty.TreeOptions{Width: 8, ShowRanges: true})
		for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 8, line)
		}
	})

	t.Run("nil root", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, plain().FormatTree(nil, pretty.TreeOptions{}))
	})
}

func TestFormatFailure(t *testing.T) {
	t.Parallel()

	_, err := latex.Parse("\\begin{itemize}\nstill open")
	var failure *latex.ParsingFailure
	require.ErrorAs(t, err, &failure)

	got := plain().FormatFailure("doc.tex", failure, "still open")
	want := "  doc.tex:2:11  error  expected " + failure.ExpectedDescription() + ", found end of input\n" +
		"        still open\n" +
		"                  ^\n"
	assert.Equal(t, want, got)

	withoutContext := plain().FormatFailure("doc.tex", failure, "")
	assert.Equal(t, 1, strings.Count(withoutContext, "\n"))
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "        \tab\n        \t ^\n", plain().FormatSourceContext("\tab", 3))
	assert.Equal(t, "        ab\n          ^\n", plain().FormatSourceContext("ab", 3))
	assert.Equal(t, "        ab\n", plain().FormatSourceContext("ab", 0))
}

func TestFormatFileLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "main.tex (12 nodes)", plain().FormatFileHeader("main.tex", 12))
	assert.Equal(t, "main.tex", plain().FormatFileHeader("main.tex", 0))
	assert.Equal(t, "  x.tex  error  boom\n", plain().FormatFileError("x.tex", errors.New("boom")))
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	passed := runner.Stats{FilesDiscovered: 3, FilesParsed: 3, Nodes: 10}
	assert.Equal(t, "All files parsed (3 files, 10 nodes)\n", plain().FormatSummaryOneLine(passed))

	failed := runner.Stats{FilesParsed: 3, FilesFailed: 1, FilesErrored: 1}
	assert.Equal(t, "2 files failed (1 parse failure, 1 unreadable) of 5 checked\n", plain().FormatSummaryOneLine(failed))

	failed.NodesByKind = map[string]int{"Text": 4, "Latex": 3, "Math": 4}
	block := plain().FormatSummary(failed)
	assert.Contains(t, block, "Parse failures:    1")
	assert.Contains(t, block, "Check failed")
	assert.Less(t, strings.Index(block, "Math:"), strings.Index(block, "Text:"))
	assert.Less(t, strings.Index(block, "Text:"), strings.Index(block, "Latex:"))

	assert.Contains(t, plain().FormatSummary(passed), "Check passed")
}

func TestFormatRelations(t *testing.T) {
	t.Parallel()

	report := texast.EditReport{Before: 1, Within: 2, After: 3}
	assert.Equal(t, "before 1  within 2  across 0  after 3", plain().FormatRelations(report))
}
