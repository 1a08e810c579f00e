package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/reporter"
	"github.com/yaklabco/texviz/pkg/runner"
)

const badSource = "\\begin{itemize}\nstill open"

func sampleResult(t *testing.T) (*runner.Result, *latex.ParsingFailure) {
	t.Helper()

	root, err := latex.Parse("Hello")
	require.NoError(t, err)

	_, err = latex.Parse(badSource)
	var failure *latex.ParsingFailure
	require.ErrorAs(t, err, &failure)

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/bad.tex", Failure: failure, Source: badSource},
			{Path: "/work/good.tex", Root: root, Source: "Hello"},
			{Path: "/work/gone.tex", Error: errors.New("file not found")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesParsed:     1,
			FilesFailed:     1,
			FilesErrored:    1,
			Nodes:           2,
			NodesByKind:     map[string]int{"Latex": 1, "Text": 1},
		},
	}, failure
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) string {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"
	opts.WorkingDir = "/work"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	if result != nil {
		assert.Equal(t, result.Stats.FilesFailed+result.Stats.FilesErrored, failed)
	}
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "md", want: reporter.FormatMarkdown},
		{input: "markdown", want: reporter.FormatMarkdown},
		{input: "html", want: reporter.FormatHTML},
		{input: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, reporter.Format("xml").IsValid())
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	result, failure := sampleResult(t)
	opts := reporter.Options{Format: reporter.FormatText, ShowContext: true, ShowSummary: true}

	want := "  bad.tex:2:11  error  expected " + failure.ExpectedDescription() + ", found end of input\n" +
		"        still open\n" +
		"                  ^\n" +
		"  gone.tex  error  file not found\n" +
		"\n" +
		"2 files failed (1 parse failure, 1 unreadable) of 3 checked\n"
	assert.Equal(t, want, report(t, opts, result))

	opts.Verbose = true
	opts.ShowContext = false
	opts.ShowSummary = false
	verbose := report(t, opts, result)
	assert.Contains(t, verbose, "  good.tex (2 nodes)\n")
	assert.NotContains(t, verbose, "still open")

	assert.Equal(t, "No files to check.\n", report(t, reporter.Options{ShowSummary: true}, nil))
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result, failure := sampleResult(t)
	out := report(t, reporter.Options{Format: reporter.FormatJSON, ShowContext: true}, result)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "1.0.0", decoded.Version)
	require.Len(t, decoded.Files, 3)

	bad := decoded.Files[0]
	assert.Equal(t, "bad.tex", bad.Path)
	assert.False(t, bad.Parsed)
	require.NotNil(t, bad.Failure)
	assert.Equal(t, 2, bad.Failure.Line)
	assert.Equal(t, 11, bad.Failure.Column)
	assert.Equal(t, 26, bad.Failure.Offset)
	assert.Equal(t, failure.Expected, bad.Failure.Expected)
	assert.Equal(t, "still open", bad.Failure.Source)

	good := decoded.Files[1]
	assert.True(t, good.Parsed)
	assert.Equal(t, 2, good.Nodes)
	assert.Nil(t, good.Failure)

	assert.Equal(t, "file not found", decoded.Files[2].Error)

	assert.Equal(t, reporter.JSONSummary{
		FilesChecked: 3,
		FilesParsed:  1,
		FilesFailed:  1,
		FilesErrored: 1,
		Nodes:        2,
		NodesByKind:  map[string]int{"Latex": 1, "Text": 1},
	}, decoded.Summary)

	compact := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, nil)
	assert.Equal(t, 1, strings.Count(compact, "\n"))
	assert.Contains(t, compact, `"files":[]`)
}

func TestMarkdownReporter(t *testing.T) {
	t.Parallel()

	result, failure := sampleResult(t)
	out := report(t, reporter.Options{Format: reporter.FormatMarkdown, ShowContext: true, ShowSummary: true}, result)

	for _, want := range []string{
		"# texviz check report\n",
		"| File | Status | Nodes |\n",
		"| `bad.tex` | **failed** |  |\n",
		"| `good.tex` | parsed | 2 |\n",
		"| `gone.tex` | unreadable |  |\n",
		"### `bad.tex`\n\nLine 2, column 11: expected " + failure.ExpectedDescription() + ", found `end of input`.\n",
		"```latex\nstill open\n          ^\n```\n",
		"### `gone.tex`\n\nfile not found\n",
		"**3 files checked:** 1 parsed, 1 failed, 1 unreadable, 2 nodes.\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestHTMLReporter(t *testing.T) {
	t.Parallel()

	result, _ := sampleResult(t)
	out := report(t, reporter.Options{Format: reporter.FormatHTML, ShowContext: true}, result)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n"))
	assert.Contains(t, out, "<title>texviz check report</title>")
	assert.Contains(t, out, "<h1>texviz check report</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>good.tex</code>")
	assert.Contains(t, out, `<code class="language-latex">still open`)
	assert.True(t, strings.HasSuffix(out, "</body>\n</html>\n"))
}
