package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/texviz/pkg/runner"
	"github.com/yaklabco/texviz/pkg/texast"
)

const reportTitle = "texviz check report"

// MarkdownReporter writes a Markdown document: a status table for every
// file followed by one section per failure.
type MarkdownReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(opts Options) *MarkdownReporter {
	return &MarkdownReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if _, err := r.bw.WriteString(buildMarkdown(result, r.opts)); err != nil {
		return 0, fmt.Errorf("write markdown: %w", err)
	}
	return failedFiles(result), nil
}

func buildMarkdown(result *runner.Result, opts Options) string {
	var b strings.Builder

	b.WriteString("# " + reportTitle + "\n\n")

	if result == nil || len(result.Files) == 0 {
		b.WriteString("No files to check.\n")
		return b.String()
	}

	b.WriteString("| File | Status | Nodes |\n")
	b.WriteString("| --- | --- | ---: |\n")
	for _, file := range result.Files {
		status, nodes := "parsed", strconv.Itoa(texast.Count(file.Root))
		switch {
		case file.Error != nil:
			status, nodes = "unreadable", ""
		case file.Failure != nil:
			status, nodes = "**failed**", ""
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", inlineCode(opts.displayPath(file.Path)), status, nodes)
	}

	if failures := result.Failures(); len(failures) > 0 {
		b.WriteString("\n## Failures\n")
		for _, file := range failures {
			fmt.Fprintf(&b, "\n### %s\n\n", inlineCode(opts.displayPath(file.Path)))
			if file.Error != nil {
				fmt.Fprintf(&b, "%s\n", escapeMarkdown(file.Error.Error()))
				continue
			}

			failure := file.Failure
			fmt.Fprintf(&b, "Line %d, column %d: expected %s, found %s.\n",
				failure.Index.Line, failure.Index.Column,
				failure.ExpectedDescription(), inlineCode(failure.Found))

			if opts.ShowContext {
				line := sourceLine(file.Source, failure.Index.Line)
				caret := strings.Repeat(" ", max(failure.Index.Column-1, 0)) + "^"
				fence := fenceFor(line)
				fmt.Fprintf(&b, "\n%slatex\n%s\n%s\n%s\n", fence, line, caret, fence)
			}
		}
	}

	if opts.ShowSummary {
		stats := result.Stats
		fmt.Fprintf(&b, "\n**%d files checked:** %d parsed, %d failed, %d unreadable, %d nodes.\n",
			len(result.Files), stats.FilesParsed, stats.FilesFailed, stats.FilesErrored, stats.Nodes)
	}

	return b.String()
}

// inlineCode wraps s in a code span long enough not to be closed by s itself.
func inlineCode(s string) string {
	ticks := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

func fenceFor(s string) string {
	return strings.Repeat("`", max(3, longestRun(s, '`')+1))
}

func longestRun(s string, r rune) int {
	longest, run := 0, 0
	for _, c := range s {
		if c == r {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "|", `\|`, "<", `\<`, "[", `\[`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
