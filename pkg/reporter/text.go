package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/texviz/internal/ui/pretty"
	"github.com/yaklabco/texviz/pkg/runner"
	"github.com/yaklabco/texviz/pkg/texast"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		switch {
		case file.Error != nil:
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
		case file.Failure != nil:
			var line string
			if r.opts.ShowContext {
				line = sourceLine(file.Source, file.Failure.Index.Line)
			}
			fmt.Fprint(r.bw, r.styles.FormatFailure(path, file.Failure, line))
		case r.opts.Verbose:
			fmt.Fprintln(r.bw, "  "+r.styles.FormatFileHeader(path, texast.Count(file.Root)))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failedFiles(result), nil
}
