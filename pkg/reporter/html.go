package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/texviz/pkg/runner"
)

// HTMLReporter renders the Markdown report to a standalone HTML page.
type HTMLReporter struct {
	opts Options
	md   goldmark.Markdown
	bw   *bufio.Writer
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(opts Options) *HTMLReporter {
	return &HTMLReporter{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(extension.Table)),
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *HTMLReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var body bytes.Buffer
	if err := r.md.Convert([]byte(buildMarkdown(result, r.opts)), &body); err != nil {
		return 0, fmt.Errorf("render HTML: %w", err)
	}

	fmt.Fprintf(r.bw, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(reportTitle))
	r.bw.Write(body.Bytes())
	r.bw.WriteString("</body>\n</html>\n")

	return failedFiles(result), nil
}
