package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/texviz/pkg/runner"
	"github.com/yaklabco/texviz/pkg/texast"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path    string       `json:"path"`
	Parsed  bool         `json:"parsed"`
	Nodes   int          `json:"nodes,omitempty"`
	Failure *JSONFailure `json:"failure,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// JSONFailure locates a parse failure. Line and Column are 1-based, Offset
// counts runes from the start of the file.
type JSONFailure struct {
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Offset   int      `json:"offset"`
	Expected []string `json:"expected"`
	Found    string   `json:"found"`
	Source   string   `json:"source,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int            `json:"filesChecked"`
	FilesParsed  int            `json:"filesParsed"`
	FilesFailed  int            `json:"filesFailed"`
	FilesErrored int            `json:"filesErrored"`
	Nodes        int            `json:"nodes"`
	NodesByKind  map[string]int `json:"nodesByKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return failedFiles(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{NodesByKind: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{Path: r.opts.displayPath(file.Path)}

		switch {
		case file.Error != nil:
			entry.Error = file.Error.Error()
		case file.Failure != nil:
			failure := file.Failure
			entry.Failure = &JSONFailure{
				Line:     failure.Index.Line,
				Column:   failure.Index.Column,
				Offset:   failure.Index.Offset,
				Expected: failure.Expected,
				Found:    failure.Found,
			}
			if r.opts.ShowContext {
				entry.Failure.Source = sourceLine(file.Source, failure.Index.Line)
			}
		case file.Root != nil:
			entry.Parsed = true
			entry.Nodes = texast.Count(file.Root)
		}

		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary.FilesChecked = len(result.Files)
	output.Summary.FilesParsed = stats.FilesParsed
	output.Summary.FilesFailed = stats.FilesFailed
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.Nodes = stats.Nodes
	for kind, count := range stats.NodesByKind {
		output.Summary.NodesByKind[kind] = count
	}

	return output
}
