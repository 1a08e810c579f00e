package runner

import (
	"errors"
	"time"

	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
)

// FileOutcome is the result of parsing one file.
type FileOutcome struct {
	// Path is the absolute path of the file.
	Path string

	// Root is the parsed tree. Nil when parsing failed.
	Root *texast.Node

	// Source is the file content, kept so reporters can quote the
	// failing line.
	Source string

	// Failure is set when the content does not match the grammar.
	Failure *latex.ParsingFailure

	// Error is set when the file could not be read.
	Error error

	// Elapsed is the time spent reading and parsing.
	Elapsed time.Duration
}

// Parsed reports whether the file produced a tree.
func (o FileOutcome) Parsed() bool {
	return o.Root != nil
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int
	FilesErrored    int

	// Nodes is the total number of nodes across all parsed trees.
	Nodes int

	// NodesByKind maps kind names to counts.
	NodesByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats

	// Errors holds failures not tied to a single file.
	Errors []error
}

// HasFailures reports whether any file failed to parse or to be read.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.FilesErrored > 0
}

// Failures returns the outcomes that did not produce a tree.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, outcome := range r.Files {
		if !outcome.Parsed() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

func newStats() Stats {
	return Stats{NodesByKind: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Failure != nil:
		r.Stats.FilesFailed++
	case outcome.Root != nil:
		r.Stats.FilesParsed++
		_ = texast.Walk(outcome.Root, func(n *texast.Node) error {
			r.Stats.Nodes++
			r.Stats.NodesByKind[n.Kind().String()]++
			return nil
		})
	}
}

// classify splits a parse error into a grammar failure or an I/O error.
func classify(outcome *FileOutcome, err error) {
	var failure *latex.ParsingFailure
	if errors.As(err, &failure) {
		outcome.Failure = failure
		return
	}
	outcome.Error = err
}
