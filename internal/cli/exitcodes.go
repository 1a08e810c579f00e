package cli

import (
	"errors"

	"github.com/yaklabco/texviz/internal/configloader"
	"github.com/yaklabco/texviz/pkg/fsutil"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/runner"
)

// Exit codes for texviz.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitParseFailures indicates the input was read but did not parse.
	ExitParseFailures = 1

	// ExitRangesDiverged indicates replay --reparse found tracked ranges that
	// differ from a fresh parse.
	ExitRangesDiverged = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrParseFailuresFound is returned when at least one input failed to parse.
// The failures have already been reported.
var ErrParseFailuresFound = errors.New("parse failures found")

// errUsage marks errors caused by bad flags or arguments.
var errUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasFailures() {
		return ExitParseFailures
	}
	return ExitSuccess
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	var (
		failure    *latex.ParsingFailure
		validation *configloader.ValidationError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseFailuresFound), errors.As(err, &failure):
		return ExitParseFailures
	case errors.Is(err, ErrRangesDiverged):
		return ExitRangesDiverged
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	case errors.As(err, &validation), errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
