package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/internal/cli"
	"github.com/yaklabco/texviz/internal/configloader"
	"github.com/yaklabco/texviz/pkg/fsutil"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "texviz", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"parse", "find", "replay", "check", "extract", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"parse":   {"format", "max-depth", "no-ranges"},
		"find":    {"kind", "name", "limit", "format"},
		"replay":  {"reparse", "write", "format"},
		"check":   {"format", "jobs", "ignore", "include", "detect-content", "no-context", "verbose"},
		"extract": {"format"},
		"init":    {"force", "format", "output"},
	}

	cmd := cli.NewRootCommand(testInfo())
	for name, flags := range tests {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		for _, flag := range flags {
			assert.NotNil(t, subCmd.Flags().Lookup(flag), "%s --%s", name, flag)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, flagName := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flagName), "global flag %q", flagName)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
	assert.Contains(t, out.String(), "environments=5")

	short := cli.NewRootCommand(testInfo())
	short.SetArgs([]string{"version", "--short"})
	out.Reset()
	short.SetOut(&out)
	require.NoError(t, short.Execute())
	assert.Equal(t, "1.2.3\n", out.String())
}

func TestHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--color", "never", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Available Commands:")
	assert.Contains(t, help, "replay")
	assert.Contains(t, help, "Environment:")
	assert.Contains(t, help, "TEXVIZ_JOBS")
	assert.Contains(t, help, "--config string")
}

func TestCheckCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	assert.NoError(t, checkCmd.Args(checkCmd, []string{"a.tex", "b.tex", "chapters/"}))
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "parse failures", err: cli.ErrParseFailuresFound, want: cli.ExitParseFailures},
		{name: "parsing failure", err: fmt.Errorf("wrapped: %w", &latex.ParsingFailure{}), want: cli.ExitParseFailures},
		{name: "ranges diverged", err: cli.ErrRangesDiverged, want: cli.ExitRangesDiverged},
		{name: "config", err: &configloader.ValidationError{Field: "jobs"}, want: cli.ExitConfigError},
		{name: "missing file", err: fmt.Errorf("read: %w", fsutil.ErrNotFound), want: cli.ExitIOError},
		{name: "modified file", err: fsutil.ErrModified, want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCodeFromError(testCase.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{}))

	failed := &runner.Result{Stats: runner.Stats{FilesFailed: 1}}
	assert.Equal(t, cli.ExitParseFailures, cli.ExitCodeFromResult(failed))
}
