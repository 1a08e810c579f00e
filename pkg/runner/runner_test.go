package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/config"
	"github.com/yaklabco/texviz/pkg/fsutil"
	"github.com/yaklabco/texviz/pkg/runner"
)

const texDocument = "\\documentclass{article}\n\\begin{document}\nHello\n\\end{document}\n"

// writeTree creates files (relative path -> content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func abs(dir string, names ...string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(name)))
	}
	return paths
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.tex":              "x",
		"chapters/intro.ltx":    "x",
		"chapters/skip.tex":     "x",
		"chapters/appendix.TEX": "x",
		"notes.txt":             "x",
		"draft":                 texDocument,
		"prose":                 "just some words",
		".hidden/secret.tex":    "x",
		"vendor/pkg/style.tex":  "x",
		"drafts/old.tex":        "x",
	}
	dir := writeTree(t, files)

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions skip hidden and vendored trees",
			opts: runner.Options{},
			want: abs(dir, "chapters/appendix.TEX", "chapters/intro.ltx", "chapters/skip.tex", "drafts/old.tex", "main.tex"),
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"drafts/**", "**/skip.tex"}},
			want: abs(dir, "chapters/appendix.TEX", "chapters/intro.ltx", "main.tex"),
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"chapters/**"}},
			want: abs(dir, "chapters/appendix.TEX", "chapters/intro.ltx", "chapters/skip.tex"),
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".ltx"}},
			want: abs(dir, "chapters/intro.ltx"),
		},
		{
			name: "content detection",
			opts: runner.Options{Extensions: []string{".ltx"}, DetectContent: true},
			want: abs(dir, "chapters/intro.ltx", "draft"),
		},
		{
			name: "vendored trees on request",
			opts: runner.Options{Paths: []string{"vendor"}, IncludeVendored: true},
			want: abs(dir, "vendor/pkg/style.tex"),
		},
		{
			name: "explicit file is de-duplicated",
			opts: runner.Options{Paths: []string{"chapters", "chapters/intro.ltx"}, ExcludeGlobs: []string{"*.tex", "*.TEX"}},
			want: abs(dir, "chapters/intro.ltx"),
		},
		{
			name: "explicit file still needs a LaTeX extension",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := testCase.opts
			opts.WorkingDir = dir
			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDiscoverErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"nope"}})
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiscoverSymlinks(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"real/a.tex": "x"})
	root := filepath.Join(dir, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(root, "broken.tex")))

	got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "real/a.tex"), got)
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"good.tex":     "Hello",
		"bad.tex":      "\\begin{itemize}\nstill open",
		"sub/also.tex": "$x$",
	})

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesParsed)
	assert.Equal(t, 1, result.Stats.FilesFailed)
	assert.Zero(t, result.Stats.FilesErrored)
	assert.True(t, result.HasFailures())

	require.Len(t, result.Files, 3)
	assert.Equal(t, abs(dir, "bad.tex", "good.tex", "sub/also.tex"),
		[]string{result.Files[0].Path, result.Files[1].Path, result.Files[2].Path})

	// Latex+Text for good.tex; Latex+InlineMathBlock+Math for also.tex.
	assert.Equal(t, 5, result.Stats.Nodes)
	assert.Equal(t, 2, result.Stats.NodesByKind["Latex"])
	assert.Equal(t, 1, result.Stats.NodesByKind["Math"])

	failures := result.Failures()
	require.Len(t, failures, 1)
	bad := failures[0]
	require.NotNil(t, bad.Failure)
	assert.Nil(t, bad.Root)
	assert.Equal(t, filepath.Join(dir, "bad.tex"), bad.Failure.Path)
	assert.Equal(t, "\\begin{itemize}\nstill open", bad.Source)
	assert.Equal(t, 2, bad.Failure.Index.Line)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())

	var nilResult *runner.Result
	assert.False(t, nilResult.HasFailures())
	assert.Nil(t, nilResult.Failures())
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()

	outcome := runner.New(nil).ParseFile(context.Background(), filepath.Join(t.TempDir(), "gone.tex"))
	require.ErrorIs(t, outcome.Error, fsutil.ErrNotFound)
	assert.False(t, outcome.Parsed())
	assert.Nil(t, outcome.Failure)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"build/**"}
	cfg.DetectContent = true
	cfg.Jobs = 3

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, config.DefaultExtensions(), opts.Extensions)
	assert.Equal(t, []string{"build/**"}, opts.ExcludeGlobs)
	assert.True(t, opts.DetectContent)
	assert.Equal(t, 3, opts.Jobs)

	assert.Equal(t, runner.Options{Paths: []string{"x"}}, runner.OptionsFromConfig(nil, []string{"x"}))
}
