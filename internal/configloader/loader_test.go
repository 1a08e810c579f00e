package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/config"
)

// repo creates a temp dir marked as a VCS root so the upward search stops there.
func repo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func isolated(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(repo(t)))
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Paths.Project)
}

func TestLoad_ProjectConfigSearchesUpward(t *testing.T) {
	t.Parallel()

	root := repo(t)
	projectPath := writeFile(t, filepath.Join(root, ".texviz.yml"), `
extensions: [.tex, .sty]
ignore: ["build/**"]
detect_content: true
max_depth: 3
commands:
  - name: \href
    parameters:
      - name: url
      - name: label
`)
	workDir := filepath.Join(root, "chapters", "one")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	result, err := Load(context.Background(), isolated(workDir))
	require.NoError(t, err)

	assert.Equal(t, projectPath, result.Paths.Project)
	assert.Equal(t, []string{projectPath}, result.LoadedFrom)

	cfg := result.Config
	assert.Equal(t, []string{".tex", ".sty"}, cfg.Extensions)
	assert.Equal(t, []string{"build/**"}, cfg.Ignore)
	assert.True(t, cfg.DetectContent)
	assert.Equal(t, 3, cfg.MaxDepth)
	require.Len(t, cfg.Commands, 1)
	assert.Equal(t, `\href`, cfg.Commands[0].Name)
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".texviz.yml"), "max_depth: 9\n")
	inner := filepath.Join(outer, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(inner))
	require.NoError(t, err)
	assert.Empty(t, result.Paths.Project)
	assert.Zero(t, result.Config.MaxDepth)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	root := repo(t)
	project := writeFile(t, filepath.Join(root, ".texviz.yml"), `
max_depth: 2
environments:
  - name: minipage
    parameters: [{name: width}]
  - name: figure
`)
	explicit := writeFile(t, filepath.Join(root, "ci.yml"), `
max_depth: 5
environments:
  - name: minipage
    parameters: [{name: pos, delimiter: square, optional: true}, {name: width}]
`)

	opts := isolated(root)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 4, Format: config.FormatJSON}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{project, explicit}, result.LoadedFrom)
	cfg := result.Config
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, config.FormatJSON, cfg.Format)

	require.Len(t, cfg.Environments, 2)
	assert.Equal(t, "minipage", cfg.Environments[0].Name)
	assert.Len(t, cfg.Environments[0].Parameters, 2)
	assert.Equal(t, "figure", cfg.Environments[1].Name)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TEXVIZ_JOBS", "3")
	t.Setenv("TEXVIZ_IGNORE", " drafts/**, *.bak ,")
	t.Setenv("TEXVIZ_DETECT_CONTENT", "true")
	t.Setenv("TEXVIZ_FORMAT", "markdown")

	opts := isolated(repo(t))
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{Jobs: 8}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Config.Jobs)
	assert.Equal(t, []string{"drafts/**", "*.bak"}, result.Config.Ignore)
	assert.True(t, result.Config.DetectContent)
	assert.Equal(t, config.FormatMarkdown, result.Config.Format)

	t.Setenv("TEXVIZ_JOBS", "many")
	_, err = Load(context.Background(), opts)
	require.ErrorContains(t, err, "TEXVIZ_JOBS")

	t.Setenv("TEXVIZ_JOBS", "")
	t.Setenv("TEXVIZ_FORMAT", "sarif")
	_, err = Load(context.Background(), opts)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "format", validationErr.Field)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
		message string
	}{
		{name: "unknown key", content: "rules: {}\n", message: "field rules not found"},
		{name: "cli-only key", content: "jobs: 2\n", message: "field jobs not found"},
		{name: "malformed", content: "extensions: [\n", message: "parse YAML"},
		{
			name:    "bad delimiter",
			content: "commands:\n  - name: \\href\n    parameters: [{delimiter: angle}]\n",
			field:   "commands[0].parameters[0].delimiter",
			message: "unknown delimiter",
		},
		{
			name:    "reserved environment",
			content: "environments:\n  - name: end\n",
			field:   "environments[0]",
			message: "environment name",
		},
		{name: "bad extension", content: "extensions: [tex]\n", field: "extensions[0]", message: "must start with a dot"},
		{name: "bad glob", content: "ignore: [\"[\"]\n", field: "ignore[0]", message: "invalid glob"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			root := repo(t)
			path := writeFile(t, filepath.Join(root, ".texviz.yml"), testCase.content)

			_, err := Load(context.Background(), isolated(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.message)

			if testCase.field != "" {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, testCase.field, validationErr.Field)
				assert.Equal(t, path, validationErr.FilePath)
			}
		})
	}
}

func TestLoad_EmptyFileAndWarnings(t *testing.T) {
	t.Parallel()

	root := repo(t)
	writeFile(t, filepath.Join(root, ".texviz.yml"), "")
	explicit := writeFile(t, filepath.Join(root, "dup.yml"), "commands:\n  - name: \\a\n  - name: \\a\n")

	opts := isolated(root)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "declared more than once")
	assert.Len(t, result.LoadedFrom, 2)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	base := config.NewConfig()
	base.DetectContent = true
	override := &config.Config{Ignore: []string{}, MaxDepth: 2}

	merged := MergeAll(base, override, nil)
	assert.True(t, merged.DetectContent)
	assert.Equal(t, []string{}, merged.Ignore)
	assert.Equal(t, 2, merged.MaxDepth)
	assert.Equal(t, config.DefaultExtensions(), merged.Extensions)
	assert.Nil(t, merged.Commands)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).Valid())
	assert.True(t, Validate(config.NewConfig()).Valid())

	cfg := config.NewConfig()
	cfg.Jobs = -1
	cfg.MaxDepth = -2
	result := Validate(cfg)
	assert.False(t, result.Valid())
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, []string{
		"error: jobs: jobs must be >= 0 (0 means auto)",
		"error: max_depth: max_depth must be >= 0 (0 means unlimited)",
	}, result.AllMessages())

	assert.True(t, IsValidFormat(config.FormatHTML))
	assert.False(t, IsValidFormat("sarif"))
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	names := EnvVarNames()
	assert.Equal(t, "TEXVIZ_DETECT_CONTENT", names[0])
	assert.Len(t, ListEnvVars(), len(names))
	assert.Contains(t, ListEnvVars(), "TEXVIZ_MAX_DEPTH")
}
