package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texviz/internal/configloader"
	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/internal/ui/pretty"
	"github.com/yaklabco/texviz/pkg/config"
	"github.com/yaklabco/texviz/pkg/fsutil"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
)

// stdinPath is the argument that selects standard input.
const stdinPath = "-"

// errConfig marks errors caused by configuration.
var errConfig = errors.New("configuration error")

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for cmd, with cliCfg holding the
// values of flags the user actually set.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

// newParser builds a parser whose registry includes the configured
// environments and commands.
func newParser(cfg *config.Config) (*latex.Parser, error) {
	registry, err := latex.RegistryFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	return latex.New(registry), nil
}

// source is one input document as read from disk or stdin.
type source struct {
	// path is empty for stdin.
	path string
	text string
	snap *fsutil.Snapshot
}

// display returns the name used in messages.
func (s *source) display() string {
	if s.path == "" {
		return "<stdin>"
	}
	return s.path
}

func readSource(cmd *cobra.Command, path string) (*source, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &source{text: string(content)}, nil
	}

	content, snap, err := fsutil.ReadFile(commandContext(cmd), path)
	if err != nil {
		return nil, err
	}
	return &source{path: path, text: string(content), snap: snap}, nil
}

// parseSource parses src, printing a parse failure with its source context.
func parseSource(cmd *cobra.Command, parser *latex.Parser, src *source) (*texast.Node, error) {
	root, err := parser.Parse(commandContext(cmd), src.display(), []byte(src.text))
	if err != nil {
		return nil, reportParseError(cmd, src, err)
	}
	logging.FromContext(commandContext(cmd)).Debug("parsed",
		logging.FieldPath, src.display(),
		logging.FieldNodes, texast.Count(root))
	return root, nil
}

// reportParseError prints a ParsingFailure and turns it into
// ErrParseFailuresFound. Other errors are returned unchanged.
func reportParseError(cmd *cobra.Command, src *source, err error) error {
	var failure *latex.ParsingFailure
	if !errors.As(err, &failure) {
		return err
	}

	styles := stylesFor(cmd, cmd.ErrOrStderr())
	line := sourceLine(src.text, failure.Index.Line)
	fmt.Fprint(cmd.ErrOrStderr(), styles.FormatFailure(src.display(), failure, line))
	return ErrParseFailuresFound
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

func stylesFor(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
}

// sourceLine returns the 1-based line of text without its line ending.
func sourceLine(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

// exportDepth maps a configured depth, where zero means unlimited, to a
// traversal bound.
func exportDepth(maxDepth int) int {
	if maxDepth <= 0 {
		return texast.Unbounded
	}
	return maxDepth
}

func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return fmt.Errorf("%w: unknown format %q (valid: %s)", errUsage, format, strings.Join(allowed, ", "))
}
