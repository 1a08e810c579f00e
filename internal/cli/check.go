package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/pkg/config"
	"github.com/yaklabco/texviz/pkg/reporter"
	"github.com/yaklabco/texviz/pkg/runner"
)

type checkFlags struct {
	format          string
	jobs            int
	ignore          []string
	include         []string
	detectContent   bool
	includeVendored bool
	followSymlinks  bool
	noContext       bool
	verbose         bool
	compact         bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check that LaTeX files parse",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Parse every LaTeX file under the given paths and report failures.

By default, checks all .tex, .ltx and .latex files in the current directory
and subdirectories, skipping hidden and vendored directories. With
--detect-content, files without a LaTeX extension are included when their
content looks like TeX.

Examples:
  texviz check                       # Check current directory
  texviz check chapters/             # Check one directory
  texviz check --ignore 'build/**'   # Skip generated sources
  texviz check --format json         # Output as JSON for CI
  texviz check --format html > r.html`

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	// Only flags the user set override configured values.
	cliCfg := &config.Config{Jobs: flags.jobs, DetectContent: flags.detectContent}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(format)
	}
	if cmd.Flags().Changed("ignore") {
		cliCfg.Ignore = flags.ignore
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	parser, err := newParser(cfg)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeGlobs = flags.include
	runOpts.IncludeVendored = flags.includeVendored
	runOpts.FollowSymlinks = flags.followSymlinks

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(parser).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(cfg.Format),
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseFailuresFound
	}
	return nil
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, markdown, html")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only check paths matching these globs")
	cmd.Flags().BoolVar(&flags.detectContent, "detect-content", false, "also check files whose content looks like TeX")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "descend into vendored directories")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symlinked directories")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "also list files that parsed")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output where the format allows")
}
