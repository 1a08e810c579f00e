package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/pkg/extract"
)

func newExtractCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract [FILE|-]",
		Short: "Extract images, tables and grid layouts",
		Long: `Extract the visual building blocks of a LaTeX file: \includegraphics
calls with their options, tabular environments split into rows and cells,
and gridlayout environments with their row and cell sizes.

Structure that does not fit the expected shape is reported under "warnings"
instead of being dropped silently.

Examples:
  texviz extract paper.tex
  texviz extract paper.tex --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runExtract(cmd, path, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", treeFormatJSON, "output format: json, yaml")

	return cmd
}

func runExtract(cmd *cobra.Command, path, format string) error {
	if err := checkFormat(format, treeFormatJSON, treeFormatYAML); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	parser, err := newParser(cfg)
	if err != nil {
		return err
	}
	src, err := readSource(cmd, path)
	if err != nil {
		return err
	}
	root, err := parseSource(cmd, parser, src)
	if err != nil {
		return err
	}

	result := extract.Extract(root, src.text)
	logging.FromContext(commandContext(cmd)).Debug("extracted",
		logging.FieldPath, src.display(),
		"images", len(result.Images),
		"tables", len(result.Tables),
		"grids", len(result.Grids),
		"warnings", len(result.Warnings))

	return writeStructured(cmd.OutOrStdout(), format, result)
}
