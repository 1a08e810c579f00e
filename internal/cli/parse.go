package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texviz/internal/ui/pretty"
	"github.com/yaklabco/texviz/pkg/config"
	"github.com/yaklabco/texviz/pkg/texast"
)

// Tree output formats.
const (
	treeFormatTree = "tree"
	treeFormatJSON = "json"
	treeFormatYAML = "yaml"
	treeFormatDump = "dump"
)

type parseFlags struct {
	format   string
	maxDepth int
	noRanges bool
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Parse a LaTeX file and print its syntax tree",
		Long: `Parse a LaTeX file and print its syntax tree.

Reads standard input when FILE is omitted or "-". Ranges are shown as
[line:column, line:column) with zero-based lines and columns counted in
characters. A parse failure is printed with its location and the constructs
the parser expected there.

Examples:
  texviz parse paper.tex                  # Tree with ranges
  texviz parse paper.tex --max-depth 2    # Only the outer structure
  texviz parse --format json < paper.tex  # Machine-readable tree
  texviz parse paper.tex --format dump    # Go-syntax debug dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", treeFormatTree, "output format: tree, json, yaml, dump")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum tree depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.noRanges, "no-ranges", false, "hide node ranges in tree output")

	return cmd
}

func runParse(cmd *cobra.Command, path string, flags *parseFlags) error {
	if err := checkFormat(flags.format, treeFormatTree, treeFormatJSON, treeFormatYAML, treeFormatDump); err != nil {
		return err
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("max-depth") {
		cliCfg.MaxDepth = flags.maxDepth
	}

	cfg, err := loadConfig(cmd, cliCfg)
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

	out := cmd.OutOrStdout()
	if flags.format == treeFormatTree {
		styles := stylesFor(cmd, out)
		_, err := fmt.Fprint(out, styles.FormatTree(root, pretty.TreeOptions{
			MaxDepth:   cfg.MaxDepth,
			Width:      pretty.TerminalWidth(out),
			ShowRanges: !flags.noRanges,
		}))
		return err
	}
	return writeStructured(out, flags.format, texast.Export(root, exportDepth(cfg.MaxDepth)))
}

// writeStructured encodes value as json, yaml or a litter dump.
func writeStructured(w io.Writer, format string, value any) error {
	switch format {
	case treeFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil

	case treeFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil

	case treeFormatDump:
		dumper := litter.Options{
			StripPackageNames: true,
			HidePrivateFields: true,
			Separator:         " ",
		}
		_, err := fmt.Fprintln(w, dumper.Sdump(value))
		return err

	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}
}
