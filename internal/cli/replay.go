package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/internal/ui/pretty"
	"github.com/yaklabco/texviz/pkg/document"
	"github.com/yaklabco/texviz/pkg/edit"
	"github.com/yaklabco/texviz/pkg/fsutil"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

// ErrRangesDiverged is returned by replay --reparse when the tracked tree no
// longer lines up with a fresh parse of the edited text.
var ErrRangesDiverged = errors.New("tracked ranges differ from a fresh parse")

// maxMismatchesShown bounds the mismatches listed by replay --reparse.
const maxMismatchesShown = 5

type replayFlags struct {
	reparse bool
	write   bool
	format  string
}

// scriptPosition is a zero-based line and column (in characters).
type scriptPosition struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

// scriptEdit is one entry of a replay script. It is addressed either by
// Start/End positions or by a rune Offset and Length; End defaults to Start.
type scriptEdit struct {
	Start  *scriptPosition `yaml:"start"`
	End    *scriptPosition `yaml:"end"`
	Offset *int            `yaml:"offset"`
	Length int             `yaml:"length"`
	Text   string          `yaml:"text"`
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay FILE SCRIPT",
		Short: "Replay an edit script against a parsed file",
		Long: `Parse FILE, then apply the edits listed in SCRIPT one after another,
shifting node ranges instead of reparsing. Each edit addresses the text as it
is after the previous edits.

SCRIPT is a YAML list. An edit uses either zero-based positions or a
character offset:

  - start: {line: 3, column: 10}
    end: {line: 3, column: 14}
    text: "0.6"
  - offset: 120
    length: 0
    text: "\\centering\n"

For every edit texviz prints how many nodes lay before, within, across or
after it. --reparse parses the edited text afresh and compares every range
with the tracked tree.

Examples:
  texviz replay paper.tex edits.yml
  texviz replay paper.tex edits.yml --reparse
  texviz replay paper.tex edits.yml --write`,
		Args: cobra.ExactArgs(2), //nolint:mnd // FILE and SCRIPT.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.reparse, "reparse", false, "compare tracked ranges with a fresh parse")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the edited text back to FILE")
	cmd.Flags().StringVar(&flags.format, "format", treeFormatTree, "output format: tree, json, yaml")

	return cmd
}

// replayOutput is the structured result of replay.
type replayOutput struct {
	Edits   []document.ChangeReport `json:"edits" yaml:"edits"`
	Total   texast.EditReport       `json:"total" yaml:"total"`
	Reparse *reparseOutcome         `json:"reparse,omitempty" yaml:"reparse,omitempty"`
	Tree    *texast.ExportedNode    `json:"tree" yaml:"tree"`
}

// reparseOutcome compares the tracked tree with a fresh parse.
type reparseOutcome struct {
	Parsed     bool            `json:"parsed" yaml:"parsed"`
	Nodes      int             `json:"nodes" yaml:"nodes"`
	Mismatches []rangeMismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

type rangeMismatch struct {
	Tracked string `json:"tracked" yaml:"tracked"`
	Fresh   string `json:"fresh" yaml:"fresh"`
}

func runReplay(cmd *cobra.Command, path, scriptPath string, flags *replayFlags) error {
	if err := checkFormat(flags.format, treeFormatTree, treeFormatJSON, treeFormatYAML); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

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
	if flags.write && src.snap == nil {
		return fmt.Errorf("%w: --write needs a file, not stdin", errUsage)
	}

	script, err := readScript(cmd, scriptPath)
	if err != nil {
		return err
	}

	doc, err := document.Open(ctx, src.text,
		document.WithParser(parser),
		document.WithLogger(logger),
		document.WithPath(src.display()))
	if err != nil {
		return reportParseError(cmd, src, err)
	}

	output := &replayOutput{Edits: make([]document.ChangeReport, 0, len(script))}
	for i, step := range script {
		report, err := applyScriptEdit(doc, step)
		if err != nil {
			return fmt.Errorf("edit %d: %w", i+1, err)
		}
		output.Edits = append(output.Edits, report)
		output.Total.Add(report.Relations)
	}

	if flags.reparse {
		output.Reparse, err = compareWithFreshParse(cmd, parser, doc, src)
		if err != nil {
			return err
		}
	}
	output.Tree = texast.Export(doc.Root(), exportDepth(cfg.MaxDepth))

	out := cmd.OutOrStdout()
	if flags.format == treeFormatTree {
		printReplay(cmd, out, doc, output, cfg.MaxDepth)
	} else if err := writeStructured(out, flags.format, output); err != nil {
		return err
	}

	if flags.write {
		written, err := fsutil.Replace(ctx, src.snap, []byte(doc.Text()))
		if err != nil {
			return fmt.Errorf("write %s: %w", src.path, err)
		}
		logger.Debug("write finished", logging.FieldPath, src.path, "written", written)
	}

	if output.Reparse != nil {
		if !output.Reparse.Parsed {
			return ErrParseFailuresFound
		}
		if len(output.Reparse.Mismatches) > 0 {
			return ErrRangesDiverged
		}
	}
	return nil
}

// readScript decodes a replay script. Unknown keys are rejected.
func readScript(cmd *cobra.Command, path string) ([]scriptEdit, error) {
	var content []byte
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		content = data
	} else {
		data, _, err := fsutil.ReadFile(commandContext(cmd), path)
		if err != nil {
			return nil, err
		}
		content = data
	}

	var script []scriptEdit
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse script %s: %w", errUsage, path, err)
	}
	return script, nil
}

func applyScriptEdit(doc *document.Document, step scriptEdit) (document.ChangeReport, error) {
	switch {
	case step.Start != nil && step.Offset != nil:
		return document.ChangeReport{}, fmt.Errorf("%w: use either start/end or offset/length", errUsage)

	case step.Start != nil:
		end := step.Start
		if step.End != nil {
			end = step.End
		}
		rng := texpos.EditorRange{
			Start: texpos.EditorPosition{Line: step.Start.Line, Character: step.Start.Column},
			End:   texpos.EditorPosition{Line: end.Line, Character: end.Column},
		}
		return doc.ApplyEditorChange(rng, step.Text)

	case step.Offset != nil:
		if step.End != nil {
			return document.ChangeReport{}, fmt.Errorf("%w: end needs start", errUsage)
		}
		return doc.ApplyEdit(edit.TextEdit{
			Start:   *step.Offset,
			End:     *step.Offset + step.Length,
			NewText: step.Text,
		})

	default:
		return document.ChangeReport{}, fmt.Errorf("%w: edit needs start or offset", errUsage)
	}
}

// compareWithFreshParse parses the edited text and lines its nodes up with
// the tracked tree in traversal order.
func compareWithFreshParse(cmd *cobra.Command, parser *latex.Parser, doc *document.Document, src *source) (*reparseOutcome, error) {
	edited := &source{path: src.path, text: doc.Text()}

	fresh, err := parser.Parse(commandContext(cmd), edited.display(), []byte(edited.text))
	if err != nil {
		if reportErr := reportParseError(cmd, edited, err); !errors.Is(reportErr, ErrParseFailuresFound) {
			return nil, reportErr
		}
		return &reparseOutcome{}, nil
	}

	tracked := &texast.Collector{}
	texast.VisitTree(doc.Root(), tracked)
	parsed := &texast.Collector{}
	texast.VisitTree(fresh, parsed)

	outcome := &reparseOutcome{Parsed: true, Nodes: len(parsed.Nodes)}
	formatter := &texast.Formatter{MaxTextLen: 30, ShowRanges: true}

	for i := range max(len(tracked.Nodes), len(parsed.Nodes)) {
		var mismatch rangeMismatch
		switch {
		case i >= len(tracked.Nodes):
			mismatch = rangeMismatch{Tracked: "(missing)", Fresh: formatter.Line(parsed.Nodes[i])}
		case i >= len(parsed.Nodes):
			mismatch = rangeMismatch{Tracked: formatter.Line(tracked.Nodes[i]), Fresh: "(missing)"}
		case !sameNode(tracked.Nodes[i], parsed.Nodes[i]):
			mismatch = rangeMismatch{Tracked: formatter.Line(tracked.Nodes[i]), Fresh: formatter.Line(parsed.Nodes[i])}
		default:
			continue
		}
		outcome.Mismatches = append(outcome.Mismatches, mismatch)
	}

	return outcome, nil
}

func sameNode(tracked, fresh *texast.Node) bool {
	if tracked.Kind() != fresh.Kind() || tracked.Name() != fresh.Name() {
		return false
	}
	if tracked.Range() == nil || fresh.Range() == nil {
		return tracked.Range() == fresh.Range()
	}
	return tracked.Range().SameSpan(fresh.Range())
}

func printReplay(cmd *cobra.Command, out io.Writer, doc *document.Document, output *replayOutput, maxDepth int) {
	styles := stylesFor(cmd, out)

	for i, report := range output.Edits {
		fmt.Fprintf(out, "%s %s  %s\n",
			styles.Label.Render(fmt.Sprintf("edit %d", i+1)),
			styles.Dim.Render(report.Edit.String()),
			styles.FormatRelations(report.Relations))
	}
	if len(output.Edits) > 1 {
		fmt.Fprintf(out, "%s  %s\n", styles.Bold.Render("total"), styles.FormatRelations(output.Total))
	}
	if len(output.Edits) > 0 {
		fmt.Fprintln(out)
	}

	fmt.Fprint(out, styles.FormatTree(doc.Root(), pretty.TreeOptions{
		MaxDepth:   maxDepth,
		Width:      pretty.TerminalWidth(out),
		ShowRanges: true,
	}))

	if output.Reparse == nil || !output.Reparse.Parsed {
		return
	}
	fmt.Fprintln(out)
	if len(output.Reparse.Mismatches) == 0 {
		fmt.Fprintln(out, styles.Success.Render(
			fmt.Sprintf("Ranges match a fresh parse (%d nodes)", output.Reparse.Nodes)))
		return
	}

	fmt.Fprintln(out, styles.Failure.Render(fmt.Sprintf("%d %s differ from a fresh parse",
		len(output.Reparse.Mismatches), plural(len(output.Reparse.Mismatches), "node", "nodes"))))
	for _, mismatch := range output.Reparse.Mismatches[:min(len(output.Reparse.Mismatches), maxMismatchesShown)] {
		fmt.Fprintf(out, "  %s %s\n  %s %s\n",
			styles.Label.Render("tracked"), mismatch.Tracked,
			styles.Label.Render("fresh  "), mismatch.Fresh)
	}
}
