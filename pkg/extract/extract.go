// Package extract pulls images, tables and grid layouts out of a parsed tree.
//
// Extraction never fails on odd structure: whatever can be read is returned
// and each mismatch is described in Result.Warnings.
package extract

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

// Result holds everything extracted from one document.
type Result struct {
	Images   []Image  `json:"images" yaml:"images"`
	Tables   []Table  `json:"tables" yaml:"tables"`
	Grids    []Grid   `json:"grids" yaml:"grids"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Image is one \includegraphics.
type Image struct {
	Path    string             `json:"path" yaml:"path"`
	Options []Option           `json:"options,omitempty" yaml:"options,omitempty"`
	Range   texpos.EditorRange `json:"range" yaml:"range"`
}

// Option is one entry of a key=value list. Bare values have an empty Value.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Table is one tabular environment split into rows and cells.
type Table struct {
	Columns     string             `json:"columns" yaml:"columns"`
	ColumnCount int                `json:"column_count" yaml:"column_count"`
	Rows        [][]string         `json:"rows" yaml:"rows"`
	Range       texpos.EditorRange `json:"range" yaml:"range"`
}

// Grid is one gridlayout environment.
type Grid struct {
	Size  string             `json:"size,omitempty" yaml:"size,omitempty"`
	Rows  []GridRow          `json:"rows" yaml:"rows"`
	Range texpos.EditorRange `json:"range" yaml:"range"`
}

// GridRow is a row of a grid layout.
type GridRow struct {
	Size  string     `json:"size" yaml:"size"`
	Cells []GridCell `json:"cells" yaml:"cells"`
}

// GridCell is a cell of a grid row with its trimmed source.
type GridCell struct {
	Size    string `json:"size" yaml:"size"`
	Content string `json:"content" yaml:"content"`
}

// Extract walks root once and collects images, tables and grids. text must
// be the source root was parsed from.
func Extract(root *texast.Node, text string) *Result {
	x := &extractor{source: []rune(text), result: &Result{
		Images: []Image{},
		Tables: []Table{},
		Grids:  []Grid{},
	}}

	texast.VisitTree(root, &texast.Dispatcher{
		Command: func(node *texast.Node, _ int) {
			if node.Name() == `\includegraphics` {
				x.image(node)
			}
		},
		Environment: func(node *texast.Node, _ int) {
			switch node.Name() {
			case "tabular":
				x.table(node)
			case "gridlayout":
				x.grid(node)
			}
		},
	})

	return x.result
}

type extractor struct {
	source []rune
	result *Result
}

func (x *extractor) warn(node *texast.Node, format string, args ...any) {
	where := node.Range().From.EditorPosition()
	msg := fmt.Sprintf(format, args...)
	x.result.Warnings = append(x.result.Warnings,
		fmt.Sprintf("%d:%d: %s %s", where.Line+1, where.Character+1, node.Name(), msg))
}

// text returns the source of node, or "" if its range has no offsets.
func (x *extractor) text(node *texast.Node) string {
	from, err := node.Range().From.Offset()
	if err != nil {
		return ""
	}
	to, err := node.Range().To.Offset()
	if err != nil || from < 0 || to > len(x.source) || to < from {
		return ""
	}
	return string(x.source[from:to])
}

// slotText returns the raw text of a present raw-text parameter slot.
func slotText(slots []texast.Slot, i int) (string, bool) {
	if i >= len(slots) || !slots[i].Present() {
		return "", false
	}
	inner := slots[i].Node().Wrapped()
	if inner == nil {
		return "", true
	}
	return strings.TrimSpace(inner.Text()), true
}
