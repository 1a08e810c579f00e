package extract

import (
	"strconv"
	"strings"

	"github.com/yaklabco/texviz/pkg/texast"
)

// sizeTolerance absorbs float rounding when cell sizes are summed.
const sizeTolerance = 1e-9

func (x *extractor) grid(node *texast.Node) {
	size, _ := slotText(node.Parameters(), 0)
	grid := Grid{
		Size:  size,
		Rows:  []GridRow{},
		Range: node.Range().EditorRange(),
	}

	for _, child := range node.Environment().Content.Elements() {
		if !x.expectChild(node, child, "row") {
			continue
		}
		grid.Rows = append(grid.Rows, x.gridRow(child))
	}

	if len(grid.Rows) == 0 {
		x.warn(node, "has no rows")
	}
	x.result.Grids = append(x.result.Grids, grid)
}

func (x *extractor) gridRow(node *texast.Node) GridRow {
	size, _ := slotText(node.Parameters(), 0)
	row := GridRow{Size: size, Cells: []GridCell{}}

	total := 0.0
	measurable := true
	for _, child := range node.Environment().Content.Elements() {
		if !x.expectChild(node, child, "cell") {
			continue
		}

		cellSize, _ := slotText(child.Parameters(), 0)
		row.Cells = append(row.Cells, GridCell{
			Size:    cellSize,
			Content: strings.TrimSpace(x.text(child.Environment().Content)),
		})

		value, err := strconv.ParseFloat(cellSize, 64)
		if err != nil {
			measurable = false
			x.warn(child, "size %q is not a number", cellSize)
			continue
		}
		total += value
	}

	switch {
	case len(row.Cells) == 0:
		x.warn(node, "has no cells")
	case measurable && total > 1+sizeTolerance:
		x.warn(node, "cell sizes sum to %.4g", total)
	}
	return row
}

// expectChild reports whether child is the environment want. Whitespace and
// comments are skipped silently; anything else is reported.
func (x *extractor) expectChild(parent, child *texast.Node, want string) bool {
	switch child.Kind() {
	case texast.NodeWhitespace, texast.NodeComment:
		return false
	case texast.NodeEnvironment:
		if child.Name() == want {
			return true
		}
	default:
	}
	x.warn(parent, "contains %s %q outside a %s", child.Kind(), strings.TrimSpace(x.text(child)), want)
	return false
}
