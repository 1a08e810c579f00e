package extract

import (
	"strings"

	"github.com/yaklabco/texviz/pkg/texast"
)

// ruleCommands draw lines between rows and carry no cell content.
var ruleCommands = map[string]bool{
	`\hline`:      true,
	`\toprule`:    true,
	`\midrule`:    true,
	`\bottomrule`: true,
}

func (x *extractor) table(node *texast.Node) {
	columns, _ := slotText(node.Parameters(), 0)
	table := Table{
		Columns:     columns,
		ColumnCount: countColumns(columns),
		Rows:        [][]string{},
		Range:       node.Range().EditorRange(),
	}

	var (
		row  []string
		cell strings.Builder
	)
	endCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}

	for _, element := range node.Environment().Content.Elements() {
		switch {
		case element.Kind() == texast.NodeSpecialSymbol && element.Name() == "ampersand":
			endCell()
		case element.Kind() == texast.NodeCommand && element.Name() == `\\`:
			endCell()
			table.Rows = append(table.Rows, row)
			row = nil
		case element.Kind() == texast.NodeComment:
		case element.Kind() == texast.NodeCommand && ruleCommands[element.Name()]:
		default:
			cell.WriteString(x.text(element))
		}
	}

	// A last row without a closing \\ only counts if it has content.
	endCell()
	if len(row) > 1 || row[0] != "" {
		table.Rows = append(table.Rows, row)
	}

	for i, cells := range table.Rows {
		if table.ColumnCount > 0 && len(cells) > table.ColumnCount {
			x.warn(node, "row %d has %d cells but %d columns are declared", i+1, len(cells), table.ColumnCount)
		}
	}

	x.result.Tables = append(x.result.Tables, table)
}

// countColumns counts the column letters of a tabular preamble, ignoring
// anything inside braces such as p{3cm} widths or @{} separators.
func countColumns(spec string) int {
	count := 0
	depth := 0
	for _, r := range spec {
		switch {
		case r == '{':
			depth++
		case r == '}':
			depth = max(depth-1, 0)
		case depth == 0 && strings.ContainsRune("lcrpmbX", r):
			count++
		}
	}
	return count
}
