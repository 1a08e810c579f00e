package texast

import "github.com/yaklabco/texviz/pkg/texpos"

// ExportedPosition is the serializable form of a live position.
type ExportedPosition struct {
	Line   int          `json:"line" yaml:"line"`
	Column int          `json:"column" yaml:"column"`
	Offset *int         `json:"offset,omitempty" yaml:"offset,omitempty"`
	Shift  texpos.Shift `json:"shift" yaml:"shift"`
}

// ExportedRange is the serializable form of a live range.
type ExportedRange struct {
	From ExportedPosition `json:"from" yaml:"from"`
	To   ExportedPosition `json:"to" yaml:"to"`
}

// ExportedNode is a plain-data snapshot of a node and its subtree, suitable
// for encoding/json, yaml.v3 and debug dumps.
type ExportedNode struct {
	ID         uint64            `json:"id" yaml:"id"`
	Kind       NodeKind          `json:"kind" yaml:"kind"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Text       *string           `json:"text,omitempty" yaml:"text,omitempty"`
	Empty      bool              `json:"empty,omitempty" yaml:"empty,omitempty"`
	Range      ExportedRange     `json:"range" yaml:"range"`
	Edited     string            `json:"edited,omitempty" yaml:"edited,omitempty"`
	Parameters [][]*ExportedNode `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Children   []*ExportedNode   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export snapshots the subtree under n down to maxDepth.
// Command and Environment parameters keep their slot shape, so an absent
// optional parameter is an empty list.
func Export(n *Node, maxDepth int) *ExportedNode {
	return export(n, 0, maxDepth)
}

func export(n *Node, depth, maxDepth int) *ExportedNode {
	out := &ExportedNode{
		ID:    n.id,
		Kind:  n.kind,
		Name:  n.name,
		Empty: n.IsEmpty(),
		Range: exportRange(n.rng),
	}
	if s, ok := n.value.(StringValue); ok {
		text := string(s)
		out.Text = &text
	}
	switch {
	case n.editedAcrossRange:
		out.Edited = "across"
	case n.editedWithinRange:
		out.Edited = "within"
	}

	if depth >= maxDepth {
		return out
	}

	switch v := n.value.(type) {
	case *CommandValue:
		out.Parameters = exportSlots(v.Parameters, depth, maxDepth)
	case *EnvironmentValue:
		out.Parameters = exportSlots(v.Parameters, depth, maxDepth)
		out.Children = []*ExportedNode{
			export(v.Begin, depth+1, maxDepth),
			export(v.Content, depth+1, maxDepth),
			export(v.End, depth+1, maxDepth),
		}
	default:
		for _, child := range n.Children() {
			out.Children = append(out.Children, export(child, depth+1, maxDepth))
		}
	}

	return out
}

func exportSlots(slots []Slot, depth, maxDepth int) [][]*ExportedNode {
	out := make([][]*ExportedNode, len(slots))
	for i, slot := range slots {
		out[i] = make([]*ExportedNode, 0, len(slot))
		for _, param := range slot {
			out[i] = append(out[i], export(param, depth+1, maxDepth))
		}
	}
	return out
}

func exportRange(rng *texpos.Range) ExportedRange {
	if rng == nil {
		return ExportedRange{}
	}
	return ExportedRange{From: exportPosition(rng.From), To: exportPosition(rng.To)}
}

func exportPosition(pos texpos.Position) ExportedPosition {
	out := ExportedPosition{Line: pos.Line(), Column: pos.Column(), Shift: pos.Shift()}
	if offset, err := pos.Offset(); err == nil {
		out.Offset = &offset
	}
	return out
}
