package texast

import (
	"fmt"

	"github.com/yaklabco/texviz/pkg/texpos"
)

// ProcessSourceFileEdit applies change to the node's own range and records
// the matching edit flag. Children are not visited.
// The name range of a Command moves along with the node.
func (n *Node) ProcessSourceFileEdit(change texpos.SourceFileChange) (texpos.ChangeRelation, error) {
	relation, err := n.rng.ProcessChange(change)
	if err != nil {
		return relation, fmt.Errorf("node %d (%s): %w", n.id, n.kind, err)
	}

	switch relation {
	case texpos.RelationWithin:
		n.editedWithinRange = true
	case texpos.RelationAcross:
		n.editedAcrossRange = true
	case texpos.RelationNone, texpos.RelationBefore, texpos.RelationAfter:
	}

	if command, ok := n.value.(*CommandValue); ok && command.NameRange != nil {
		if _, err := command.NameRange.ProcessChange(change); err != nil {
			return relation, fmt.Errorf("node %d name range: %w", n.id, err)
		}
	}

	return relation, nil
}

// EditReport counts how a change related to the nodes of a tree.
type EditReport struct {
	Before int `json:"before" yaml:"before"`
	Within int `json:"within" yaml:"within"`
	Across int `json:"across" yaml:"across"`
	After  int `json:"after" yaml:"after"`
}

// Add accumulates other into r.
func (r *EditReport) Add(other EditReport) {
	r.Before += other.Before
	r.Within += other.Within
	r.Across += other.Across
	r.After += other.After
}

// Total returns the number of classified nodes.
func (r EditReport) Total() int {
	return r.Before + r.Within + r.Across + r.After
}

func (r *EditReport) count(relation texpos.ChangeRelation) {
	switch relation {
	case texpos.RelationBefore:
		r.Before++
	case texpos.RelationWithin:
		r.Within++
	case texpos.RelationAcross:
		r.Across++
	case texpos.RelationAfter:
		r.After++
	case texpos.RelationNone:
	}
}

// ProcessSourceFileEdit applies change to every node of the tree under root.
// It stops at the first unreachable relation; the tree must then be re-parsed.
func ProcessSourceFileEdit(root *Node, change texpos.SourceFileChange) (EditReport, error) {
	var report EditReport

	err := Walk(root, func(node *Node) error {
		relation, err := node.ProcessSourceFileEdit(change)
		if err != nil {
			return err
		}
		report.count(relation)
		return nil
	})

	return report, err
}
