// Package texast defines the LaTeX abstract syntax tree: a single Node type
// tagged by NodeKind, the payload shapes each kind carries, traversal with
// depth limiting, reference visitors, and in-place propagation of text edits
// to node ranges.
//
// Nodes are write-once except for the shift state of their range and the two
// edit flags, both of which only ProcessSourceFileEdit mutates.
package texast

import "github.com/yaklabco/texviz/pkg/texpos"

// Node is a single node of the LaTeX AST.
type Node struct {
	id    uint64
	kind  NodeKind
	name  string
	value Value
	rng   *texpos.Range

	editedWithinRange bool
	editedAcrossRange bool
}

// NewNode creates a node. A nil value is stored as Empty.
func NewNode(id uint64, kind NodeKind, name string, value Value, rng *texpos.Range) *Node {
	if value == nil {
		value = Empty
	}
	return &Node{id: id, kind: kind, name: name, value: value, rng: rng}
}

// ID returns the identifier assigned at parse time.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the semantic name, or "" when not applicable.
func (n *Node) Name() string { return n.name }

// Value returns the payload.
func (n *Node) Value() Value { return n.value }

// Range returns the live source range.
func (n *Node) Range() *texpos.Range { return n.rng }

// EditedWithinRange reports whether an edit has landed inside the node.
func (n *Node) EditedWithinRange() bool { return n.editedWithinRange }

// EditedAcrossRange reports whether an edit has crossed one of the node's boundaries.
func (n *Node) EditedAcrossRange() bool { return n.editedAcrossRange }

// HasBeenEditedByUser reports whether any edit has touched the node since parsing.
func (n *Node) HasBeenEditedByUser() bool {
	return n.editedWithinRange || n.editedAcrossRange
}

// Text returns the payload of string-valued nodes, or "" otherwise.
func (n *Node) Text() string {
	if s, ok := n.value.(StringValue); ok {
		return string(s)
	}
	return ""
}

// IsEmpty reports whether the payload is the Empty sentinel.
func (n *Node) IsEmpty() bool {
	_, ok := n.value.(EmptyValue)
	return ok
}

// Wrapped returns the single child of a wrapping node, or nil.
func (n *Node) Wrapped() *Node {
	if v, ok := n.value.(NodeValue); ok {
		return v.Node
	}
	return nil
}

// Elements returns the children of a sequence node, or nil.
func (n *Node) Elements() []*Node {
	if v, ok := n.value.(SequenceValue); ok {
		return v
	}
	return nil
}

// Command returns the payload of a Command node, or nil.
func (n *Node) Command() *CommandValue {
	v, _ := n.value.(*CommandValue)
	return v
}

// Environment returns the payload of an Environment node, or nil.
func (n *Node) Environment() *EnvironmentValue {
	v, _ := n.value.(*EnvironmentValue)
	return v
}

// Assignment returns the payload of a ParameterAssignment node, or nil.
func (n *Node) Assignment() *AssignmentValue {
	v, _ := n.value.(*AssignmentValue)
	return v
}

// Parameters returns the parameter slots of a Command or Environment node.
func (n *Node) Parameters() []Slot {
	switch v := n.value.(type) {
	case *CommandValue:
		return v.Parameters
	case *EnvironmentValue:
		return v.Parameters
	default:
		return nil
	}
}

// Children returns the direct children in source order.
func (n *Node) Children() []*Node {
	switch v := n.value.(type) {
	case *CommandValue:
		return presentSlots(nil, v.Parameters)
	case *EnvironmentValue:
		children := make([]*Node, 0, len(v.Parameters)+3)
		children = append(children, v.Begin)
		children = presentSlots(children, v.Parameters)
		return append(children, v.Content, v.End)
	case NodeValue:
		return []*Node{v.Node}
	case SequenceValue:
		return v
	case *AssignmentValue:
		return []*Node{v.Key, v.Value}
	default:
		return nil
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children()) > 0
}

func presentSlots(dst []*Node, slots []Slot) []*Node {
	for _, slot := range slots {
		dst = append(dst, slot...)
	}
	return dst
}
