package texast

import "github.com/yaklabco/texviz/pkg/texpos"

// Value is the payload of a Node. Its concrete type is determined by the
// node kind:
//
//	StringValue       Text, Whitespace, Math, Parameter, ParameterKey,
//	                  ParameterValue, SpecialSymbol, Comment
//	NodeValue         Block, InlineMathBlock, MathBlock and the parameter blocks
//	EmptyValue        Block and parameter blocks written as {} or []
//	SequenceValue     Latex, ParameterList
//	*CommandValue     Command
//	*EnvironmentValue Environment
//	*AssignmentValue  ParameterAssignment
type Value interface {
	isValue()
}

// StringValue holds raw source text.
type StringValue string

// NodeValue wraps a single child node.
type NodeValue struct {
	Node *Node
}

// EmptyValue marks an explicitly empty block, as in {}.
// It is distinct from an empty SequenceValue and from an absent block.
type EmptyValue struct{}

// Empty is the EmptyValue sentinel.
var Empty = EmptyValue{}

// SequenceValue is an ordered list of child nodes.
type SequenceValue []*Node

// Slot holds an optional or mandatory parameter: it has zero elements when
// an optional parameter is absent and exactly one otherwise.
type Slot []*Node

// Present reports whether the slot holds a parameter.
func (s Slot) Present() bool {
	return len(s) == 1
}

// Node returns the parameter node, or nil when absent.
func (s Slot) Node() *Node {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// CommandValue is the payload of a Command node.
type CommandValue struct {
	Name       string
	NameRange  *texpos.Range
	Parameters []Slot
}

// EnvironmentValue is the payload of an Environment node.
// Begin and End are the \begin and \end Command nodes.
type EnvironmentValue struct {
	Begin      *Node
	Parameters []Slot
	Content    *Node
	End        *Node
}

// AssignmentValue is the payload of a key=value ParameterAssignment node.
type AssignmentValue struct {
	Key   *Node
	Value *Node
}

func (StringValue) isValue()       {}
func (NodeValue) isValue()         {}
func (EmptyValue) isValue()        {}
func (SequenceValue) isValue()     {}
func (*CommandValue) isValue()     {}
func (*EnvironmentValue) isValue() {}
func (*AssignmentValue) isValue()  {}
