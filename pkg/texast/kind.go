package texast

import (
	"fmt"
	"strings"
)

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds produced by the LaTeX grammar.
const (
	NodeLatex NodeKind = iota
	NodeText
	NodeWhitespace
	NodeEnvironment
	NodeCommand
	NodeMath
	NodeInlineMathBlock
	NodeMathBlock
	NodeBlock
	NodeCurlyBracesParameterBlock
	NodeParameter
	NodeSquareBracesParameterBlock
	NodeParameterKey
	NodeParameterValue
	NodeParameterAssignment
	NodeParameterList
	NodeSpecialSymbol
	NodeComment

	nodeKindCount
)

var kindNames = [...]string{
	NodeLatex:                      "Latex",
	NodeText:                       "Text",
	NodeWhitespace:                 "Whitespace",
	NodeEnvironment:                "Environment",
	NodeCommand:                    "Command",
	NodeMath:                       "Math",
	NodeInlineMathBlock:            "InlineMathBlock",
	NodeMathBlock:                  "MathBlock",
	NodeBlock:                      "Block",
	NodeCurlyBracesParameterBlock:  "CurlyBracesParameterBlock",
	NodeParameter:                  "Parameter",
	NodeSquareBracesParameterBlock: "SquareBracesParameterBlock",
	NodeParameterKey:               "ParameterKey",
	NodeParameterValue:             "ParameterValue",
	NodeParameterAssignment:        "ParameterAssignment",
	NodeParameterList:              "ParameterList",
	NodeSpecialSymbol:              "SpecialSymbol",
	NodeComment:                    "Comment",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// MarshalText encodes the kind by name.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseNodeKind resolves a kind by name, case-insensitively.
func ParseNodeKind(name string) (NodeKind, error) {
	for kind := range nodeKindCount {
		if strings.EqualFold(kindNames[kind], name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", name)
}

// AllKinds returns every node kind in declaration order.
func AllKinds() []NodeKind {
	kinds := make([]NodeKind, 0, nodeKindCount)
	for kind := range nodeKindCount {
		kinds = append(kinds, kind)
	}
	return kinds
}

// IsLeaf reports whether nodes of this kind never have children.
func (k NodeKind) IsLeaf() bool {
	switch k {
	case NodeText, NodeWhitespace, NodeMath, NodeParameter, NodeParameterKey,
		NodeParameterValue, NodeSpecialSymbol, NodeComment:
		return true
	default:
		return false
	}
}
