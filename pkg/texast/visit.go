package texast

import "math"

// Unbounded is the maxDepth that never cuts traversal short.
const Unbounded = math.MaxInt

// Visitor receives nodes during a VisitWith traversal.
type Visitor interface {
	Visit(node *Node, depth int)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(node *Node, depth int)

// Visit calls f(node, depth).
func (f VisitorFunc) Visit(node *Node, depth int) {
	f(node, depth)
}

// VisitWith traverses the subtree rooted at n in pre-order, source order.
// Children are skipped once depth+1 exceeds maxDepth.
func (n *Node) VisitWith(visitor Visitor, depth, maxDepth int) {
	visitor.Visit(n, depth)

	if depth >= maxDepth {
		return
	}

	for _, child := range n.Children() {
		child.VisitWith(visitor, depth+1, maxDepth)
	}
}

// VisitTree visits every node under root, starting at depth 0.
func VisitTree(root *Node, visitor Visitor) {
	if root == nil {
		return
	}
	root.VisitWith(visitor, 0, Unbounded)
}

// Dispatcher routes each node to the hook for its kind.
// Nodes whose hook is nil go to Default; a nil Default ignores them.
type Dispatcher struct {
	Default func(node *Node, depth int)

	Latex                      func(node *Node, depth int)
	Text                       func(node *Node, depth int)
	Whitespace                 func(node *Node, depth int)
	Environment                func(node *Node, depth int)
	Command                    func(node *Node, depth int)
	Math                       func(node *Node, depth int)
	InlineMathBlock            func(node *Node, depth int)
	MathBlock                  func(node *Node, depth int)
	Block                      func(node *Node, depth int)
	CurlyBracesParameterBlock  func(node *Node, depth int)
	Parameter                  func(node *Node, depth int)
	SquareBracesParameterBlock func(node *Node, depth int)
	ParameterKey               func(node *Node, depth int)
	ParameterValue             func(node *Node, depth int)
	ParameterAssignment        func(node *Node, depth int)
	ParameterList              func(node *Node, depth int)
	SpecialSymbol              func(node *Node, depth int)
	Comment                    func(node *Node, depth int)
}

// Visit implements Visitor.
func (d *Dispatcher) Visit(node *Node, depth int) {
	hook := d.hook(node.Kind())
	if hook == nil {
		hook = d.Default
	}
	if hook != nil {
		hook(node, depth)
	}
}

func (d *Dispatcher) hook(kind NodeKind) func(*Node, int) {
	switch kind {
	case NodeLatex:
		return d.Latex
	case NodeText:
		return d.Text
	case NodeWhitespace:
		return d.Whitespace
	case NodeEnvironment:
		return d.Environment
	case NodeCommand:
		return d.Command
	case NodeMath:
		return d.Math
	case NodeInlineMathBlock:
		return d.InlineMathBlock
	case NodeMathBlock:
		return d.MathBlock
	case NodeBlock:
		return d.Block
	case NodeCurlyBracesParameterBlock:
		return d.CurlyBracesParameterBlock
	case NodeParameter:
		return d.Parameter
	case NodeSquareBracesParameterBlock:
		return d.SquareBracesParameterBlock
	case NodeParameterKey:
		return d.ParameterKey
	case NodeParameterValue:
		return d.ParameterValue
	case NodeParameterAssignment:
		return d.ParameterAssignment
	case NodeParameterList:
		return d.ParameterList
	case NodeSpecialSymbol:
		return d.SpecialSymbol
	case NodeComment:
		return d.Comment
	default:
		return nil
	}
}
