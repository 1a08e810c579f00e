package texast

import "github.com/yaklabco/texviz/pkg/texpos"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the AST starting at root.
// If walkFunc returns a non-nil error, the walk stops immediately and returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range root.Children() {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind() == kind
	})
}

// FindByName returns all nodes with the given semantic name.
func FindByName(root *Node, name string) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Name() == name
	})
}

// NodeAt returns the deepest node whose range contains pos, or nil.
func NodeAt(root *Node, pos texpos.Position) *Node {
	if root == nil || !root.Range().Contains(pos) {
		return nil
	}

	current := root
	for {
		next := (*Node)(nil)
		for _, child := range current.Children() {
			if child.Range().Contains(pos) {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

// FirstAfter returns the first node in source order that starts at or after
// pos and satisfies predicate. A nil predicate accepts every node.
func FirstAfter(root *Node, pos texpos.Position, predicate func(n *Node) bool) *Node {
	return FindFirst(root, func(n *Node) bool {
		if !n.Range().From.IsAfterOrEqual(pos) {
			return false
		}
		return predicate == nil || predicate(n)
	})
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(*Node) error {
		total++
		return nil
	})
	return total
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
