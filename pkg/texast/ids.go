package texast

// IDGenerator hands out node IDs for a single parse. IDs start at 1.
// A generator is not safe for concurrent use; give each parse its own.
type IDGenerator struct {
	last uint64
}

// NewIDGenerator creates a generator whose first ID is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next ID.
func (g *IDGenerator) Next() uint64 {
	g.last++
	return g.last
}

// Last returns the most recently issued ID, or 0 if none was issued.
func (g *IDGenerator) Last() uint64 {
	return g.last
}

// Number assigns IDs in pre-order to every node under root that was created
// with ID 0. Parsers build nodes bottom-up and call Number once the tree is
// complete, so IDs follow source order and do not depend on backtracking.
func Number(root *Node, ids *IDGenerator) {
	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if node.id == 0 {
			node.id = ids.Next()
		}
		return nil
	})
}
