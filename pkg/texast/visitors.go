package texast

import (
	"fmt"
	"strings"
)

// Formatter renders one line per visited node, indented by depth.
type Formatter struct {
	// Indent is repeated depth times before each line.
	Indent string

	// MaxTextLen truncates quoted text longer than this many runes. Zero disables truncation.
	MaxTextLen int

	// ShowRanges appends the live range to each line.
	ShowRanges bool

	out strings.Builder
}

// NewFormatter creates a formatter with two-space indentation and ranges shown.
func NewFormatter() *Formatter {
	return &Formatter{Indent: "  ", MaxTextLen: 40, ShowRanges: true}
}

// Visit implements Visitor.
func (f *Formatter) Visit(node *Node, depth int) {
	f.out.WriteString(strings.Repeat(f.Indent, depth))
	f.out.WriteString(f.Line(node))
	f.out.WriteByte('\n')
}

// Line renders a single node without indentation.
func (f *Formatter) Line(node *Node) string {
	var line strings.Builder
	line.WriteString(node.Kind().String())

	switch node.Kind() {
	case NodeParameter, NodeParameterKey, NodeParameterValue:
		fmt.Fprintf(&line, " %q", f.clip(node.Text()))
	case NodeParameterAssignment:
		if assignment := node.Assignment(); assignment != nil {
			fmt.Fprintf(&line, " %s=%s", f.clip(assignment.Key.Text()), f.clip(assignment.Value.Text()))
		}
	case NodeText, NodeComment, NodeMath, NodeWhitespace:
		fmt.Fprintf(&line, " %q", f.clip(node.Text()))
	default:
		if node.Name() != "" {
			fmt.Fprintf(&line, " %s", node.Name())
		}
		if node.IsEmpty() {
			line.WriteString(" (empty)")
		}
	}

	if f.ShowRanges && node.Range() != nil {
		line.WriteByte(' ')
		line.WriteString(node.Range().String())
	}
	if node.EditedAcrossRange() {
		line.WriteString(" !across")
	} else if node.EditedWithinRange() {
		line.WriteString(" *within")
	}

	return line.String()
}

// String returns everything rendered so far.
func (f *Formatter) String() string {
	return f.out.String()
}

func (f *Formatter) clip(text string) string {
	if f.MaxTextLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= f.MaxTextLen {
		return text
	}
	return string(runes[:f.MaxTextLen]) + "…"
}

// Format renders the tree under root with the default formatter.
func Format(root *Node, maxDepth int) string {
	formatter := NewFormatter()
	root.VisitWith(formatter, 0, maxDepth)
	return formatter.String()
}

// Collector accumulates every visited node in traversal order.
type Collector struct {
	Nodes []*Node
}

// Visit implements Visitor.
func (c *Collector) Visit(node *Node, _ int) {
	c.Nodes = append(c.Nodes, node)
}

// Searcher accumulates nodes matching a predicate, up to a maximum.
type Searcher struct {
	predicate  func(node *Node) bool
	maxMatches int
	matches    []*Node
}

// NewSearcher creates a searcher. A maxMatches of zero or less means no limit.
func NewSearcher(predicate func(node *Node) bool, maxMatches int) *Searcher {
	return &Searcher{predicate: predicate, maxMatches: maxMatches}
}

// Visit implements Visitor.
func (s *Searcher) Visit(node *Node, _ int) {
	if s.Full() {
		return
	}
	if s.predicate(node) {
		s.matches = append(s.matches, node)
	}
}

// Full reports whether the maximum match count has been reached.
func (s *Searcher) Full() bool {
	return s.maxMatches > 0 && len(s.matches) >= s.maxMatches
}

// First returns the first match, or nil.
func (s *Searcher) First() *Node {
	if len(s.matches) == 0 {
		return nil
	}
	return s.matches[0]
}

// All returns every match in traversal order.
func (s *Searcher) All() []*Node {
	return s.matches
}

// Count returns the number of matches.
func (s *Searcher) Count() int {
	return len(s.matches)
}
