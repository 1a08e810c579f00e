package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/texviz/pkg/texast"
)

// Tree guides.
const (
	guideBranch = "├─ "
	guideLast   = "└─ "
	guidePipe   = "│  "
	guideSpace  = "   "
)

// TreeOptions controls FormatTree.
type TreeOptions struct {
	// MaxDepth stops descending below this depth. Zero or less means unlimited.
	MaxDepth int

	// Width truncates each line to this many cells. Zero disables truncation.
	Width int

	// ShowRanges appends each node's live range.
	ShowRanges bool
}

// FormatTree renders the tree under root with box-drawing guides, one node per line.
func (s *Styles) FormatTree(root *texast.Node, opts TreeOptions) string {
	if root == nil {
		return ""
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = texast.Unbounded
	}

	r := &treeRenderer{
		styles:    s,
		opts:      opts,
		maxDepth:  maxDepth,
		formatter: &texast.Formatter{MaxTextLen: 40},
	}
	if opts.Width > 0 {
		r.clip = lipgloss.NewStyle().MaxWidth(opts.Width)
	}

	r.render(root, "", "", 0)
	return r.out.String()
}

type treeRenderer struct {
	styles    *Styles
	opts      TreeOptions
	maxDepth  int
	formatter *texast.Formatter
	clip      lipgloss.Style
	out       strings.Builder
}

func (r *treeRenderer) render(node *texast.Node, prefix, guide string, depth int) {
	line := r.styles.Guide.Render(prefix+guide) + r.label(node)
	if r.opts.Width > 0 {
		line = r.clip.Render(line)
	}
	r.out.WriteString(line)
	r.out.WriteByte('\n')

	if depth >= r.maxDepth {
		return
	}

	childPrefix := prefix
	switch guide {
	case guideBranch:
		childPrefix += guidePipe
	case guideLast:
		childPrefix += guideSpace
	}

	children := node.Children()
	for i, child := range children {
		next := guideBranch
		if i == len(children)-1 {
			next = guideLast
		}
		r.render(child, childPrefix, next, depth+1)
	}
}

// label styles the kind, the formatter's description and the range separately.
func (r *treeRenderer) label(node *texast.Node) string {
	text := r.formatter.Line(node)
	kind, rest, _ := strings.Cut(text, " ")

	var b strings.Builder
	b.WriteString(r.styles.Kind.Render(kind))
	if rest != "" {
		b.WriteByte(' ')
		if node.HasBeenEditedByUser() {
			b.WriteString(r.styles.Edited.Render(rest))
		} else {
			b.WriteString(r.styles.Label.Render(rest))
		}
	}
	if r.opts.ShowRanges && node.Range() != nil {
		b.WriteByte(' ')
		b.WriteString(r.styles.Range.Render(node.Range().String()))
	}
	return b.String()
}
