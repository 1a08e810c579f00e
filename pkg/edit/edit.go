// Package edit describes text replacements in rune offsets and turns them
// into the position changes a parsed tree needs to stay in step with its text.
package edit

import (
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/texviz/pkg/texast"
)

// TextEdit replaces the runes [Start, End) with NewText.
type TextEdit struct {
	// Start is the rune offset where the edit begins (inclusive).
	Start int `json:"start" yaml:"start"`

	// End is the rune offset where the edit ends (exclusive).
	End int `json:"end" yaml:"end"`

	// NewText is the replacement text.
	NewText string `json:"text" yaml:"text"`
}

// Len returns the number of runes the edit replaces.
func (e TextEdit) Len() int {
	return e.End - e.Start
}

// Delta returns how many runes the edit adds (negative when it removes).
func (e TextEdit) Delta() int {
	return utf8.RuneCountInString(e.NewText) - e.Len()
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d] %q", e.Start, e.End, e.NewText)
}

// Builder accumulates edits against one text snapshot.
type Builder struct {
	Edits []TextEdit
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces runes [start, end) with newText.
func (b *Builder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		Start:   start,
		End:     end,
		NewText: newText,
	})
}

// Insert adds an edit that inserts text at offset.
func (b *Builder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes runes [start, end).
func (b *Builder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// ReplaceNode adds an edit that replaces the source of node with newText.
// The node's range must carry offsets, which parsed nodes always do.
func (b *Builder) ReplaceNode(node *texast.Node, newText string) error {
	start, err := node.Range().From.Offset()
	if err != nil {
		return fmt.Errorf("node %d: %w", node.ID(), err)
	}
	end, err := node.Range().To.Offset()
	if err != nil {
		return fmt.Errorf("node %d: %w", node.ID(), err)
	}
	b.ReplaceRange(start, end, newText)
	return nil
}
