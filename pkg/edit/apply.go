package edit

import "strings"

// Apply applies a prepared batch to text and returns the result.
// Offsets in edits refer to text as it was before any of them.
func Apply(text string, edits []TextEdit) string {
	if len(edits) == 0 {
		return text
	}

	runes := []rune(text)

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(max(len(text)+delta, 0))

	cursor := 0
	for _, e := range edits {
		out.WriteString(string(runes[cursor:e.Start]))
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.WriteString(string(runes[cursor:]))

	return out.String()
}

// Sequence rewrites a prepared batch into edits that can be applied one at a
// time, each against the text produced by the previous one. The result runs
// from the last edit to the first, so earlier offsets never move.
func Sequence(edits []TextEdit) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		out = append(out, edits[i])
	}
	return out
}
