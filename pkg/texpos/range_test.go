package texpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/texpos"
)

func pos(line, column, offset int) texpos.Position {
	return texpos.NewPositionWithOffset(line, column, offset)
}

func span(fromLine, fromCol, fromOff, toLine, toCol, toOff int) *texpos.Range {
	return texpos.NewRange(pos(fromLine, fromCol, fromOff), pos(toLine, toCol, toOff))
}

func TestProcessChangeBeforeOnSameLine(t *testing.T) {
	t.Parallel()

	// "ABC" with "X" inserted at column 0.
	rng := span(0, 0, 0, 0, 3, 3)
	change := texpos.NewSourceFileChange(pos(0, 0, 0), pos(0, 0, 0),
		texpos.Shift{Lines: 0, Columns: 1, Offset: 1})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationBefore, relation)

	assert.Equal(t, 0, rng.From.Line())
	assert.Equal(t, 1, rng.From.Column())
	assert.Equal(t, 4, rng.To.Column())

	fromOffset, err := rng.From.Offset()
	require.NoError(t, err)
	assert.Equal(t, 1, fromOffset)

	toOffset, err := rng.To.Offset()
	require.NoError(t, err)
	assert.Equal(t, 4, toOffset)
}

func TestProcessChangeBeforeOnEarlierLine(t *testing.T) {
	t.Parallel()

	// Range on line 2; a newline inserted on line 0 moves it down without touching columns.
	rng := span(2, 4, 20, 2, 9, 25)
	change := texpos.NewSourceFileChange(pos(0, 1, 1), pos(0, 1, 1),
		texpos.Shift{Lines: 1, Columns: -1, Offset: 1})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationBefore, relation)
	assert.Equal(t, "[3:4, 3:9)", rng.String())
}

func TestProcessChangeBeforeMultiLineRangeKeepsEndColumn(t *testing.T) {
	t.Parallel()

	// The range starts on the change end line but ends further down.
	rng := span(0, 5, 5, 3, 2, 30)
	change := texpos.NewSourceFileChange(pos(0, 0, 0), pos(0, 1, 1),
		texpos.Shift{Lines: 0, Columns: 3, Offset: 3})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationBefore, relation)
	assert.Equal(t, 8, rng.From.Column())
	assert.Equal(t, 2, rng.To.Column())
	assert.Equal(t, texpos.Shift{Columns: 0, Offset: 3}, rng.To.Shift())
}

func TestProcessChangeWithin(t *testing.T) {
	t.Parallel()

	// \includegraphics{foo.png} with foo.png replaced by images/bar.png.
	rng := span(0, 0, 0, 0, 25, 25)
	start, end := pos(0, 17, 17), pos(0, 24, 24)
	shift := texpos.ReplacementShift(start, end, 7, "images/bar.png")
	change := texpos.NewSourceFileChange(start, end, shift)

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationWithin, relation)

	assert.True(t, rng.From.Shift().IsZero())
	assert.Equal(t, 32, rng.To.Column())
	assert.Equal(t, texpos.Shift{Columns: 7, Offset: 7}, rng.To.Shift())
}

func TestProcessChangeWithinOnEarlierLineKeepsEndColumn(t *testing.T) {
	t.Parallel()

	rng := span(0, 0, 0, 4, 11, 60)
	change := texpos.NewSourceFileChange(pos(1, 2, 14), pos(1, 2, 14),
		texpos.Shift{Lines: 2, Columns: 3, Offset: 8})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationWithin, relation)
	assert.Equal(t, "[0:0, 6:11)", rng.String())
}

func TestProcessChangeAcross(t *testing.T) {
	t.Parallel()

	rng := span(1, 0, 10, 3, 11, 40)
	change := texpos.NewSourceFileChange(pos(2, 4, 20), pos(5, 0, 60),
		texpos.Shift{Lines: -3, Columns: 4, Offset: -40})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationAcross, relation)
	assert.True(t, rng.From.Shift().IsZero())
	assert.True(t, rng.To.Shift().IsZero())
}

func TestProcessChangeAfter(t *testing.T) {
	t.Parallel()

	rng := span(0, 0, 0, 0, 3, 3)
	change := texpos.NewSourceFileChange(pos(1, 0, 4), pos(1, 2, 6),
		texpos.Shift{Columns: 5, Offset: 5})

	relation, err := rng.ProcessChange(change)
	require.NoError(t, err)
	assert.Equal(t, texpos.RelationAfter, relation)
	assert.Equal(t, "[0:0, 0:3)", rng.String())
}

func TestProcessChangeZeroShiftIsIdempotent(t *testing.T) {
	t.Parallel()

	changes := []texpos.SourceFileChange{
		texpos.NewSourceFileChange(pos(0, 0, 0), pos(0, 0, 0), texpos.Shift{}),
		texpos.NewSourceFileChange(pos(0, 2, 2), pos(0, 3, 3), texpos.Shift{}),
		texpos.NewSourceFileChange(pos(0, 1, 1), pos(2, 0, 20), texpos.Shift{}),
		texpos.NewSourceFileChange(pos(5, 0, 50), pos(5, 0, 50), texpos.Shift{}),
	}

	for _, change := range changes {
		rng := span(0, 1, 1, 1, 4, 12)

		relation, err := rng.ProcessChange(change)
		require.NoError(t, err)
		assert.NotEqual(t, texpos.RelationNone, relation)
		assert.True(t, rng.From.Shift().IsZero(), "relation %s", relation)
		assert.True(t, rng.To.Shift().IsZero(), "relation %s", relation)
	}
}

func TestProcessChangeInvertedChange(t *testing.T) {
	t.Parallel()

	rng := span(0, 0, 0, 0, 3, 3)
	change := texpos.NewSourceFileChange(pos(0, 2, 2), pos(0, 1, 1), texpos.Shift{Columns: 1, Offset: 1})

	relation, err := rng.ProcessChange(change)
	require.Error(t, err)
	assert.Equal(t, texpos.RelationNone, relation)

	var unreachable *texpos.UnreachableChangeRelationError
	require.ErrorAs(t, err, &unreachable)
	assert.Contains(t, unreachable.Error(), "change end precedes change start")
	assert.True(t, rng.To.Shift().IsZero())
}

func TestReplacementShift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		start, end  texpos.Position
		replacedLen int
		newText     string
		expected    texpos.Shift
	}{
		{
			name:     "insert single rune",
			start:    pos(0, 0, 0),
			end:      pos(0, 0, 0),
			newText:  "X",
			expected: texpos.Shift{Columns: 1, Offset: 1},
		},
		{
			name:        "delete two runes",
			start:       pos(3, 4, 30),
			end:         pos(3, 6, 32),
			replacedLen: 2,
			expected:    texpos.Shift{Columns: -2, Offset: -2},
		},
		{
			name:     "insert line break mid line",
			start:    pos(0, 2, 2),
			end:      pos(0, 2, 2),
			newText:  "\n  ",
			expected: texpos.Shift{Lines: 1, Columns: 0, Offset: 3},
		},
		{
			name:        "join two lines",
			start:       pos(0, 1, 1),
			end:         pos(1, 0, 2),
			replacedLen: 1,
			expected:    texpos.Shift{Lines: -1, Columns: 1, Offset: -1},
		},
		{
			name:        "multibyte counts runes",
			start:       pos(0, 0, 0),
			end:         pos(0, 1, 1),
			replacedLen: 1,
			newText:     "äö",
			expected:    texpos.Shift{Columns: 1, Offset: 1},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := texpos.ReplacementShift(testCase.start, testCase.end, testCase.replacedLen, testCase.newText)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestChangeRelationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Before", texpos.RelationBefore.String())
	assert.Equal(t, "Within", texpos.RelationWithin.String())
	assert.Equal(t, "Across", texpos.RelationAcross.String())
	assert.Equal(t, "After", texpos.RelationAfter.String())
	assert.Equal(t, "ChangeRelation(42)", texpos.ChangeRelation(42).String())
}
