package latex_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

const richDocument = `\documentclass{article}
% preamble comment
\begin{document}
Hello world, $x^2$ and $$\sum_i i$$ here.
\includegraphics[width=3cm, keepaspectratio]{img/a.png}
\includegraphics{b.png}
\begin{tabular}{|c|p{3cm}|}
a & b \\
c & d \\[2pt]
\end{tabular}
\begin{gridlayout}[0.5]
  \begin{row}{1}
    \begin{cell}{0.3} left \end{cell}
    % between
    \begin{cell}{0.7}{} right\end{cell}
  \end{row}
\end{gridlayout}
\begin{itemize}
\item one_two #3
\end{itemize}
\end{document}
`

func mustParse(t *testing.T, text string) *texast.Node {
	t.Helper()

	root, err := latex.Parse(text)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func TestParseRichDocument(t *testing.T) {
	t.Parallel()

	root := mustParse(t, richDocument)
	assert.Equal(t, texast.NodeLatex, root.Kind())

	envs := texast.FindByKind(root, texast.NodeEnvironment)
	names := make([]string, 0, len(envs))
	for _, env := range envs {
		names = append(names, env.Name())
	}
	assert.Equal(t, []string{"document", "tabular", "gridlayout", "row", "cell", "cell", "itemize"}, names)

	images := texast.FindByName(root, `\includegraphics`)
	require.Len(t, images, 2)

	options := images[0].Parameters()[0]
	require.True(t, options.Present())
	list := options.Node().Wrapped()
	require.NotNil(t, list)
	assert.Equal(t, texast.NodeParameterList, list.Kind())
	require.Len(t, list.Elements(), 2)
	assert.Equal(t, texast.NodeParameterAssignment, list.Elements()[0].Kind())
	assert.Equal(t, "width", list.Elements()[0].Name())
	assert.Equal(t, "3cm", list.Elements()[0].Assignment().Value.Text())
	assert.Equal(t, "keepaspectratio", list.Elements()[1].Text())

	assert.False(t, images[1].Parameters()[0].Present())
	assert.Equal(t, "b.png", images[1].Parameters()[1].Node().Wrapped().Text())

	breaks := texast.FindByName(root, `\\`)
	require.Len(t, breaks, 2)
	assert.False(t, breaks[0].Parameters()[0].Present())
	assert.Equal(t, "2pt", breaks[1].Parameters()[0].Node().Wrapped().Text())

	tabular := envs[1]
	assert.Equal(t, "|c|p{3cm}|", tabular.Parameters()[0].Node().Wrapped().Text())
}

func TestOptionalParameterShape(t *testing.T) {
	t.Parallel()

	root := mustParse(t, richDocument)

	checked := 0
	require.NoError(t, texast.Walk(root, func(node *texast.Node) error {
		if node.Kind() != texast.NodeCommand && node.Kind() != texast.NodeEnvironment {
			return nil
		}
		params := node.Parameters()
		assert.NotNil(t, params, "node %d %s", node.ID(), node.Name())
		for i, slot := range params {
			assert.NotNil(t, slot, "node %d slot %d", node.ID(), i)
			assert.LessOrEqual(t, len(slot), 1, "node %d slot %d", node.ID(), i)
		}
		checked++
		return nil
	}))
	assert.Greater(t, checked, 20)
}

func TestTraversalCompleteness(t *testing.T) {
	t.Parallel()

	root := mustParse(t, richDocument)

	collector := &texast.Collector{}
	root.VisitWith(collector, 0, texast.Unbounded)
	require.Len(t, collector.Nodes, texast.Count(root))

	// IDs are assigned in pre-order, so a collector sees 1, 2, 3, ...
	for i, node := range collector.Nodes {
		assert.Equal(t, uint64(i+1), node.ID())
	}

	require.NoError(t, texast.Walk(root, func(parent *texast.Node) error {
		for _, child := range parent.Children() {
			assert.Greater(t, child.ID(), parent.ID())
		}
		return nil
	}))
}

func TestEndIsOnlyConsumedByEnvironment(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `\begin{itemize}\end{itemize}`)
	require.Len(t, root.Elements(), 1)

	env := root.Elements()[0]
	require.Equal(t, texast.NodeEnvironment, env.Kind())
	value := env.Environment()
	require.NotNil(t, value)

	assert.Equal(t, texast.NodeCommand, value.End.Kind())
	assert.Equal(t, `\end`, value.End.Name())
	assert.Equal(t, "[0:15, 0:28)", value.End.Range().String())
	assert.Equal(t, "itemize", value.End.Parameters()[0].Node().Wrapped().Text())

	assert.Equal(t, `\begin`, value.Begin.Name())
	assert.Empty(t, value.Content.Elements())
	assert.Equal(t, "[0:15, 0:15)", value.Content.Range().String())
}

func TestKnownAndGenericEnvironments(t *testing.T) {
	t.Parallel()

	tabular := mustParse(t, `\begin{tabular}{c}X\end{tabular}`).Elements()[0]
	assert.Equal(t, "tabular", tabular.Name())
	params := tabular.Parameters()
	require.Len(t, params, 1)
	require.True(t, params[0].Present())
	block := params[0].Node()
	assert.Equal(t, texast.NodeCurlyBracesParameterBlock, block.Kind())
	assert.Equal(t, "[0:15, 0:18)", block.Range().String())
	assert.Equal(t, "c", block.Wrapped().Text())
	assert.Equal(t, "X", tabular.Environment().Content.Elements()[0].Text())

	foo := mustParse(t, `\begin{foo}X\end{foo}`).Elements()[0]
	assert.Equal(t, "foo", foo.Name())
	assert.NotNil(t, foo.Parameters())
	assert.Empty(t, foo.Parameters())
	assert.Equal(t, "X", foo.Environment().Content.Elements()[0].Text())
}

func TestParserIndicesRoundTrip(t *testing.T) {
	t.Parallel()

	root := mustParse(t, richDocument)
	index := texpos.NewLineIndex(richDocument)

	require.NoError(t, texast.Walk(root, func(node *texast.Node) error {
		for _, pos := range []texpos.Position{node.Range().From, node.Range().To} {
			parserIndex, err := pos.ParserIndex()
			require.NoError(t, err)
			assert.True(t, texpos.FromParserIndex(parserIndex).IsEqual(pos))

			fromIndex, err := index.PositionAt(parserIndex.Offset)
			require.NoError(t, err)
			assert.True(t, fromIndex.IsEqual(pos), "node %d: offset %d is %s, node says %s",
				node.ID(), parserIndex.Offset, fromIndex, pos)
		}
		return nil
	}))
}

func TestParseFailureReturnsNoTree(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		index    texpos.ParserIndex
		expected string
		found    string
	}{
		{
			name:     "unclosed environment",
			input:    `\begin{itemize}text`,
			index:    texpos.ParserIndex{Offset: 19, Line: 1, Column: 20},
			expected: "`\\end{itemize}`",
			found:    "end of input",
		},
		{
			name:     "mismatched end",
			input:    "\\begin{a}\nx\\end{b}",
			index:    texpos.ParserIndex{Offset: 11, Line: 2, Column: 2},
			expected: "`\\end{a}`",
			found:    "'\\\\'",
		},
		{
			name:     "stray closing brace",
			input:    "a}",
			index:    texpos.ParserIndex{Offset: 1, Line: 1, Column: 2},
			expected: "end of input",
			found:    "'}'",
		},
		{
			name:     "stray end",
			input:    `\end{itemize}`,
			index:    texpos.ParserIndex{Offset: 0, Line: 1, Column: 1},
			expected: "end of input",
			found:    "'\\\\'",
		},
		{
			name:     "missing mandatory parameter",
			input:    `\includegraphics x`,
			index:    texpos.ParserIndex{Offset: 16, Line: 1, Column: 17},
			expected: "`{`",
			found:    "' '",
		},
		{
			name:     "text inside grid layout",
			input:    `\begin{gridlayout}oops\end{gridlayout}`,
			index:    texpos.ParserIndex{Offset: 18, Line: 1, Column: 19},
			expected: "`\\begin{row}`",
			found:    "'o'",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			root, err := latex.Parse(testCase.input)
			require.Error(t, err)
			assert.Nil(t, root)

			var failure *latex.ParsingFailure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, testCase.index, failure.Index)
			assert.Contains(t, failure.Expected, testCase.expected)
			assert.Equal(t, testCase.found, failure.Found)
			assert.Contains(t, failure.Error(), "parse failure")
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "")
	assert.Equal(t, texast.NodeLatex, root.Kind())
	assert.Empty(t, root.Elements())
	assert.True(t, root.Range().IsEmpty())
}

func TestParseWithSharedIDs(t *testing.T) {
	t.Parallel()

	parser := latex.New(nil)
	ids := texast.NewIDGenerator()

	first, err := parser.ParseWithIDs(context.Background(), "a.tex", "one two", ids)
	require.NoError(t, err)
	second, err := parser.ParseWithIDs(context.Background(), "b.tex", "three", ids)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.ID())
	assert.Equal(t, uint64(3), second.ID())
	assert.Equal(t, uint64(4), ids.Last())
}

func TestParseCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root, err := latex.New(nil).Parse(ctx, "a.tex", []byte("x"))
	require.Error(t, err)
	assert.Nil(t, root)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEditClassificationOnParsedTrees(t *testing.T) {
	t.Parallel()

	t.Run("before", func(t *testing.T) {
		t.Parallel()

		root := mustParse(t, "ABC")
		text := root.Elements()[0]
		require.Equal(t, "[0:0, 0:3)", text.Range().String())

		at := texpos.NewPositionWithOffset(0, 0, 0)
		relation, err := text.ProcessSourceFileEdit(texpos.NewSourceFileChange(at, at,
			texpos.Shift{Lines: 0, Columns: 1, Offset: 1}))
		require.NoError(t, err)
		assert.Equal(t, texpos.RelationBefore, relation)
		assert.Equal(t, "[0:1, 0:4)", text.Range().String())
		assert.False(t, text.HasBeenEditedByUser())
	})

	t.Run("within", func(t *testing.T) {
		t.Parallel()

		root := mustParse(t, `\includegraphics{foo.png}`)
		command := root.Elements()[0]
		require.Equal(t, "[0:0, 0:25)", command.Range().String())

		start := texpos.NewPositionWithOffset(0, 17, 17)
		end := texpos.NewPositionWithOffset(0, 24, 24)
		change := texpos.NewSourceFileChange(start, end, texpos.ReplacementShift(start, end, 7, "bar.png"))

		relation, err := command.ProcessSourceFileEdit(change)
		require.NoError(t, err)
		assert.Equal(t, texpos.RelationWithin, relation)
		assert.True(t, command.EditedWithinRange())
		assert.Equal(t, "[0:0, 0:25)", command.Range().String())

		longer := texpos.NewSourceFileChange(start, end, texpos.ReplacementShift(start, end, 7, "figures/bar.png"))
		_, err = command.ProcessSourceFileEdit(longer)
		require.NoError(t, err)
		assert.True(t, command.Range().From.Shift().IsZero())
		assert.Equal(t, "[0:0, 0:33)", command.Range().String())
	})

	t.Run("across", func(t *testing.T) {
		t.Parallel()

		root := mustParse(t, "\\begin{itemize}\n\\item a\n\\end{itemize}\nafter")
		env := root.Elements()[0]
		require.Equal(t, "[0:0, 2:13)", env.Range().String())

		change := texpos.NewSourceFileChange(
			texpos.NewPositionWithOffset(1, 3, 19),
			texpos.NewPositionWithOffset(3, 2, 40),
			texpos.Shift{Lines: -2, Columns: 1, Offset: -21},
		)

		report, err := texast.ProcessSourceFileEdit(root, change)
		require.NoError(t, err)
		assert.Positive(t, report.Across)
		assert.True(t, env.EditedAcrossRange())
		assert.True(t, env.Range().From.Shift().IsZero())
		assert.True(t, env.Range().To.Shift().IsZero())
	})
}
