package texast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

// sampleTree builds the tree of `\includegraphics{foo.png} ABC` by hand.
func sampleTree(t *testing.T) *texast.Node {
	t.Helper()

	ids := texast.NewIDGenerator()
	at := func(from, to int) *texpos.Range {
		return texpos.NewRange(
			texpos.NewPositionWithOffset(0, from, from),
			texpos.NewPositionWithOffset(0, to, to),
		)
	}

	root := ids.Next()
	command := ids.Next()
	curly := ids.Next()
	param := texast.NewNode(ids.Next(), texast.NodeParameter, "", texast.StringValue("foo.png"), at(17, 24))
	block := texast.NewNode(curly, texast.NodeCurlyBracesParameterBlock, "", texast.NodeValue{Node: param}, at(16, 25))
	cmd := texast.NewNode(command, texast.NodeCommand, `\includegraphics`, &texast.CommandValue{
		Name:       `\includegraphics`,
		NameRange:  at(0, 16),
		Parameters: []texast.Slot{{}, {block}},
	}, at(0, 25))
	space := texast.NewNode(ids.Next(), texast.NodeWhitespace, "", texast.StringValue(" "), at(25, 26))
	text := texast.NewNode(ids.Next(), texast.NodeText, "", texast.StringValue("ABC"), at(26, 29))

	return texast.NewNode(root, texast.NodeLatex, "", texast.SequenceValue{cmd, space, text}, at(0, 29))
}

func TestNodeAccessors(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)
	assert.Equal(t, uint64(1), root.ID())
	assert.Equal(t, texast.NodeLatex, root.Kind())
	require.Len(t, root.Elements(), 3)

	cmd := root.Elements()[0]
	assert.Equal(t, `\includegraphics`, cmd.Name())
	require.NotNil(t, cmd.Command())
	assert.Nil(t, cmd.Environment())

	params := cmd.Parameters()
	require.Len(t, params, 2)
	assert.False(t, params[0].Present())
	assert.Nil(t, params[0].Node())
	assert.True(t, params[1].Present())
	assert.Equal(t, "foo.png", params[1].Node().Wrapped().Text())

	assert.False(t, root.HasBeenEditedByUser())
	assert.Equal(t, 6, texast.Count(root))
}

func TestNewNodeDefaultsToEmpty(t *testing.T) {
	t.Parallel()

	node := texast.NewNode(1, texast.NodeBlock, "", nil, texpos.NewRange(texpos.NewPosition(0, 0), texpos.NewPosition(0, 2)))
	assert.True(t, node.IsEmpty())
	assert.Nil(t, node.Wrapped())
	assert.Empty(t, node.Children())
}

func TestParseNodeKind(t *testing.T) {
	t.Parallel()

	for _, kind := range texast.AllKinds() {
		parsed, err := texast.ParseNodeKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	kind, err := texast.ParseNodeKind("curlybracesparameterblock")
	require.NoError(t, err)
	assert.Equal(t, texast.NodeCurlyBracesParameterBlock, kind)

	_, err = texast.ParseNodeKind("Paragraph")
	require.Error(t, err)

	assert.Len(t, texast.AllKinds(), 18)
	assert.True(t, texast.NodeComment.IsLeaf())
	assert.False(t, texast.NodeParameterList.IsLeaf())
}

func TestNodeAtAndFirstAfter(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	deepest := texast.NodeAt(root, texpos.NewPosition(0, 18))
	require.NotNil(t, deepest)
	assert.Equal(t, texast.NodeParameter, deepest.Kind())

	onName := texast.NodeAt(root, texpos.NewPosition(0, 3))
	require.NotNil(t, onName)
	assert.Equal(t, texast.NodeCommand, onName.Kind())

	assert.Nil(t, texast.NodeAt(root, texpos.NewPosition(1, 0)))

	next := texast.FirstAfter(root, texpos.NewPosition(0, 20), nil)
	require.NotNil(t, next)
	assert.Equal(t, texast.NodeWhitespace, next.Kind())

	text := texast.FirstAfter(root, texpos.NewPosition(0, 1), func(n *texast.Node) bool {
		return n.Kind() == texast.NodeText
	})
	require.NotNil(t, text)
	assert.Equal(t, "ABC", text.Text())
}

func TestExportKeepsSlotShape(t *testing.T) {
	t.Parallel()

	exported := texast.Export(sampleTree(t), texast.Unbounded)
	require.Len(t, exported.Children, 3)

	cmd := exported.Children[0]
	require.Len(t, cmd.Parameters, 2)
	assert.NotNil(t, cmd.Parameters[0])
	assert.Empty(t, cmd.Parameters[0])
	require.Len(t, cmd.Parameters[1], 1)
	require.Len(t, cmd.Parameters[1][0].Children, 1)
	require.NotNil(t, cmd.Parameters[1][0].Children[0].Text)
	assert.Equal(t, "foo.png", *cmd.Parameters[1][0].Children[0].Text)

	shallow := texast.Export(sampleTree(t), 0)
	assert.Empty(t, shallow.Children)
	require.NotNil(t, shallow.Range.From.Offset)
	assert.Equal(t, 0, *shallow.Range.From.Offset)
}
