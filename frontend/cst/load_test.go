package cst_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addDump = `
kind: source_file
children:
  - kind: val_declaration
    range: [1, 0, 1, 13]
    fields:
      name: {kind: identifier, text: x}
      value:
        kind: binary_expression
        range: [1, 8, 1, 13]
        fields:
          left: {kind: integer_literal, text: "1"}
          operator: {kind: operator, text: "+"}
          right: {kind: integer_literal, text: "2"}
`

func TestLoadYAML(t *testing.T) {
	n, err := cst.Load(strings.NewReader(addDump))
	require.NoError(t, err)

	assert.Equal(t, cst.KindSourceFile, n.Kind)
	require.Len(t, n.Children, 1)
	decl := n.Children[0]
	assert.Equal(t, "x", decl.FieldText("name"))
	assert.Equal(t, cst.Position{Line: 1, Column: 8}, decl.Field("value").Pos())
	assert.Equal(t, "+", decl.Field("value").FieldText("operator"))
	assert.Nil(t, decl.Field("type"))
}

func TestLoadJSON(t *testing.T) {
	n, err := cst.Load(strings.NewReader(`{"kind": "identifier", "text": "cat", "range": [2, 4, 2, 7]}`))
	require.NoError(t, err)
	assert.Equal(t, "cat", n.Text)
	assert.Equal(t, cst.Position{Line: 2, Column: 7}, n.End())
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"missing kind": `{text: x}`,
		"short range":  `{kind: identifier, range: [1, 2]}`,
		"nested":       `{kind: block, children: [{text: y}]}`,
		"null child":   `{kind: source_file, children: [null]}`,
		"tilde child":  `{kind: block, children: [{kind: block, children: [~]}]}`,
	}
	for name, dump := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cst.Load(strings.NewReader(dump))
			assert.Error(t, err)
		})
	}
}

func TestLoadNamesNullChild(t *testing.T) {
	_, err := cst.Load(strings.NewReader("kind: source_file\nchildren:\n  - null\n"))
	assert.ErrorContains(t, err, "node at $[0] is null")
}

func TestDumpRoundTrip(t *testing.T) {
	n, err := cst.Load(strings.NewReader(addDump))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, cst.Dump(buf, n))
	again, err := cst.Load(buf)
	require.NoError(t, err)
	assert.Equal(t, n.Hash(), again.Hash())
	assert.Equal(t, n.String(), again.String())
}

func TestNodeHelpersAreNilSafe(t *testing.T) {
	var n *cst.Node
	assert.Nil(t, n.Field("x"))
	assert.False(t, n.Is(cst.KindBlock))
	assert.Empty(t, n.ChildrenOf(cst.KindBlock))
	assert.Equal(t, cst.Range{}, n.Span())
	assert.Equal(t, "nil", n.String())
}

func TestSlogRendersLazily(t *testing.T) {
	n, err := cst.Load(strings.NewReader(addDump))
	require.NoError(t, err)
	assert.Equal(t, n.String(), cst.Slog(n).LogValue().String())
}
