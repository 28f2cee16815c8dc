package hunch

import (
	"bytes"
	"testing"
	"testing/fstest"

	c "github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/runtime/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumDump = `
kind: source_file
children:
  - kind: function_declaration
    range: [1, 0, 1, 20]
    fields:
      name: {kind: identifier, text: main}
      body:
        kind: binary_expression
        fields:
          left: {kind: integer_literal, text: "1"}
          operator: {kind: operator, text: "+"}
          right: {kind: integer_literal, text: "2"}
`

func TestLoadUnit(t *testing.T) {
	fsys := fstest.MapFS{
		"prog/sum.yaml":  {Data: []byte(sumDump)},
		"prog/notes.txt": {Data: []byte("not a dump")},
		"empty/.keep":    {Data: nil},
	}

	for _, name := range []string{"prog/sum.yaml", "prog"} {
		u, err := LoadUnit(fsys, name)
		require.NoError(t, err, name)
		assert.Equal(t, "sum", u.Name())
		assert.Empty(t, u.Diagnostics().All())

		v, err := u.Run(eval.WithOutput(&bytes.Buffer{}))
		require.NoError(t, err)
		assert.Equal(t, eval.Int(3), v)
	}

	_, err := LoadUnit(fsys, "empty")
	assert.ErrorContains(t, err, "no tree dump found in empty")

	_, err = LoadUnit(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestNewUnitFromBytes(t *testing.T) {
	u, err := NewUnitFromBytes([]byte(sumDump))
	require.NoError(t, err)
	assert.Equal(t, "test", u.Name())
	assert.NotEqual(t, u.ID(), NewUnit("other", nil).ID())
	assert.Contains(t, u.DisplayTypes(), "function main")

	_, err = NewUnitFromBytes([]byte("kind: [unclosed"))
	assert.Error(t, err)
}

func TestRunBlockedByErrors(t *testing.T) {
	u := NewUnit("broken", c.File(
		c.Fun("main", nil, nil, c.CallName("missing")),
	))
	_, err := u.Run()
	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	require.True(t, blocked.Diagnostics.HasError())
	assert.Equal(t, herr.UndefinedName, blocked.Diagnostics.Errors()[0].Code())
	assert.Contains(t, err.Error(), "unit has 1 error(s)")
}

func TestRunWithWarnings(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewUnit("warned", c.File(
		c.Fun("main", nil, nil, c.CallName("println", c.Conf(c.Str("cat"), 0.9), c.If(c.Int(1), c.Int(2), c.Int(3)))),
	))
	require.NotEmpty(t, u.Diagnostics().Warnings())

	_, err := u.Run(eval.WithOutput(out))
	var typeErr *eval.TypeError
	require.ErrorAs(t, err, &typeErr, "a warning does not block, but the evaluator still rejects the condition")
	assert.Empty(t, out.String())
}

func TestCheckIsCached(t *testing.T) {
	u := NewUnit("cached", c.File(c.Fun("main", nil, nil, c.Int(1))))
	assert.Same(t, u.Check(), u.Check())
}
