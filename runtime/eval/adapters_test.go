package eval

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	c "github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offlineHuman struct{}

func (offlineHuman) Ask(string, string) (string, error) {
	return "", errors.New("nobody is around")
}

func TestDefaultAdapters(t *testing.T) {
	e := New(WithOutput(io.Discard), WithAdapters(Adapters{Human: NoopHuman{Default: "yes"}}))
	tests := map[string]struct {
		expr     *cst.Node
		expected Value
	}{
		"ask answers the default":  {c.CallName("ask", c.Str("ok?")), Str("yes")},
		"ask prefers the fallback": {c.CallName("ask", c.Str("ok?"), c.Str("maybe")), Str("maybe")},
		"similar strings":          {c.CallName("similar", c.Str("Cat"), c.Str(" cat")), Float(1)},
		"different strings":        {c.CallName("similar", c.Str("cat"), c.Str("dog")), Float(0)},
		"fixed random":             {c.CallName("random"), Float(0.5)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := e.EvalExpr(test.expr, NewEnv())
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}
}

func TestAdapterFailures(t *testing.T) {
	e := New(WithOutput(io.Discard), WithAdapters(Adapters{Human: offlineHuman{}}))

	_, err := e.EvalExpr(c.CallName("ask", c.Str("ok?")), NewEnv())
	var adapterErr *AdapterError
	require.ErrorAs(t, err, &adapterErr)
	assert.Equal(t, "human", adapterErr.Adapter)
	assert.EqualError(t, adapterErr, "human adapter failed: nobody is around")

	_, err = e.EvalExpr(c.CallName("readFile", c.Str("/etc/hostname")), NewEnv())
	require.ErrorAs(t, err, &adapterErr)
	assert.Equal(t, "files", adapterErr.Adapter)
	assert.ErrorIs(t, err, ErrFileAccessDenied)
}

func TestRootedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("remember"), 0o600))

	e := New(WithOutput(io.Discard), WithAdapters(Adapters{Files: RootedFiles{Roots: []string{root}}}))
	v, err := e.EvalExpr(c.CallName("readFile", c.Str(path)), NewEnv())
	require.NoError(t, err)
	assert.Equal(t, Str("remember"), v)

	_, err = e.EvalExpr(c.CallName("readFile", c.Str(filepath.Join(root, "..", "elsewhere.txt"))), NewEnv())
	assert.ErrorIs(t, err, ErrFileAccessDenied)
}

func TestWithBuiltin(t *testing.T) {
	double := &Builtin{Name: "double", MinArity: 1, MaxArity: 1, Fn: func(_ *Evaluator, at cst.Range, args []Value) (Value, error) {
		i, ok := Strip(args[0]).(Int)
		if !ok {
			return nil, typeErrorf(at, "double expects an Int")
		}
		return propagate(i*2, args[0]), nil
	}}
	e := New(WithOutput(io.Discard), WithBuiltin(double))

	v, err := e.EvalExpr(c.CallName("double", c.Conf(c.Int(4), 0.5)), NewEnv())
	require.NoError(t, err)
	assert.Equal(t, Confident{Inner: Int(8), Score: 0.5}, v)

	_, err = e.EvalExpr(c.CallName("double"), NewEnv())
	var arity *ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, "double expects at least 1 argument(s) but got 0", arity.Error())
}

func TestRootedFilesBase(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "a.txt"), []byte("a"), 0o600))

	files := RootedFiles{Roots: []string{filepath.Join(root, "data")}, Base: root}
	bytes, err := files.ReadFile("data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(bytes))

	_, err = files.ReadFile("data/../../a.txt")
	assert.ErrorIs(t, err, ErrFileAccessDenied)
}
