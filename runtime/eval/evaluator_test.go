package eval

import (
	"bytes"
	"io"
	"testing"

	c "github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, decls ...*cst.Node) *Evaluator {
	t.Helper()
	e := New(WithOutput(io.Discard))
	require.NoError(t, e.Load(c.File(decls...)))
	return e
}

func ints(vs ...int64) *List {
	l := &List{}
	for _, v := range vs {
		l.Items = append(l.Items, Int(v))
	}
	return l
}

func newMap(kvs ...Value) *Map {
	m := &Map{}
	for i := 0; i+1 < len(kvs); i += 2 {
		m.Put(kvs[i], kvs[i+1])
	}
	return m
}

func TestRunMain(t *testing.T) {
	var out bytes.Buffer
	e := New(WithOutput(&out))
	require.NoError(t, e.Load(c.File(
		c.Val("greeting", nil, c.Str("hi")),
		c.Fun("main", nil, nil, c.Block(
			c.ExprStmt(c.CallName("println", c.Ident("greeting"), c.Float(1), c.Conf(c.Int(2), 0.5))),
			c.Var("i", nil, c.Int(0)),
			c.While(c.Bin(c.Ident("i"), "<", c.Int(3)), c.Block(
				c.Assign(c.Ident("i"), c.Bin(c.Ident("i"), "+", c.Int(1))),
			)),
			c.Return(c.Ident("i")),
		)),
	)))

	v, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)
	assert.Equal(t, "hi 1.0 2 @ 0.5\n", out.String())
}

func TestRunWithoutMain(t *testing.T) {
	e := load(t, c.Val("x", c.TName("Int"), c.Int(1)))
	v, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, Unit, v)

	x, ok := e.Global("x")
	require.True(t, ok)
	assert.Equal(t, Int(1), x)
}

func TestLoadRejectsOtherTrees(t *testing.T) {
	assert.Error(t, New().Load(nil))
	assert.Error(t, New().Load(c.Block()))
}

func TestControlFlow(t *testing.T) {
	x := c.Ident("x")
	e := load(t,
		c.Fun("sum", []*cst.Node{c.Param("xs", c.TGeneric("List", c.TName("Int")))}, c.TName("Int"), c.Block(
			c.Var("total", nil, c.Int(0)),
			c.For("x", c.Ident("xs"), c.Block(c.Assign(c.Ident("total"), c.Bin(c.Ident("total"), "+", x)))),
			c.Return(c.Ident("total")),
		)),
		c.Fun("sign", []*cst.Node{c.Param("x", c.TName("Int"))}, c.TName("Int"), c.Block(
			c.ExprStmt(c.If(c.Bin(x, "<", c.Int(0)), c.Block(c.Return(c.Unary("-", c.Int(1)))), nil)),
			c.Return(c.Int(1)),
		)),
		c.Fun("abs", []*cst.Node{c.Param("x", c.TName("Int"))}, nil,
			c.If(c.Bin(x, "<", c.Int(0)), c.Unary("-", x), x),
		),
		c.Fun("counter", nil, c.TName("Int"), c.Block(
			c.Var("n", nil, c.Int(0)),
			c.Val("inc", nil, c.Lambda(nil, c.Block(c.Assign(c.Ident("n"), c.Bin(c.Ident("n"), "+", c.Int(1)))))),
			c.ExprStmt(c.CallName("inc")),
			c.ExprStmt(c.CallName("inc")),
			c.Return(c.Ident("n")),
		)),
		c.Fun("poke", nil, c.TName("Int"), c.Block(
			c.Val("xs", nil, c.CallName("mutableListOf", c.Int(1), c.Int(2))),
			c.Assign(c.Index(c.Ident("xs"), c.Int(0)), c.Int(5)),
			c.Return(c.Bin(c.Index(c.Ident("xs"), c.Int(0)), "+", c.Member(c.Ident("xs"), "size"))),
		)),
		c.Var("count", nil, c.Int(0)),
		c.Fun("bump", nil, nil, c.Block(
			c.Assign(c.Ident("count"), c.Bin(c.Ident("count"), "+", c.Int(1))),
			c.Return(c.Ident("count")),
		)),
		c.Fun("greet", []*cst.Node{c.Param("name", c.TName("String")), c.ParamDefault("greeting", c.TName("String"), c.Str("hi "))}, nil,
			c.Bin(c.Ident("greeting"), "+", c.Ident("name")),
		),
		c.Fun("apply", []*cst.Node{c.Param("f", c.TFunc([]*cst.Node{c.TName("Int")}, c.TName("Int"))), c.Param("v", c.TName("Int"))}, nil,
			c.Call(c.Ident("f"), c.Ident("v")),
		),
	)

	tests := map[string]struct {
		fn       string
		args     []Value
		expected Value
	}{
		"for over a list":           {"sum", []Value{ints(1, 2, 3)}, Int(6)},
		"for over an empty list":    {"sum", []Value{ints()}, Int(0)},
		"return inside if":          {"sign", []Value{Int(-5)}, Int(-1)},
		"no return inside if":       {"sign", []Value{Int(5)}, Int(1)},
		"if expression body":        {"abs", []Value{Int(-4)}, Int(4)},
		"closures share vars":       {"counter", nil, Int(2)},
		"mutable list":              {"poke", nil, Int(7)},
		"globals":                   {"bump", nil, Int(1)},
		"default argument":          {"greet", []Value{Str("bob")}, Str("hi bob")},
		"explicit default argument": {"greet", []Value{Str("bob"), Str("yo ")}, Str("yo bob")},
		"extra arguments ignored":   {"abs", []Value{Int(2), Int(3)}, Int(2)},
		"function arguments":        {"apply", []Value{&Builtin{Name: "id", MaxArity: 1, Fn: func(_ *Evaluator, _ cst.Range, args []Value) (Value, error) { return args[0], nil }}, Int(9)}, Int(9)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := e.Call(test.fn, test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}
}

func TestCollections(t *testing.T) {
	tests := map[string]struct {
		expr     *cst.Node
		expected Value
	}{
		"map index":          {c.Index(c.Map(c.Pair(c.Str("a"), c.Int(1))), c.Str("a")), Int(1)},
		"missing map key":    {c.Index(c.Map(c.Pair(c.Str("a"), c.Int(1))), c.Str("b")), Null},
		"string index":       {c.Index(c.Str("héllo"), c.Int(1)), Str("é")},
		"tuple index":        {c.Index(c.Tuple(c.Int(1), c.Str("x")), c.Int(1)), Str("x")},
		"set deduplicates":   {c.CallName("len", c.SetOf(c.Int(1), c.Int(1), c.Float(1))), Int(1)},
		"mapOf takes tuples": {c.CallName("mapOf", c.Tuple(c.Str("k"), c.Int(2))), newMap(Str("k"), Int(2))},
		"string length":      {c.Member(c.Str("héllo"), "length"), Int(5)},
		"value drops score":  {c.CallName("value", c.Conf(c.Int(4), 0.2)), Int(4)},
		"confidence reads":   {c.CallName("confidence", c.Conf(c.Int(4), 0.2)), Float(0.2)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := evalExpr(t, test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}
}

func TestMutableCollections(t *testing.T) {
	counts := c.TGeneric("MutableMap", c.TName("String"), c.TName("Int"))
	e := load(t,
		c.Fun("put", []*cst.Node{c.Param("m", counts)}, nil, c.Block(
			c.Assign(c.Index(c.Ident("m"), c.Str("b")), c.Int(2)),
			c.Return(c.CallName("len", c.Ident("m"))),
		)),
		c.Fun("main", nil, nil, c.Block(
			c.Val("m", nil, c.CallName("mutableMapOf", c.Tuple(c.Str("a"), c.Int(1)))),
			c.ExprStmt(c.CallName("put", c.Ident("m"))),
			c.Return(c.Index(c.Ident("m"), c.Str("b"))),
		)),
	)
	v, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, Int(2), v)

	v, err = evalExpr(t, c.CallName("mutableSetOf", c.Int(1), c.Int(1)))
	require.NoError(t, err)
	assert.Equal(t, NewSet(true, Int(1)), v)
}

func TestMapInspect(t *testing.T) {
	m := &Map{}
	m.Put(Str("a"), Int(1))
	m.Put(Str("b"), NewConfident(Int(2), 0.5))
	m.Put(Str("a"), Int(3))
	assert.Equal(t, "{a: 3, b: 2 @ 0.5}", m.Inspect())
	assert.Equal(t, "[1, 2]", ints(1, 2).Inspect())
	assert.Equal(t, "(1, x)", Tuple{Items: []Value{Int(1), Str("x")}}.Inspect())
}

func TestRuntimeErrors(t *testing.T) {
	fun := c.Fun("needsInt", []*cst.Node{c.Param("x", c.TName("Int"))}, nil, c.Ident("x"))
	tests := map[string]struct {
		stmts   []*cst.Node
		code    herr.Code
		message string
	}{
		"undefined name": {
			stmts:   []*cst.Node{c.ExprStmt(c.Ident("nope"))},
			code:    herr.UndefinedName,
			message: "undefined name 'nope'",
		},
		"too few arguments": {
			stmts:   []*cst.Node{c.ExprStmt(c.CallName("needsInt"))},
			code:    herr.CallArity,
			message: "needsInt expects at least 1 argument(s) but got 0",
		},
		"argument type": {
			stmts:   []*cst.Node{c.ExprStmt(c.CallName("needsInt", c.Str("one")))},
			code:    herr.TypeIncompatible,
			message: "argument 'x' of needsInt expects 'Int', got 'String'",
		},
		"missing member": {
			stmts:   []*cst.Node{c.ExprStmt(c.Member(c.Int(1), "size"))},
			code:    herr.MemberNotFound,
			message: "property 'size' does not exist on 'Int'",
		},
		"reassigned val": {
			stmts:   []*cst.Node{c.Val("v", nil, c.Int(1)), c.Assign(c.Ident("v"), c.Int(2))},
			code:    herr.TypeIncompatible,
			message: "cannot reassign val 'v'",
		},
		"read-only list": {
			stmts:   []*cst.Node{c.Val("xs", nil, c.List(c.Int(1))), c.Assign(c.Index(c.Ident("xs"), c.Int(0)), c.Int(2))},
			code:    herr.TypeIncompatible,
			message: "cannot modify a read-only List",
		},
		"not callable": {
			stmts:   []*cst.Node{c.Val("v", nil, c.Int(1)), c.ExprStmt(c.CallName("v"))},
			code:    herr.TypeIncompatible,
			message: "'Int' is not callable",
		},
		"division by zero": {
			stmts:   []*cst.Node{c.ExprStmt(c.Bin(c.Int(1), "/", c.Int(0)))},
			code:    herr.TypeIncompatible,
			message: "division by zero",
		},
		"non-bool condition": {
			stmts:   []*cst.Node{c.ExprStmt(c.If(c.Int(1), c.Int(2), nil))},
			code:    herr.TypeIncompatible,
			message: "condition should be Bool, got 'Int'",
		},
		"bool arithmetic": {
			stmts:   []*cst.Node{c.ExprStmt(c.Bin(c.Bool(true), "+", c.Int(1)))},
			code:    herr.TypeIncompatible,
			message: "operator '+' cannot be applied to 'Bool' and 'Int'",
		},
		"index out of range": {
			stmts:   []*cst.Node{c.ExprStmt(c.Index(c.List(c.Int(1)), c.Int(3)))},
			code:    herr.TypeIncompatible,
			message: "index 3 out of range for size 1",
		},
		"annotated local": {
			stmts:   []*cst.Node{c.Val("s", c.TName("String"), c.Int(1))},
			code:    herr.TypeIncompatible,
			message: "'s' expects 'String', got 'Int'",
		},
		"malformed tree": {
			stmts:   []*cst.Node{{Kind: cst.KindReturn + "_typo"}},
			code:    herr.Malformed,
			message: "malformed return_statement_typo: missing field 'statement'",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			e := load(t, fun, c.Fun("main", nil, nil, c.Block(test.stmts...)))
			_, err := e.Run()
			require.Error(t, err)

			var rt RuntimeError
			require.ErrorAs(t, err, &rt)
			assert.Equal(t, test.code, rt.Code())
			assert.Equal(t, test.message, rt.Error())
		})
	}
}

func TestCallDepth(t *testing.T) {
	e := New(WithOutput(io.Discard), WithMaxDepth(50))
	require.NoError(t, e.Load(c.File(c.Fun("loop", nil, nil, c.CallName("loop")))))
	_, err := e.Call("loop")
	assert.ErrorIs(t, err, ErrCallDepth)
}

func TestCallUndefined(t *testing.T) {
	_, err := load(t).Call("missing")
	var undefined *UndefinedError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "missing", undefined.Name)
}

func TestAnnotatedCollections(t *testing.T) {
	floats := c.TGeneric("List", c.TName("Float"))
	mutableInts := c.TGeneric("MutableList", c.TName("Int"))
	e := load(t,
		c.Fun("mean", []*cst.Node{c.Param("xs", floats)}, nil, c.CallName("len", c.Ident("xs"))),
		c.Fun("push", []*cst.Node{c.Param("xs", mutableInts)}, nil, c.CallName("len", c.Ident("xs"))),
		c.Fun("maybe", []*cst.Node{c.Param("x", c.TNullable(c.TName("Int")))}, nil, c.Ident("x")),
		c.Fun("either", []*cst.Node{c.Param("x", c.TUnion(c.TName("Int"), c.TName("String")))}, nil, c.Ident("x")),
	)

	_, err := e.Call("mean", ints(1, 2))
	assert.NoError(t, err, "Int items fit Float")
	_, err = e.Call("mean", &List{})
	assert.NoError(t, err, "an empty list fits any list")
	_, err = e.Call("push", ints(1))
	assert.NoError(t, err, "mutability does not take part in conformance")
	_, err = e.Call("push", &List{Items: []Value{Str("a")}, Mutable: true})
	assert.Error(t, err)
	_, err = e.Call("push", &List{Mutable: true})
	assert.NoError(t, err)
	_, err = e.Call("maybe", Null)
	assert.NoError(t, err)
	_, err = e.Call("either", Str("s"))
	assert.NoError(t, err)
	_, err = e.Call("either", Bool(true))
	assert.Error(t, err)
	_, err = e.Call("maybe", NewConfident(Int(1), 0.4))
	assert.NoError(t, err, "confidence is ignored by argument checks")
}
