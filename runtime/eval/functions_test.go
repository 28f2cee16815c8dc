package eval

import (
	"testing"

	c "github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyPredicate(t *testing.T) {
	x := c.Ident("x")
	e := load(t,
		c.Fuzzy("likely", []*cst.Node{c.Param("x", c.TName("Int"))},
			c.Factor(c.Bin(x, ">", c.Int(0)), 0.6),
			c.Factor(c.Bin(x, ">", c.Int(10)), 0.4),
		),
		c.Fuzzy("never", nil, c.Factor(c.Bool(true), 0)),
		c.Fuzzy("empty", nil),
	)

	tests := map[string]struct {
		arg      Value
		expected Value
	}{
		"no factor holds":   {Int(-1), Confident{Inner: Bool(false), Score: 0}},
		"every factor":      {Int(20), Confident{Inner: Bool(true), Score: 1}},
		"weighted majority": {Int(5), Confident{Inner: Bool(true), Score: 0.6}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := e.Call("likely", test.arg)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}

	for _, name := range []string{"never", "empty"} {
		_, err := e.Call(name)
		var weightErr *WeightError
		require.ErrorAs(t, err, &weightErr)
		assert.Equal(t, "fuzzy predicate '"+name+"' has zero total weight", weightErr.Error())
	}
}

func TestFuzzyMinority(t *testing.T) {
	e := load(t, c.Fuzzy("weak", nil,
		c.Factor(c.Bool(true), 1),
		c.Factor(c.Bool(false), 3),
	))
	v, err := e.Call("weak")
	require.NoError(t, err)
	assert.Equal(t, Confident{Inner: Bool(false), Score: 0.25}, v)
	assert.Equal(t, "false @ 0.25", v.Inspect())
}

func TestIntentResolution(t *testing.T) {
	x, result := c.Ident("x"), c.Ident("result")
	positive := c.Ensure(c.Bin(result, ">", c.Int(0)))
	e := load(t,
		c.Intent("fromBody", []*cst.Node{c.Param("x", c.TName("Int"))}, c.TName("Int"),
			c.Return(x),
			positive,
			c.Fallback(c.Int(1)),
		),
		c.Intent("fromFallback", nil, nil,
			c.Val("unused", nil, c.Int(0)),
			c.NamedEnsure("small", c.Bin(result, "<", c.Int(100))),
			c.Fallback(c.Int(42)),
		),
		c.Intent("badFallback", nil, nil,
			c.NamedEnsure("large", c.Bin(result, ">", c.Int(100))),
			c.Fallback(c.Int(1)),
		),
		c.Intent("trailing", []*cst.Node{c.Param("x", c.TName("Int"))}, nil,
			c.ExprStmt(c.Bin(x, "*", c.Int(2))),
			c.Ensure(c.Bin(result, ">=", x)),
			c.Fallback(c.Int(0)),
		),
		c.Intent("fallbackFirst", nil, nil,
			c.Fallback(c.Int(1)),
			c.Return(c.Int(2)),
		),
		c.Intent("nothing", nil, nil,
			c.Val("y", nil, c.Int(1)),
			c.Ensure(c.Bool(true)),
		),
		c.Intent("adapting", nil, nil,
			c.Return(c.Str("ok")),
			&cst.Node{Kind: "adapt_clause"},
		),
	)

	tests := map[string]struct {
		fn       string
		args     []Value
		expected Value
	}{
		"candidate from statements":   {"fromBody", []Value{Int(5)}, Int(5)},
		"candidate from fallback":     {"fromFallback", nil, Int(42)},
		"trailing expression":         {"trailing", []Value{Int(3)}, Int(6)},
		"fallback is a last resort":   {"fallbackFirst", nil, Int(2)},
		"unknown clauses are skipped": {"adapting", nil, Str("ok")},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := e.Call(test.fn, test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}

	violations := map[string]struct {
		fn     string
		args   []Value
		clause string
	}{
		"failing guard does not retry the fallback": {"fromBody", []Value{Int(-3)}, "result > 0"},
		"named clause":                {"badFallback", nil, "large"},
		"guard sees the parameters":   {"trailing", []Value{Int(-3)}, "result >= x"},
		"no candidate and no fallback": {"nothing", nil, "no value produced"},
	}
	for name, test := range violations {
		t.Run(name, func(t *testing.T) {
			_, err := e.Call(test.fn, test.args...)
			var violation *ConstraintViolation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, test.fn, violation.Function)
			assert.Equal(t, test.clause, violation.Clause)
		})
	}
}

func TestIntentMessage(t *testing.T) {
	e := load(t, c.Intent("pick", nil, nil,
		c.Ensure(c.Bin(c.Ident("result"), "==", c.Str("b"))),
		c.Fallback(c.Str("a")),
	))
	_, err := e.Call("pick")
	require.Error(t, err)
	assert.Equal(t, `calling pick: pick: constraint 'result == "b"' violated`, err.Error())
}

func TestEntityInvariants(t *testing.T) {
	value := c.Ident("value")
	e := load(t,
		c.Entity("Age",
			c.FieldDecl("value", c.TName("Int")),
			c.Invariant(c.Bin(value, ">=", c.Int(0))),
			c.Invariant(c.Bin(c.Member(c.Ident("this"), "value"), "<", c.Int(150))),
		),
		c.Sealed("Shape",
			c.Entity("Circle", c.FieldDecl("r", c.TName("Float")), c.Invariant(c.Bin(c.Ident("r"), ">", c.Int(0)))),
			c.Entity("Square", c.FieldDecl("side", c.TName("Float"))),
		),
		c.Fun("area", []*cst.Node{c.Param("s", c.TName("Shape"))}, nil, c.Ident("s")),
	)

	age, err := e.Call("Age", Int(3))
	require.NoError(t, err)
	assert.Equal(t, "Age(value=3)", age.Inspect())

	for arg, clause := range map[int64]string{-1: "value >= 0", 200: "this.value < 150"} {
		_, err := e.Call("Age", Int(arg))
		var violation *InvariantViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "Age", violation.Entity)
		assert.Equal(t, clause, violation.Clause)
	}

	_, err = e.Call("Age", Str("three"))
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "field 'value' of Age expects 'Int', got 'String'", typeErr.Message)

	_, err = e.Call("Age")
	var arity *ArityError
	require.ErrorAs(t, err, &arity)

	circle, err := e.Call("Circle", Float(1))
	require.NoError(t, err)
	_, err = e.Call("area", circle)
	assert.NoError(t, err, "variants fit their sealed type")
	_, err = e.Call("area", age)
	assert.Error(t, err)

	_, err = e.Call("Circle", Int(0))
	require.ErrorAs(t, err, new(*InvariantViolation))
}

func TestConfidentMemberAccess(t *testing.T) {
	e := load(t, c.Entity("Guess",
		c.FieldDecl("label", c.TName("String")),
		c.FieldDecl("score", c.TGeneric("Confident", c.TName("Int"))),
	))
	guess := c.Conf(c.CallName("Guess", c.Str("cat"), c.Conf(c.Int(3), 0.5)), 0.8)

	v, err := e.EvalExpr(c.Member(guess, "label"), NewEnv())
	require.NoError(t, err)
	assert.Equal(t, Confident{Inner: Str("cat"), Score: 0.8}, v)

	v, err = e.EvalExpr(c.Member(guess, "score"), NewEnv())
	require.NoError(t, err)
	assert.Equal(t, Confident{Inner: Int(3), Score: 0.4}, v)

	_, err = e.EvalExpr(c.Member(guess, "missing"), NewEnv())
	var memberErr *MemberError
	require.ErrorAs(t, err, &memberErr)
	assert.Equal(t, "Guess", memberErr.On)
}
