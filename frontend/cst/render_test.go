package cst_test

import (
	"testing"

	"github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/stretchr/testify/assert"
)

func TestSource(t *testing.T) {
	c := construct.Bin(construct.Ident("result"), ">", construct.Int(0))
	assert.Equal(t, "result > 0", cst.Source(c))

	call := construct.CallName("similar", construct.Member(construct.Ident("p"), "name"), construct.Str("bob"))
	assert.Equal(t, `similar(p.name, "bob")`, cst.Source(call))

	neg := construct.Unary("!", construct.Paren(construct.Conf(construct.Bool(true), 0.9)))
	assert.Equal(t, "!(true @ 0.9)", cst.Source(neg))

	assert.Equal(t, "[1, xs[0]]", cst.Source(construct.List(construct.Int(1), construct.Index(construct.Ident("xs"), construct.Int(0)))))
}
