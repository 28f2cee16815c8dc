package types

import (
	"errors"
	"testing"

	"github.com/cottand/hunch/frontend/construct"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionNormalisation(t *testing.T) {
	assert.Equal(t, Nothing, NewUnion())
	assert.Equal(t, Int, NewUnion(Int, Int))
	assert.Equal(t, Any, NewIntersection())

	nested := NewUnion(Int, NewUnion(String, Bool), String)
	u, ok := nested.(Union)
	require.True(t, ok)
	assert.Len(t, u.Members(), 3)
	assert.Equal(t, "Bool | Int | String", nested.String())

	assert.Equal(t, NewUnion(Int, String).Hash(), NewUnion(String, Int).Hash(), "order does not matter")
	assert.NotEqual(t, NewUnion(Int, String).Hash(), NewIntersection(Int, String).Hash())
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{List{Elem: Int}, "List<Int>"},
		{List{Elem: Int, Mutable: true}, "MutableList<Int>"},
		{Map{Key: String, Value: Nullable{Inner: Int}}, "Map<String, Int?>"},
		{Set{Elem: Bool, Mutable: true}, "MutableSet<Bool>"},
		{Function{Params: []Type{Int, String}, Ret: Unit}, "(Int, String) -> Unit"},
		{Nullable{Inner: Function{Ret: Int}}, "(() -> Int)?"},
		{Tuple{Elements: []Type{Int, Float}}, "(Int, Float)"},
		{Confident{Payload: String}, "Confident<String>"},
		{&Alias{Name: "UserId", Target: Int}, "UserId"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.typ.String())
	}
}

func TestEntityFields(t *testing.T) {
	point := NewEntity("Point", "").SetFields([]Field{{"x", Int}, {"y", Int}})
	typ, ok := point.Field("y")
	assert.True(t, ok)
	assert.Equal(t, Int, typ)

	_, ok = point.Field("z")
	assert.False(t, ok)

	assert.True(t, NewSealed("Shape", "Circle").HasVariant("Circle"))
	assert.False(t, Sealed{Name: "Empty"}.HasVariant("Circle"))
}

func TestFromNode(t *testing.T) {
	user := NewEntity("User", "")
	lookup := func(name string) (Type, bool) {
		if name == "User" {
			return user, true
		}
		return nil, false
	}

	tests := []struct {
		name     string
		expected string
		node     func() Type
	}{
		{"primitive", "Int", func() Type { return FromNode(construct.TName("Int"), lookup, nil) }},
		{"entity", "User", func() Type { return FromNode(construct.TName("User"), lookup, nil) }},
		{"nullable", "User?", func() Type { return FromNode(construct.TNullable(construct.TName("User")), lookup, nil) }},
		{"mutable map", "MutableMap<String, Int>", func() Type {
			return FromNode(construct.TGeneric("MutableMap", construct.TName("String"), construct.TName("Int")), lookup, nil)
		}},
		{"confident", "Confident<Bool>", func() Type {
			return FromNode(construct.TGeneric("Confident", construct.TName("Bool")), lookup, nil)
		}},
		{"function", "(Int, String) -> Bool", func() Type {
			return FromNode(construct.TFunc([]*cst.Node{construct.TName("Int"), construct.TName("String")}, construct.TName("Bool")), lookup, nil)
		}},
		{"union", "Int | String", func() Type {
			return FromNode(construct.TUnion(construct.TName("String"), construct.TName("Int")), lookup, nil)
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.node().String())
		})
	}
}

func TestFromNodeReportsProblems(t *testing.T) {
	var errs []error
	onErr := func(err error) { errs = append(errs, err) }

	typ := FromNode(construct.TName("Nope"), nil, onErr)
	assert.Equal(t, Any, typ)

	typ = FromNode(construct.TGeneric("List", construct.TName("Int"), construct.TName("Int")), nil, onErr)
	assert.Equal(t, Any, typ)

	require.Len(t, errs, 2)
	var unknown *UnknownTypeError
	assert.True(t, errors.As(errs[0], &unknown))
	assert.Equal(t, "Nope", unknown.Name)
	assert.EqualError(t, errs[1], "Type 'List' expects 1 type argument(s) but got 2")
}
