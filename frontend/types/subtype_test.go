package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtypeTable(t *testing.T) {
	animal := NewSealed("Animal", "Dog", "Cat")
	dog := NewEntity("Dog", "Animal")
	point := NewEntity("Point", "")

	tests := []struct {
		name     string
		sub, sup Type
		expected bool
	}{
		{"int fits float", Int, Float, true},
		{"float does not fit int", Float, Int, false},
		{"string is not bool", String, Bool, false},
		{"null fits nullable", Null, Nullable{Inner: String}, true},
		{"null does not fit string", Null, String, false},
		{"plain fits nullable", Int, Nullable{Inner: Int}, true},
		{"nullable does not fit plain", Nullable{Inner: Int}, Int, false},
		{"nullable widens", Nullable{Inner: Int}, Nullable{Inner: Float}, true},
		{"immutable list is covariant", List{Elem: Int}, List{Elem: Float}, true},
		{"mutable list is invariant", List{Elem: Int, Mutable: true}, List{Elem: Float, Mutable: true}, false},
		{"mutable list fits read-only", List{Elem: Int, Mutable: true}, List{Elem: Int}, true},
		{"read-only list fits mutable of the same element", List{Elem: Int}, List{Elem: Int, Mutable: true}, true},
		{"read-only list is invariant against mutable", List{Elem: Int}, List{Elem: Float, Mutable: true}, false},
		{"read-only map fits mutable of the same entries", Map{Key: String, Value: Int}, Map{Key: String, Value: Int, Mutable: true}, true},
		{"set is covariant", Set{Elem: Int}, Set{Elem: Float}, true},
		{"map key is invariant", Map{Key: Int, Value: Int}, Map{Key: Float, Value: Int}, false},
		{"map value is covariant", Map{Key: String, Value: Int}, Map{Key: String, Value: Float}, true},
		{"function params are contravariant", Function{Params: []Type{Float}, Ret: Int}, Function{Params: []Type{Int}, Ret: Float}, true},
		{"function params are not covariant", Function{Params: []Type{Int}, Ret: Int}, Function{Params: []Type{Float}, Ret: Int}, false},
		{"function arity must match", Function{Params: []Type{Int}, Ret: Int}, Function{Params: []Type{Int, Int}, Ret: Int}, false},
		{"tuple is pointwise", Tuple{Elements: []Type{Int, String}}, Tuple{Elements: []Type{Float, String}}, true},
		{"tuple length must match", Tuple{Elements: []Type{Int}}, Tuple{Elements: []Type{Int, Int}}, false},
		{"member fits union", Int, NewUnion(Int, String), true},
		{"union fits wider union", NewUnion(Int, String), NewUnion(Float, String, Bool), true},
		{"union needs every member", NewUnion(Int, String), Int, false},
		{"intersection fits its member", NewIntersection(Int, String), Int, true},
		{"intersection on the right needs all", Int, NewIntersection(Int, String), false},
		{"nullable fits union with null", Nullable{Inner: Int}, NewUnion(Int, Null), true},
		{"variant fits sealed parent", dog, animal, true},
		{"unrelated entity does not fit sealed", point, animal, false},
		{"sealed does not fit variant", animal, dog, false},
		{"entity is nominal", point, NewEntity("Point", ""), true},
		{"confident payload is covariant", Confident{Payload: Int}, Confident{Payload: Float}, true},
		{"confident is not its payload", Confident{Payload: Int}, Int, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsSubtype(test.sub, test.sup), "%s <: %s", test.sub, test.sup)
		})
	}
}

func TestSubtypeBounds(t *testing.T) {
	all := []Type{
		Int, Float, String, Bool, Unit, Null, Any, Nothing,
		Nullable{Inner: Int},
		List{Elem: String},
		List{Elem: Int, Mutable: true},
		Map{Key: String, Value: Int},
		Set{Elem: Bool},
		NewEntity("Point", ""),
		NewSealed("Shape", "Circle"),
		Function{Params: []Type{Int}, Ret: String},
		Tuple{Elements: []Type{Int, Bool}},
		NewUnion(Int, String),
		NewIntersection(Int, Float),
		Confident{Payload: String},
	}
	for _, typ := range all {
		t.Run(typ.String(), func(t *testing.T) {
			assert.True(t, IsSubtype(typ, typ), "reflexive")
			assert.True(t, IsSubtype(Nothing, typ), "Nothing is bottom")
			assert.True(t, IsSubtype(typ, Any), "Any is top")
			assert.Equal(t, Is(typ, KindNothing), IsSubtype(typ, Nothing))
		})
	}
}

func TestSubtypeThroughAliases(t *testing.T) {
	b := &Alias{Name: "B", Target: Int}
	a := &Alias{Name: "A", Target: b}

	assert.True(t, IsSubtype(a, Int))
	assert.True(t, IsSubtype(Int, a))
	assert.True(t, IsSubtype(a, Float))
	assert.True(t, IsSubtype(List{Elem: a}, List{Elem: Float}))
	assert.True(t, Equal(a, Int))

	resolved, err := ResolveAlias(Function{Params: []Type{a}, Ret: Nullable{Inner: b}})
	require.NoError(t, err)
	assert.Equal(t, "(Int) -> Int?", resolved.String())
}

func TestResolveAliasCycle(t *testing.T) {
	a := &Alias{Name: "A"}
	b := &Alias{Name: "B", Target: a}
	a.Target = List{Elem: b}

	_, err := ResolveAlias(a)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "A"}, cycle.Path)

	assert.False(t, IsSubtype(Int, a), "cyclic alias relates to nothing")

	unbound := &Alias{Name: "C"}
	_, err = ResolveAlias(unbound)
	assert.ErrorContains(t, err, "has no target")
}

func TestCheckAliasCycles(t *testing.T) {
	self := &Alias{Name: "Self"}
	self.Target = Map{Key: String, Value: self}

	x := &Alias{Name: "X"}
	y := &Alias{Name: "Y", Target: x}
	x.Target = y

	fine := &Alias{Name: "Fine", Target: List{Elem: Int}}
	user := &Alias{Name: "User", Target: fine}

	errs := CheckAliasCycles([]*Alias{fine, self, x, y, user})
	require.Len(t, errs, 3)

	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Self", "X", "Y"}, names)
	assert.ErrorContains(t, errs[0], "type alias 'Self' is cyclic (Self -> Self)")
}

func TestJoin(t *testing.T) {
	assert.Equal(t, Float, Join(Int, Float))
	assert.Equal(t, Float, Join(Float, Int))
	assert.Equal(t, String, Join(nil, String))
	assert.Equal(t, Nullable{Inner: String}, Join(Null, String))
	assert.Equal(t, Nullable{Inner: Int}, Join(Int, Null))
	assert.Equal(t, "Bool | String", Join(String, Bool).String())
}
