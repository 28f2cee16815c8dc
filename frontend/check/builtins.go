package check

import (
	"github.com/cottand/hunch/frontend/types"
)

// Builtin describes a host-provided function to the checker
type Builtin struct {
	Name     string
	MinArity int
	// MaxArity is Variadic for functions accepting any number of arguments
	MaxArity int
	// Result computes the type of a call from the types of its arguments.
	// Arguments beyond MaxArity are not passed.
	Result func(args []types.Type) types.Type
}

func returns(t types.Type) func([]types.Type) types.Type {
	return func([]types.Type) types.Type { return t }
}

func joinAll(ts []types.Type) types.Type {
	var ret types.Type
	for _, t := range ts {
		ret = types.Join(ret, t)
	}
	if ret == nil {
		return types.Nothing
	}
	return ret
}

func listOf(mutable bool) func([]types.Type) types.Type {
	return func(args []types.Type) types.Type {
		return types.List{Elem: joinAll(args), Mutable: mutable}
	}
}

func setOf(mutable bool) func([]types.Type) types.Type {
	return func(args []types.Type) types.Type {
		return types.Set{Elem: joinAll(args), Mutable: mutable}
	}
}

// mapOf takes (key, value) tuples
func mapOf(mutable bool) func([]types.Type) types.Type {
	return func(args []types.Type) types.Type {
		var keys, values []types.Type
		for _, arg := range args {
			tuple, ok := arg.(types.Tuple)
			if !ok || len(tuple.Elements) != 2 {
				return types.Map{Key: types.Any, Value: types.Any, Mutable: mutable}
			}
			keys = append(keys, tuple.Elements[0])
			values = append(values, tuple.Elements[1])
		}
		return types.Map{Key: joinAll(keys), Value: joinAll(values), Mutable: mutable}
	}
}

func valueOf(args []types.Type) types.Type {
	if len(args) == 0 {
		return types.Any
	}
	return stripConfidence(args[0])
}

// DefaultBuiltins are the functions every evaluator provides
func DefaultBuiltins() []Builtin {
	return []Builtin{
		{Name: "print", MinArity: 0, MaxArity: Variadic, Result: returns(types.Unit)},
		{Name: "println", MinArity: 0, MaxArity: Variadic, Result: returns(types.Unit)},
		{Name: "len", MinArity: 1, MaxArity: 1, Result: returns(types.Int)},
		{Name: "confidence", MinArity: 1, MaxArity: 1, Result: returns(types.Float)},
		{Name: "value", MinArity: 1, MaxArity: 1, Result: valueOf},
		{Name: "listOf", MinArity: 0, MaxArity: Variadic, Result: listOf(false)},
		{Name: "mutableListOf", MinArity: 0, MaxArity: Variadic, Result: listOf(true)},
		{Name: "setOf", MinArity: 0, MaxArity: Variadic, Result: setOf(false)},
		{Name: "mutableSetOf", MinArity: 0, MaxArity: Variadic, Result: setOf(true)},
		{Name: "mapOf", MinArity: 0, MaxArity: Variadic, Result: mapOf(false)},
		{Name: "mutableMapOf", MinArity: 0, MaxArity: Variadic, Result: mapOf(true)},
		{Name: "ask", MinArity: 1, MaxArity: 2, Result: returns(types.String)},
		{Name: "similar", MinArity: 2, MaxArity: 2, Result: returns(types.Float)},
		{Name: "random", MinArity: 0, MaxArity: 0, Result: returns(types.Float)},
		{Name: "readFile", MinArity: 1, MaxArity: 1, Result: returns(types.String)},
	}
}
