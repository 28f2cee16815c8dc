package eval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/pkg/errors"
)

// Variadic is the MaxArity of builtins taking any number of arguments
const Variadic = -1

func defaultBuiltins() []*Builtin {
	return []*Builtin{
		{Name: "print", MaxArity: Variadic, Fn: printer("")},
		{Name: "println", MaxArity: Variadic, Fn: printer("\n")},
		{Name: "len", MinArity: 1, MaxArity: 1, Fn: builtinLen},
		{Name: "confidence", MinArity: 1, MaxArity: 1, Fn: func(_ *Evaluator, _ cst.Range, args []Value) (Value, error) {
			return Float(ConfidenceOf(args[0])), nil
		}},
		{Name: "value", MinArity: 1, MaxArity: 1, Fn: func(_ *Evaluator, _ cst.Range, args []Value) (Value, error) {
			return Strip(args[0]), nil
		}},
		{Name: "listOf", MaxArity: Variadic, Fn: listOf(false)},
		{Name: "mutableListOf", MaxArity: Variadic, Fn: listOf(true)},
		{Name: "setOf", MaxArity: Variadic, Fn: setOf(false)},
		{Name: "mutableSetOf", MaxArity: Variadic, Fn: setOf(true)},
		{Name: "mapOf", MaxArity: Variadic, Fn: mapOf(false)},
		{Name: "mutableMapOf", MaxArity: Variadic, Fn: mapOf(true)},
		{Name: "ask", MinArity: 1, MaxArity: 2, Fn: builtinAsk},
		{Name: "similar", MinArity: 2, MaxArity: 2, Fn: builtinSimilar},
		{Name: "random", Fn: func(e *Evaluator, _ cst.Range, _ []Value) (Value, error) {
			return Float(e.adapters.Random.Float64()), nil
		}},
		{Name: "readFile", MinArity: 1, MaxArity: 1, Fn: builtinReadFile},
	}
}

func printer(end string) BuiltinFunc {
	return func(e *Evaluator, _ cst.Range, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = arg.Inspect()
		}
		_, err := fmt.Fprint(e.out, strings.Join(parts, " ")+end)
		return Unit, errors.Wrap(err, "writing output")
	}
}

func builtinLen(_ *Evaluator, at cst.Range, args []Value) (Value, error) {
	switch v := Strip(args[0]).(type) {
	case Str:
		return Int(utf8.RuneCountInString(string(v))), nil
	case *List:
		return Int(len(v.Items)), nil
	case *Set:
		return Int(len(v.Items)), nil
	case *Map:
		return Int(len(v.Entries)), nil
	case Tuple:
		return Int(len(v.Items)), nil
	default:
		return nil, typeErrorf(at, "len cannot be applied to '%v'", v.Type())
	}
}

func listOf(mutable bool) BuiltinFunc {
	return func(_ *Evaluator, _ cst.Range, args []Value) (Value, error) {
		return &List{Items: append([]Value(nil), args...), Mutable: mutable}, nil
	}
}

func setOf(mutable bool) BuiltinFunc {
	return func(_ *Evaluator, _ cst.Range, args []Value) (Value, error) {
		return NewSet(mutable, args...), nil
	}
}

// mapOf takes (key, value) tuples
func mapOf(mutable bool) BuiltinFunc {
	return func(_ *Evaluator, at cst.Range, args []Value) (Value, error) {
		m := &Map{Mutable: mutable}
		for _, arg := range args {
			pair, ok := Strip(arg).(Tuple)
			if !ok || len(pair.Items) != 2 {
				return nil, typeErrorf(at, "mapOf expects (key, value) pairs, got '%v'", Strip(arg).Type())
			}
			m.Put(Strip(pair.Items[0]), pair.Items[1])
		}
		return m, nil
	}
}

func builtinAsk(e *Evaluator, at cst.Range, args []Value) (Value, error) {
	question := Strip(args[0]).Inspect()
	fallback := ""
	if len(args) > 1 {
		fallback = Strip(args[1]).Inspect()
	}
	answer, err := e.adapters.Human.Ask(question, fallback)
	if err != nil {
		return nil, e.adapterFailed(at, "human", err)
	}
	return Str(answer), nil
}

func builtinSimilar(e *Evaluator, at cst.Range, args []Value) (Value, error) {
	score, err := e.adapters.Similarity.Similarity(Strip(args[0]).Inspect(), Strip(args[1]).Inspect())
	if err != nil {
		return nil, e.adapterFailed(at, "similarity", err)
	}
	return Float(clampScore(score)), nil
}

func builtinReadFile(e *Evaluator, at cst.Range, args []Value) (Value, error) {
	bytes, err := e.adapters.Files.ReadFile(Strip(args[0]).Inspect())
	if err != nil {
		return nil, e.adapterFailed(at, "files", err)
	}
	return Str(bytes), nil
}

func (e *Evaluator) adapterFailed(at cst.Range, adapter string, err error) error {
	e.logger.Warn("adapter failed", "adapter", adapter, "err", err)
	return errors.WithStack(&AdapterError{Range: at, Adapter: adapter, Err: err})
}
