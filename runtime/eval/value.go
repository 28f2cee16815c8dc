// Package eval runs hunch programs directly off their syntax tree.
//
// Values carry their runtime type so that annotated parameters, fields and
// locals can be checked as they are bound. A Confident value pairs any other
// value with a score in [0, 1] which operators propagate (see confidence.go).
package eval

import (
	"strconv"
	"strings"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
	"github.com/cottand/hunch/util"
)

type Value interface {
	// Inspect is how print displays the value
	Inspect() string
	Type() types.Type
	isValue()
}

var (
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = Str("")
	_ Value = Bool(false)
	_ Value = Null
	_ Value = Unit
	_ Value = (*List)(nil)
	_ Value = (*Map)(nil)
	_ Value = (*Set)(nil)
	_ Value = Tuple{}
	_ Value = (*Entity)(nil)
	_ Value = (*Function)(nil)
	_ Value = (*Builtin)(nil)
	_ Value = (*Constructor)(nil)
	_ Value = Confident{}
)

type Int int64

func (Int) isValue()          {}
func (i Int) Inspect() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() types.Type  { return types.Int }

type Float float64

func (Float) isValue() {}
func (f Float) Inspect() string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
func (Float) Type() types.Type { return types.Float }

type Str string

func (Str) isValue()          {}
func (s Str) Inspect() string { return string(s) }
func (Str) Type() types.Type  { return types.String }

type Bool bool

func (Bool) isValue()          {}
func (b Bool) Inspect() string { return strconv.FormatBool(bool(b)) }
func (Bool) Type() types.Type  { return types.Bool }

type nullValue struct{}

// Null is the only value of type Null
var Null = nullValue{}

func (nullValue) isValue()         {}
func (nullValue) Inspect() string  { return "null" }
func (nullValue) Type() types.Type { return types.Null }

type unitValue struct{}

// Unit is returned by functions and statements without a value
var Unit = unitValue{}

func (unitValue) isValue()         {}
func (unitValue) Inspect() string  { return "Unit" }
func (unitValue) Type() types.Type { return types.Unit }

type List struct {
	Items   []Value
	Mutable bool
}

func (*List) isValue()          {}
func (l *List) Inspect() string { return "[" + inspectAll(l.Items) + "]" }
func (l *List) Type() types.Type {
	return types.List{Elem: joinTypes(l.Items), Mutable: l.Mutable}
}

// Map keeps entries in insertion order. Keys are compared with Equal.
type Map struct {
	Entries []util.Pair[Value, Value]
	Mutable bool
}

func (*Map) isValue() {}
func (m *Map) Inspect() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		k, v := e.Unpack()
		parts[i] = k.Inspect() + ": " + v.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *Map) Type() types.Type {
	keys, values := util.Unzip(m.Entries)
	return types.Map{Key: joinTypes(keys), Value: joinTypes(values), Mutable: m.Mutable}
}

// Get returns the value stored under key
func (m *Map) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Fst, key) {
			return e.Snd, true
		}
	}
	return nil, false
}

// Put replaces the value under key or appends a new entry
func (m *Map) Put(key, value Value) {
	for i, e := range m.Entries {
		if Equal(e.Fst, key) {
			m.Entries[i].Snd = value
			return
		}
	}
	m.Entries = append(m.Entries, util.NewPair(key, value))
}

// Set keeps its items in insertion order, without duplicates
type Set struct {
	Items   []Value
	Mutable bool
}

func NewSet(mutable bool, items ...Value) *Set {
	s := &Set{Mutable: mutable}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set) Add(v Value) {
	if !s.Contains(v) {
		s.Items = append(s.Items, v)
	}
}

func (s *Set) Contains(v Value) bool {
	for _, item := range s.Items {
		if Equal(item, v) {
			return true
		}
	}
	return false
}

func (*Set) isValue()          {}
func (s *Set) Inspect() string { return "{" + inspectAll(s.Items) + "}" }
func (s *Set) Type() types.Type {
	return types.Set{Elem: joinTypes(s.Items), Mutable: s.Mutable}
}

type Tuple struct {
	Items []Value
}

func (Tuple) isValue()          {}
func (t Tuple) Inspect() string { return "(" + inspectAll(t.Items) + ")" }
func (t Tuple) Type() types.Type {
	elems := make([]types.Type, len(t.Items))
	for i, item := range t.Items {
		elems[i] = item.Type()
	}
	return types.Tuple{Elements: elems}
}

// Entity is an instance of an entity declaration. Values follow the order
// of the declared fields.
type Entity struct {
	Of     *types.Entity
	Values []Value
}

func (*Entity) isValue() {}
func (e *Entity) Inspect() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = e.Of.Fields[i].Name + "=" + v.Inspect()
	}
	return e.Of.Name + "(" + strings.Join(parts, ", ") + ")"
}
func (e *Entity) Type() types.Type { return e.Of }

// Field returns the value of the named field
func (e *Entity) Field(name string) (Value, bool) {
	for i, f := range e.Of.Fields {
		if f.Name == name && i < len(e.Values) {
			return e.Values[i], true
		}
	}
	return nil, false
}

type FunctionKind uint8

const (
	PlainFunction FunctionKind = iota
	IntentFunction
	FuzzyFunction
	LambdaFunction
)

type Param struct {
	Name    string
	Type    types.Type
	Default *cst.Node
}

// Function is a user-declared function, intent, fuzzy predicate or lambda
type Function struct {
	Name   string
	Kind   FunctionKind
	Params []Param
	Ret    types.Type
	Decl   *cst.Node
	// Env is the closure of lambdas, top-level declarations see globals only
	Env Env
}

func (f *Function) minArity() int {
	n := 0
	for _, p := range f.Params {
		if p.Default == nil {
			n++
		}
	}
	return n
}

func (*Function) isValue()          {}
func (f *Function) Inspect() string { return "<fun " + f.Name + ">" }
func (f *Function) Type() types.Type {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.Function{Params: params, Ret: f.Ret}
}

// BuiltinFunc receives the evaluator so it can reach adapters and output
type BuiltinFunc func(e *Evaluator, at cst.Range, args []Value) (Value, error)

type Builtin struct {
	Name     string
	MinArity int
	// MaxArity is Variadic for builtins taking any number of arguments
	MaxArity int
	Fn       BuiltinFunc
}

func (*Builtin) isValue()          {}
func (b *Builtin) Inspect() string { return "<builtin " + b.Name + ">" }
func (b *Builtin) Type() types.Type {
	return types.Function{Ret: types.Any}
}

// Constructor builds entities, checking their invariants
type Constructor struct {
	Of         *types.Entity
	Invariants []*cst.Node
}

func (*Constructor) isValue()          {}
func (c *Constructor) Inspect() string { return "<constructor " + c.Of.Name + ">" }
func (c *Constructor) Type() types.Type {
	params := make([]types.Type, len(c.Of.Fields))
	for i, f := range c.Of.Fields {
		params[i] = f.Type
	}
	return types.Function{Params: params, Ret: c.Of}
}

// Confident is Inner annotated with a confidence score. Build them with
// NewConfident so that scores stay clamped and never nest.
type Confident struct {
	Inner Value
	Score float64
}

func (Confident) isValue() {}
func (c Confident) Inspect() string {
	return c.Inner.Inspect() + " @ " + strconv.FormatFloat(c.Score, 'f', -1, 64)
}
func (c Confident) Type() types.Type { return types.Confident{Payload: c.Inner.Type()} }

// Equal is structural equality. Ints and Floats compare numerically.
func Equal(a, b Value) bool {
	a, b = Strip(a), Strip(b)
	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}
	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)
		return ok && equalAll(a.Items, b.Items)
	case Tuple:
		b, ok := b.(Tuple)
		return ok && equalAll(a.Items, b.Items)
	case *Set:
		b, ok := b.(*Set)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for _, item := range a.Items {
			if !b.Contains(item) {
				return false
			}
		}
		return true
	case *Map:
		b, ok := b.(*Map)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}
		for _, e := range a.Entries {
			if other, ok := b.Get(e.Fst); !ok || !Equal(e.Snd, other) {
				return false
			}
		}
		return true
	case *Entity:
		b, ok := b.(*Entity)
		return ok && a.Of.Name == b.Of.Name && equalAll(a.Values, b.Values)
	default:
		return a == b
	}
}

func equalAll(as, bs []Value) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func inspectAll(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Inspect()
	}
	return strings.Join(parts, ", ")
}

func joinTypes(vs []Value) types.Type {
	var ret types.Type
	for _, v := range vs {
		ret = types.Join(ret, v.Type())
	}
	if ret == nil {
		return types.Nothing
	}
	return ret
}
