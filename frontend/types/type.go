// Package types holds the type lattice of hunch: the closed set of type
// formers, alias resolution and the subtyping relation everything else
// consults.
package types

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Type is a closed union: every implementation lives in this file.
//
// Types are immutable once constructed. Entity is the only former built in
// two steps (see NewEntity) so that entities can refer to each other.
type Type interface {
	fmt.Stringer
	Hash() uint64
	isType()
}

var (
	_ Type = Primitive{}
	_ Type = Nullable{}
	_ Type = List{}
	_ Type = Map{}
	_ Type = Set{}
	_ Type = (*Entity)(nil)
	_ Type = Sealed{}
	_ Type = Function{}
	_ Type = Tuple{}
	_ Type = Union{}
	_ Type = Intersection{}
	_ Type = Confident{}
	_ Type = (*Alias)(nil)
)

type Kind uint8

const (
	_ Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindUnit
	KindAny
	KindNothing
	KindNull
)

var kindNames = map[Kind]string{
	KindInt:     "Int",
	KindFloat:   "Float",
	KindString:  "String",
	KindBool:    "Bool",
	KindUnit:    "Unit",
	KindAny:     "Any",
	KindNothing: "Nothing",
	KindNull:    "Null",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// PrimitiveByName returns the primitive type spelled name in source
func PrimitiveByName(name string) (Primitive, bool) {
	for k, n := range kindNames {
		if n == name {
			return Primitive{Kind: k}, true
		}
	}
	return Primitive{}, false
}

type Primitive struct {
	Kind Kind
}

var (
	Int     = Primitive{Kind: KindInt}
	Float   = Primitive{Kind: KindFloat}
	String  = Primitive{Kind: KindString}
	Bool    = Primitive{Kind: KindBool}
	Unit    = Primitive{Kind: KindUnit}
	Any     = Primitive{Kind: KindAny}
	Nothing = Primitive{Kind: KindNothing}
	Null    = Primitive{Kind: KindNull}
)

func (Primitive) isType()          {}
func (p Primitive) String() string { return p.Kind.String() }
func (p Primitive) Hash() uint64   { return hashOf("Primitive", uint64(p.Kind)) }

// IsNumeric reports whether t is Int or Float
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p.Kind == KindInt || p.Kind == KindFloat)
}

// Is reports whether t is the primitive of kind k
func Is(t Type, k Kind) bool {
	p, ok := t.(Primitive)
	return ok && p.Kind == k
}

// Nullable denotes Inner | Null
type Nullable struct {
	Inner Type
}

func (Nullable) isType()          {}
func (n Nullable) String() string { return wrapFunc(n.Inner) + "?" }
func (n Nullable) Hash() uint64   { return hashOf("Nullable", n.Inner.Hash()) }

type List struct {
	Elem    Type
	Mutable bool
}

func (List) isType() {}
func (l List) String() string {
	return collectionName("List", l.Mutable) + "<" + l.Elem.String() + ">"
}
func (l List) Hash() uint64 { return hashOf("List", l.Elem.Hash(), boolBits(l.Mutable)) }

type Map struct {
	Key, Value Type
	Mutable    bool
}

func (Map) isType() {}
func (m Map) String() string {
	return collectionName("Map", m.Mutable) + "<" + m.Key.String() + ", " + m.Value.String() + ">"
}
func (m Map) Hash() uint64 {
	return hashOf("Map", m.Key.Hash(), m.Value.Hash(), boolBits(m.Mutable))
}

type Set struct {
	Elem    Type
	Mutable bool
}

func (Set) isType() {}
func (s Set) String() string {
	return collectionName("Set", s.Mutable) + "<" + s.Elem.String() + ">"
}
func (s Set) Hash() uint64 { return hashOf("Set", s.Elem.Hash(), boolBits(s.Mutable)) }

type Field struct {
	Name string
	Type Type
}

// Entity is a nominal record. Parent names the sealed hierarchy the entity
// is a variant of, and is empty otherwise.
//
// Entities are compared by name, so Hash and String never look at Fields.
type Entity struct {
	Name   string
	Fields []Field
	Parent string
}

// NewEntity returns an entity without fields, to be completed with
// SetFields once every type it refers to exists
func NewEntity(name, parent string) *Entity {
	return &Entity{Name: name, Parent: parent}
}

// SetFields completes an entity returned by NewEntity
func (e *Entity) SetFields(fields []Field) *Entity {
	e.Fields = slices.Clone(fields)
	return e
}

// Field looks up a field by name
func (e *Entity) Field(name string) (Type, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (*Entity) isType()          {}
func (e *Entity) String() string { return e.Name }
func (e *Entity) Hash() uint64 {
	return hashOf("Entity", hashString(e.Name), hashString(e.Parent))
}

// Sealed is a closed union of named entity variants
type Sealed struct {
	Name     string
	Variants *set.Set[string]
}

func NewSealed(name string, variants ...string) Sealed {
	return Sealed{Name: name, Variants: set.From(variants)}
}

// HasVariant reports whether name is one of the variants of s
func (s Sealed) HasVariant(name string) bool {
	return s.Variants != nil && s.Variants.Contains(name)
}

func (Sealed) isType()          {}
func (s Sealed) String() string { return s.Name }
func (s Sealed) Hash() uint64   { return hashOf("Sealed", hashString(s.Name)) }

type Function struct {
	Params []Type
	Ret    Type
}

func (Function) isType() {}
func (f Function) String() string {
	return "(" + joinTypes(f.Params, ", ") + ") -> " + f.Ret.String()
}
func (f Function) Hash() uint64 {
	return hashOf("Function", append(hashes(f.Params), f.Ret.Hash())...)
}

type Tuple struct {
	Elements []Type
}

func (Tuple) isType()          {}
func (t Tuple) String() string { return "(" + joinTypes(t.Elements, ", ") + ")" }
func (t Tuple) Hash() uint64   { return hashOf("Tuple", hashes(t.Elements)...) }

// Union is built with NewUnion, the zero value has no members
type Union struct {
	members *set.HashSet[Type, uint64]
}

// NewUnion flattens nested unions and removes duplicate members.
// A union of a single member is that member, and the empty union is Nothing.
func NewUnion(members ...Type) Type {
	s := set.NewHashSet[Type, uint64](len(members))
	for _, m := range members {
		if u, ok := m.(Union); ok {
			s.InsertSlice(u.Members())
			continue
		}
		s.Insert(m)
	}
	switch s.Size() {
	case 0:
		return Nothing
	case 1:
		return s.Slice()[0]
	default:
		return Union{members: s}
	}
}

// Members returns the members sorted by their String form
func (u Union) Members() []Type { return sortedMembers(u.members) }

func (Union) isType()          {}
func (u Union) String() string { return joinTypes(u.Members(), " | ") }
func (u Union) Hash() uint64   { return hashOf("Union", unorderedHash(u.members)) }

// Intersection is built with NewIntersection, the zero value has no members
type Intersection struct {
	members *set.HashSet[Type, uint64]
}

// NewIntersection is the dual of NewUnion: the empty intersection is Any
func NewIntersection(members ...Type) Type {
	s := set.NewHashSet[Type, uint64](len(members))
	for _, m := range members {
		if i, ok := m.(Intersection); ok {
			s.InsertSlice(i.Members())
			continue
		}
		s.Insert(m)
	}
	switch s.Size() {
	case 0:
		return Any
	case 1:
		return s.Slice()[0]
	default:
		return Intersection{members: s}
	}
}

func (i Intersection) Members() []Type { return sortedMembers(i.members) }

func (Intersection) isType()          {}
func (i Intersection) String() string { return joinTypes(i.Members(), " & ") }
func (i Intersection) Hash() uint64   { return hashOf("Intersection", unorderedHash(i.members)) }

// Confident is a Payload value annotated at runtime with a confidence in [0, 1]
type Confident struct {
	Payload Type
}

func (Confident) isType()          {}
func (c Confident) String() string { return "Confident<" + c.Payload.String() + ">" }
func (c Confident) Hash() uint64   { return hashOf("Confident", c.Payload.Hash()) }

// Alias is transparent: it is always resolved to Target (see ResolveAlias)
// before any comparison. Aliases are pointers so that declarations can be
// registered before their targets are known.
type Alias struct {
	Name   string
	Target Type
}

func (*Alias) isType()          {}
func (a *Alias) String() string { return a.Name }
func (a *Alias) Hash() uint64   { return hashOf("Alias", hashString(a.Name)) }

// helpers

func collectionName(base string, mutable bool) string {
	if mutable {
		return "Mutable" + base
	}
	return base
}

// wrapFunc parenthesises types which would read ambiguously before a `?`
func wrapFunc(t Type) string {
	switch t.(type) {
	case Function, Union, Intersection:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

func joinTypes(ts []Type, sep string) string {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = wrapFunc(t)
	}
	return strings.Join(strs, sep)
}

func sortedMembers(s *set.HashSet[Type, uint64]) []Type {
	if s == nil {
		return nil
	}
	return slices.SortedFunc(s.Items(), func(a, b Type) int {
		return cmp.Compare(a.String(), b.String())
	})
}

func hashes(ts []Type) []uint64 {
	ret := make([]uint64, len(ts))
	for i, t := range ts {
		ret[i] = t.Hash()
	}
	return ret
}

// unorderedHash combines member hashes independently of insertion order
func unorderedHash(s *set.HashSet[Type, uint64]) uint64 {
	if s == nil {
		return 0
	}
	var sum uint64
	for m := range s.Items() {
		sum += m.Hash()
	}
	return sum
}

func hashOf(tag string, parts ...uint64) uint64 {
	h := fnv.New64a()
	arr := []byte(tag)
	for _, p := range parts {
		arr = binary.LittleEndian.AppendUint64(arr, p)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func boolBits(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
