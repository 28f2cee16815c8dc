package types

import (
	"fmt"

	"github.com/cottand/hunch/frontend/cst"
)

// Lookup resolves a user-declared type name (entity, sealed hierarchy or alias)
type Lookup func(name string) (Type, bool)

// UnknownTypeError is reported for a type annotation naming nothing in scope
type UnknownTypeError struct {
	Name string
	cst.Range
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("Unknown type '%s'", e.Name)
}

// MalformedTypeError is reported for annotations that cannot denote a type,
// such as `List<Int, Int>`
type MalformedTypeError struct {
	Reason string
	cst.Range
}

func (e *MalformedTypeError) Error() string {
	return e.Reason
}

// FromNode builds the Type denoted by a type annotation node.
//
// Problems are reported through onErr and replaced by Any, so that a single
// bad annotation does not stop the caller.
func FromNode(n *cst.Node, lookup Lookup, onErr func(error)) Type {
	b := nodeTypeBuilder{lookup: lookup, onErr: onErr}
	return b.build(n)
}

type nodeTypeBuilder struct {
	lookup Lookup
	onErr  func(error)
}

func (b nodeTypeBuilder) fail(err error) Type {
	if b.onErr != nil {
		b.onErr(err)
	}
	return Any
}

func (b nodeTypeBuilder) build(n *cst.Node) Type {
	if n == nil {
		return Any
	}
	switch n.Kind {
	case cst.KindTypeIdent, cst.KindIdentifier:
		if p, ok := PrimitiveByName(n.Text); ok {
			return p
		}
		if b.lookup != nil {
			if t, ok := b.lookup(n.Text); ok {
				return t
			}
		}
		return b.fail(&UnknownTypeError{Name: n.Text, Range: n.Span()})

	case cst.KindNullableType:
		return Nullable{Inner: b.build(n.Field("type"))}

	case cst.KindGenericType:
		return b.buildGeneric(n)

	case cst.KindFunctionType:
		params := b.buildAll(n.Field("parameters").Items())
		var ret Type = Unit
		if r := n.Field("return_type"); r != nil {
			ret = b.build(r)
		}
		return Function{Params: params, Ret: ret}

	case cst.KindTupleType:
		return Tuple{Elements: b.buildAll(n.Children)}

	case cst.KindUnionType:
		return NewUnion(b.buildAll(n.Children)...)

	case cst.KindIntersectionType:
		return NewIntersection(b.buildAll(n.Children)...)

	default:
		return b.fail(&MalformedTypeError{
			Reason: fmt.Sprintf("'%s' is not a type", n.Kind),
			Range:  n.Span(),
		})
	}
}

func (b nodeTypeBuilder) buildAll(ns []*cst.Node) []Type {
	ret := make([]Type, len(ns))
	for i, n := range ns {
		ret[i] = b.build(n)
	}
	return ret
}

var genericArity = map[string]int{
	"List":        1,
	"MutableList": 1,
	"Set":         1,
	"MutableSet":  1,
	"Map":         2,
	"MutableMap":  2,
	"Confident":   1,
}

func (b nodeTypeBuilder) buildGeneric(n *cst.Node) Type {
	name := n.FieldText("name")
	args := b.buildAll(n.Field("arguments").Items())
	want, ok := genericArity[name]
	if !ok {
		return b.fail(&UnknownTypeError{Name: name, Range: n.Span()})
	}
	if len(args) != want {
		return b.fail(&MalformedTypeError{
			Reason: fmt.Sprintf("Type '%s' expects %d type argument(s) but got %d", name, want, len(args)),
			Range:  n.Span(),
		})
	}
	switch name {
	case "List", "MutableList":
		return List{Elem: args[0], Mutable: name == "MutableList"}
	case "Set", "MutableSet":
		return Set{Elem: args[0], Mutable: name == "MutableSet"}
	case "Map", "MutableMap":
		return Map{Key: args[0], Value: args[1], Mutable: name == "MutableMap"}
	default:
		return Confident{Payload: args[0]}
	}
}
