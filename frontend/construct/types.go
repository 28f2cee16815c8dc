package construct

import (
	"github.com/cottand/hunch/frontend/cst"
)

// TName is a named type such as `Int` or `Person`
func TName(name string) *cst.Node { return leaf(cst.KindTypeIdent, name) }

func TNullable(inner *cst.Node) *cst.Node {
	return node(cst.KindNullableType, map[string]*cst.Node{"type": inner})
}

// TGeneric is `name<args...>`, e.g. TGeneric("List", TName("Int"))
func TGeneric(name string, args ...*cst.Node) *cst.Node {
	return node(cst.KindGenericType, map[string]*cst.Node{
		"name":      TName(name),
		"arguments": node(cst.KindTypeArguments, nil, args...),
	})
}

func TFunc(params []*cst.Node, ret *cst.Node) *cst.Node {
	return node(cst.KindFunctionType, map[string]*cst.Node{
		"parameters":  node(cst.KindTypeArguments, nil, params...),
		"return_type": ret,
	})
}

func TTuple(elems ...*cst.Node) *cst.Node { return node(cst.KindTupleType, nil, elems...) }

func TUnion(members ...*cst.Node) *cst.Node { return node(cst.KindUnionType, nil, members...) }

func TIntersection(members ...*cst.Node) *cst.Node {
	return node(cst.KindIntersectionType, nil, members...)
}
