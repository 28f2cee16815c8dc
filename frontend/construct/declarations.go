package construct

import (
	"github.com/cottand/hunch/frontend/cst"
)

func Params(params ...*cst.Node) *cst.Node {
	return node(cst.KindParameterList, nil, params...)
}

// Param builds a parameter, typ may be nil
func Param(name string, typ *cst.Node) *cst.Node {
	return node(cst.KindParameter, map[string]*cst.Node{"name": Ident(name), "type": typ})
}

// ParamDefault builds a parameter with a default value
func ParamDefault(name string, typ, def *cst.Node) *cst.Node {
	p := Param(name, typ)
	p.Fields["default"] = def
	return p
}

// Fun builds a function_declaration. ret may be nil, body is a block or an expression.
func Fun(name string, params []*cst.Node, ret, body *cst.Node) *cst.Node {
	return node(cst.KindFunctionDecl, map[string]*cst.Node{
		"name":        Ident(name),
		"parameters":  Params(params...),
		"return_type": ret,
		"body":        body,
	})
}

// Intent builds an intent_declaration. Body items are statements, Ensure and Fallback clauses.
func Intent(name string, params []*cst.Node, ret *cst.Node, body ...*cst.Node) *cst.Node {
	return node(cst.KindIntentDecl, map[string]*cst.Node{
		"name":        Ident(name),
		"parameters":  Params(params...),
		"return_type": ret,
		"body":        node(cst.KindIntentBody, nil, body...),
	})
}

func Ensure(condition *cst.Node) *cst.Node {
	return node(cst.KindEnsure, map[string]*cst.Node{"condition": condition})
}

// NamedEnsure is an ensure clause carrying a name used in violation errors
func NamedEnsure(name string, condition *cst.Node) *cst.Node {
	e := Ensure(condition)
	e.Fields["name"] = Ident(name)
	return e
}

func Fallback(value *cst.Node) *cst.Node {
	return node(cst.KindFallback, map[string]*cst.Node{"value": value})
}

func Fuzzy(name string, params []*cst.Node, factors ...*cst.Node) *cst.Node {
	return node(cst.KindFuzzyDecl, map[string]*cst.Node{
		"name":       Ident(name),
		"parameters": Params(params...),
		"body":       node(cst.KindFuzzyBody, nil, factors...),
	})
}

func Factor(condition *cst.Node, weight float64) *cst.Node {
	return node(cst.KindFuzzyFactor, map[string]*cst.Node{
		"condition": condition,
		"weight":    Float(weight),
	})
}

// Entity builds an entity_declaration out of FieldDecl and Invariant members
func Entity(name string, members ...*cst.Node) *cst.Node {
	return node(cst.KindEntityDecl, map[string]*cst.Node{"name": Ident(name)}, members...)
}

func FieldDecl(name string, typ *cst.Node) *cst.Node {
	return node(cst.KindFieldDecl, map[string]*cst.Node{"name": Ident(name), "type": typ})
}

func Invariant(condition *cst.Node) *cst.Node {
	return node(cst.KindInvariant, map[string]*cst.Node{"condition": condition})
}

func Sealed(name string, variants ...*cst.Node) *cst.Node {
	return node(cst.KindSealedDecl, map[string]*cst.Node{"name": Ident(name)}, variants...)
}

func TypeAlias(name string, typ *cst.Node) *cst.Node {
	return node(cst.KindTypeAlias, map[string]*cst.Node{"name": Ident(name), "type": typ})
}
