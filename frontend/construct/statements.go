package construct

import (
	"github.com/cottand/hunch/frontend/cst"
)

func Block(stmts ...*cst.Node) *cst.Node { return node(cst.KindBlock, nil, stmts...) }

// Val builds `val name: typ = value`, typ may be nil
func Val(name string, typ, value *cst.Node) *cst.Node {
	return node(cst.KindValDecl, map[string]*cst.Node{
		"name":  Ident(name),
		"type":  typ,
		"value": value,
	})
}

// Var builds `var name: typ = value`, typ may be nil
func Var(name string, typ, value *cst.Node) *cst.Node {
	return node(cst.KindVarDecl, map[string]*cst.Node{
		"name":  Ident(name),
		"type":  typ,
		"value": value,
	})
}

func Assign(left, right *cst.Node) *cst.Node {
	return node(cst.KindAssignment, map[string]*cst.Node{"left": left, "right": right})
}

// Return builds a return_statement, value may be nil
func Return(value *cst.Node) *cst.Node {
	return node(cst.KindReturn, map[string]*cst.Node{"value": value})
}

func ExprStmt(expr *cst.Node) *cst.Node {
	return node(cst.KindExprStatement, map[string]*cst.Node{"expression": expr})
}

func While(condition, body *cst.Node) *cst.Node {
	return node(cst.KindWhile, map[string]*cst.Node{"condition": condition, "body": body})
}

func For(variable string, iterable, body *cst.Node) *cst.Node {
	return node(cst.KindFor, map[string]*cst.Node{
		"variable": Ident(variable),
		"iterable": iterable,
		"body":     body,
	})
}
