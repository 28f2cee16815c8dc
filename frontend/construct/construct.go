// Package construct has terse builders for cst trees. They are meant for
// tests, fixtures and hosts which already hold an AST of their own.
//
// Builders leave ranges empty, use At to place a node in the source.
package construct

import (
	"strconv"

	"github.com/cottand/hunch/frontend/cst"
)

func node(kind string, fields map[string]*cst.Node, children ...*cst.Node) *cst.Node {
	for name, f := range fields {
		if f == nil {
			delete(fields, name)
		}
	}
	return &cst.Node{Kind: kind, Fields: fields, Children: children}
}

func leaf(kind, text string) *cst.Node {
	return &cst.Node{Kind: kind, Text: text}
}

// At sets the start of n to line:col and returns it
func At(n *cst.Node, line, col int) *cst.Node {
	n.Start = cst.Position{Line: line, Column: col}
	n.Stop = cst.Position{Line: line, Column: col + len(n.Text)}
	return n
}

// File builds a source_file out of declarations
func File(decls ...*cst.Node) *cst.Node {
	return node(cst.KindSourceFile, nil, decls...)
}

// Expressions

func Ident(name string) *cst.Node { return leaf(cst.KindIdentifier, name) }

func Int(v int64) *cst.Node { return leaf(cst.KindIntLit, strconv.FormatInt(v, 10)) }

func Float(v float64) *cst.Node { return leaf(cst.KindFloatLit, strconv.FormatFloat(v, 'f', -1, 64)) }

func Str(s string) *cst.Node { return leaf(cst.KindStringLit, s) }

func Bool(b bool) *cst.Node { return leaf(cst.KindBoolLit, strconv.FormatBool(b)) }

func Null() *cst.Node { return leaf(cst.KindNullLit, "null") }

// Conf is `value @ confidence`
func Conf(value *cst.Node, confidence float64) *cst.Node {
	return node(cst.KindConfidence, map[string]*cst.Node{
		"value":      value,
		"confidence": Float(confidence),
	})
}

func Bin(left *cst.Node, op string, right *cst.Node) *cst.Node {
	return node(cst.KindBinary, map[string]*cst.Node{
		"left":     left,
		"operator": leaf(cst.KindOperator, op),
		"right":    right,
	})
}

func Unary(op string, operand *cst.Node) *cst.Node {
	return node(cst.KindUnary, map[string]*cst.Node{
		"operator": leaf(cst.KindOperator, op),
		"operand":  operand,
	})
}

func Call(callee *cst.Node, args ...*cst.Node) *cst.Node {
	return node(cst.KindCall, map[string]*cst.Node{
		"function":  callee,
		"arguments": node(cst.KindArgumentList, nil, args...),
	})
}

// CallName is Call with an identifier callee
func CallName(name string, args ...*cst.Node) *cst.Node {
	return Call(Ident(name), args...)
}

func Member(object *cst.Node, property string) *cst.Node {
	return node(cst.KindMember, map[string]*cst.Node{
		"object":   object,
		"property": Ident(property),
	})
}

func Index(object, index *cst.Node) *cst.Node {
	return node(cst.KindIndex, map[string]*cst.Node{"object": object, "index": index})
}

func Paren(expr *cst.Node) *cst.Node {
	return node(cst.KindParen, map[string]*cst.Node{"expression": expr})
}

// If builds an if_expression, alternative may be nil
func If(condition, consequence, alternative *cst.Node) *cst.Node {
	return node(cst.KindIf, map[string]*cst.Node{
		"condition":   condition,
		"consequence": consequence,
		"alternative": alternative,
	})
}

func Lambda(params []*cst.Node, body *cst.Node) *cst.Node {
	return node(cst.KindLambda, map[string]*cst.Node{
		"parameters": Params(params...),
		"body":       body,
	})
}

func List(elems ...*cst.Node) *cst.Node { return node(cst.KindListLit, nil, elems...) }

func SetOf(elems ...*cst.Node) *cst.Node { return node(cst.KindSetLit, nil, elems...) }

func Tuple(elems ...*cst.Node) *cst.Node { return node(cst.KindTuple, nil, elems...) }

func Map(pairs ...*cst.Node) *cst.Node { return node(cst.KindMapLit, nil, pairs...) }

func Pair(key, value *cst.Node) *cst.Node {
	return node(cst.KindPair, map[string]*cst.Node{"key": key, "value": value})
}
