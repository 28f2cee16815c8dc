package check

import (
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/frontend/types"
)

// checkBlock checks every statement of block in a scope of its own and
// returns the type of its trailing expression statement, or Unit
func (c *Checker) checkBlock(block *cst.Node, s scope) types.Type {
	var last types.Type = types.Unit
	for _, stmt := range c.children(block) {
		s = c.checkStatement(stmt, s)
		if stmt.Is(cst.KindExprStatement) {
			last = c.types[stmt.Field("expression")]
		} else {
			last = types.Unit
		}
	}
	if last == nil {
		return types.Any
	}
	return last
}

// checkStatement returns s extended with whatever stmt declares
func (c *Checker) checkStatement(stmt *cst.Node, s scope) scope {
	switch stmt.Kind {
	case cst.KindBlock:
		c.checkBlock(stmt, s)

	case cst.KindValDecl, cst.KindVarDecl:
		name, ok := c.name(stmt)
		value := c.field(stmt, "value")
		if !ok {
			return s
		}
		var inferred types.Type = types.Any
		if value != nil {
			inferred = c.infer(value, s)
		}
		typ := inferred
		if annotation := stmt.Field("type"); annotation != nil {
			typ = c.annotation(annotation)
			if value != nil {
				c.expectAssignable(value, inferred, typ)
			}
		}
		return s.with(name, typ, stmt.Is(cst.KindVarDecl))

	case cst.KindAssignment:
		left, right := c.field(stmt, "left"), c.field(stmt, "right")
		if left == nil || right == nil {
			return s
		}
		target := c.infer(left, s)
		if left.Is(cst.KindIdentifier) && !c.reassignable(left.Text, s) {
			c.report(herr.NewValReassign{Range: stmt.Span(), Name: left.Text})
		}
		c.expectAssignable(right, c.infer(right, s), target)

	case cst.KindReturn:
		var got types.Type = types.Unit
		if value := stmt.Field("value"); value != nil {
			got = c.infer(value, s)
		}
		if expected, ok := c.returns.Peek(); ok {
			c.expectAssignable(stmt, got, expected)
		}

	case cst.KindExprStatement:
		if expr := c.field(stmt, "expression"); expr != nil {
			c.infer(expr, s)
		}

	case cst.KindWhile:
		if cond := c.field(stmt, "condition"); cond != nil {
			c.expectCondition(cond, c.infer(cond, s))
		}
		if body := c.field(stmt, "body"); body != nil {
			c.checkBody(body, s)
		}

	case cst.KindFor:
		variable, iterable := c.field(stmt, "variable"), c.field(stmt, "iterable")
		body := c.field(stmt, "body")
		if variable == nil || iterable == nil || body == nil {
			return s
		}
		elem := elementType(c.infer(iterable, s))
		c.checkBody(body, s.with(variable.Text, elem, false))

	default:
		c.report(herr.NewMalformed{Range: stmt.Span(), Kind: stmt.Kind, Field: "statement"})
	}
	return s
}

// reassignable is false when name is bound to a val, parameter or declaration.
// Names that are not bound at all are reported when inferring them.
func (c *Checker) reassignable(name string, s scope) bool {
	if b, ok := s.lookup(name); ok {
		return b.mutable
	}
	if sym, ok := c.symbols.LookupValue(name); ok {
		return sym.Mutable
	}
	return true
}

// checkBody checks the body of a loop, which is either a block or a single statement
func (c *Checker) checkBody(body *cst.Node, s scope) {
	if body.Is(cst.KindBlock) {
		c.checkBlock(body, s)
		return
	}
	if isStatement(body.Kind) {
		c.checkStatement(body, s)
		return
	}
	c.infer(body, s)
}

// elementType is the type of the loop variable when iterating over t
func elementType(t types.Type) types.Type {
	resolved, err := types.ResolveAlias(stripConfidence(t))
	if err != nil {
		return types.Any
	}
	switch t := resolved.(type) {
	case types.List:
		return t.Elem
	case types.Set:
		return t.Elem
	case types.Map:
		return types.Tuple{Elements: []types.Type{t.Key, t.Value}}
	case types.Primitive:
		if t.Kind == types.KindString {
			return types.String
		}
	}
	return types.Any
}
