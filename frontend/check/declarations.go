package check

import (
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/frontend/types"
)

func (c *Checker) checkDeclaration(decl *cst.Node) {
	switch decl.Kind {
	case cst.KindFunctionDecl:
		c.checkFunction(decl)
	case cst.KindIntentDecl:
		c.checkIntent(decl)
	case cst.KindFuzzyDecl:
		c.checkFuzzy(decl)
	case cst.KindEntityDecl:
		c.checkEntity(decl)
	case cst.KindSealedDecl:
		for _, v := range decl.ChildrenOf(cst.KindEntityDecl) {
			c.checkEntity(v)
		}
	case cst.KindValDecl, cst.KindVarDecl:
		c.checkTopLevelValue(decl)
	}
}

// functionSymbol finds the symbol registered for decl, if registration succeeded
func (c *Checker) functionSymbol(decl *cst.Node) (*Symbol, types.Function, bool) {
	sym, ok := c.declaredValues[decl]
	if !ok || sym.Kind != FunctionSymbol {
		return nil, types.Function{}, false
	}
	fn, ok := sym.Type.(types.Function)
	return sym, fn, ok
}

// parameterScope binds the parameters of decl, checking default values
// against their annotations
func (c *Checker) parameterScope(params *cst.Node, paramTypes []types.Type) scope {
	s := newScope()
	for i, p := range params.ChildrenOf(cst.KindParameter) {
		name, ok := c.name(p)
		if !ok {
			continue
		}
		typ := types.Type(types.Any)
		if i < len(paramTypes) {
			typ = paramTypes[i]
		}
		if def := p.Field("default"); def != nil {
			c.expectAssignable(def, c.infer(def, s), typ)
		}
		s = s.with(name, typ, false)
	}
	return s
}

func (c *Checker) checkFunction(decl *cst.Node) {
	_, fn, ok := c.functionSymbol(decl)
	if !ok {
		return
	}
	s := c.parameterScope(decl.Field("parameters"), fn.Params)
	body := c.field(decl, "body")
	if body == nil {
		return
	}

	c.returns.Push(fn.Ret)
	defer c.returns.Pop()
	if body.Is(cst.KindBlock) {
		last := c.checkBlock(body, s)
		// a trailing expression is the value of the call
		if n := len(body.Children); n > 0 && body.Children[n-1].Is(cst.KindExprStatement) {
			c.expectAssignable(body.Children[n-1], last, fn.Ret)
		}
		return
	}
	// expression body
	c.expectAssignable(body, c.infer(body, s), fn.Ret)
}

func (c *Checker) checkIntent(decl *cst.Node) {
	_, fn, ok := c.functionSymbol(decl)
	if !ok {
		return
	}
	s := c.parameterScope(decl.Field("parameters"), fn.Params)
	body := c.field(decl, "body")
	if body == nil {
		return
	}

	c.returns.Push(fn.Ret)
	defer c.returns.Pop()
	// clauses see the parameters and `result`, but not locals of the body
	clauseScope := s.with("result", fn.Ret, false)
	for _, child := range body.Children {
		switch child.Kind {
		case cst.KindEnsure:
			if cond := c.field(child, "condition"); cond != nil {
				c.expectCondition(cond, c.infer(cond, clauseScope))
			}
		case cst.KindFallback:
			if value := c.field(child, "value"); value != nil {
				c.expectAssignable(value, c.infer(value, s), fn.Ret)
			}
		default:
			if isStatement(child.Kind) {
				s = c.checkStatement(child, s)
				continue
			}
			c.report(herr.NewUnevaluatedClause{Range: child.Span(), Kind: child.Kind})
		}
	}
}

func (c *Checker) checkFuzzy(decl *cst.Node) {
	_, fn, ok := c.functionSymbol(decl)
	if !ok {
		return
	}
	s := c.parameterScope(decl.Field("parameters"), fn.Params)
	body := c.field(decl, "body")
	if body == nil {
		return
	}
	for _, factor := range body.ChildrenOf(cst.KindFuzzyFactor) {
		if cond := c.field(factor, "condition"); cond != nil {
			c.expectCondition(cond, c.infer(cond, s))
		}
		weight := c.field(factor, "weight")
		if weight == nil {
			continue
		}
		weightType := c.infer(weight, s)
		if !isNumericOrAny(weightType) {
			c.report(herr.NewTypeMismatch{Range: weight.Span(), From: weightType, To: types.Float})
		}
		if w, isLiteral := numericLiteral(weight); isLiteral && w <= 0 {
			c.report(herr.NewNonPositiveWeight{Range: weight.Span(), Weight: w})
		}
	}
}

func (c *Checker) checkEntity(decl *cst.Node) {
	sym, ok := c.declared[decl]
	if !ok {
		return
	}
	s := newScope().with("this", sym.Type, false)
	for _, f := range sym.Fields {
		s = s.with(f.Name, f.Type, false)
	}
	for _, inv := range decl.ChildrenOf(cst.KindInvariant) {
		if cond := c.field(inv, "condition"); cond != nil {
			c.expectCondition(cond, c.infer(cond, s))
		}
	}
}

// checkTopLevelValue infers the value of a top-level val or var. Values
// without annotation get their inferred type for the declarations after them.
func (c *Checker) checkTopLevelValue(decl *cst.Node) {
	sym, ok := c.declaredValues[decl]
	if !ok || sym.Kind != ValueSymbol {
		return
	}
	value := c.field(decl, "value")
	if value == nil {
		return
	}
	inferred := c.infer(value, newScope())
	typ := sym.Type
	if decl.Field("type") != nil {
		c.expectAssignable(value, inferred, sym.Type)
	} else {
		typ = inferred
	}
	c.globals = c.globals.with(sym.Name, typ, sym.Mutable)
}

// expectAssignable warns when a value of type from is passed where to is expected.
// Any on either side always fits, and confidence is stripped when to is not confident.
func (c *Checker) expectAssignable(at *cst.Node, from, to types.Type) {
	if from == nil || to == nil || types.Is(from, types.KindAny) || types.Is(to, types.KindAny) {
		return
	}
	if _, wantConfident := to.(types.Confident); !wantConfident {
		from = stripConfidence(from)
	}
	if !types.IsSubtype(from, to) {
		c.report(herr.NewTypeMismatch{Range: at.Span(), From: from, To: to})
	}
}

func (c *Checker) expectCondition(at *cst.Node, got types.Type) {
	if !isBoolish(got) {
		c.report(herr.NewNonBoolCondition{Range: at.Span(), Got: got})
	}
}

func stripConfidence(t types.Type) types.Type {
	for {
		conf, ok := t.(types.Confident)
		if !ok {
			return t
		}
		t = conf.Payload
	}
}

func isConfident(t types.Type) bool {
	_, ok := t.(types.Confident)
	return ok
}

// isBoolish accepts Bool, Confident<Bool> and Any
func isBoolish(t types.Type) bool {
	t = stripConfidence(t)
	return types.Is(t, types.KindAny) || types.IsSubtype(t, types.Bool)
}

func isNumericOrAny(t types.Type) bool {
	t = stripConfidence(t)
	return types.Is(t, types.KindAny) || types.IsSubtype(t, types.Float)
}

func isStatement(kind string) bool {
	switch kind {
	case cst.KindBlock, cst.KindValDecl, cst.KindVarDecl, cst.KindAssignment, cst.KindReturn,
		cst.KindExprStatement, cst.KindWhile, cst.KindFor:
		return true
	default:
		return false
	}
}
