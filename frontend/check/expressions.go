package check

import (
	"strconv"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/frontend/types"
)

// infer returns the type of expression n in scope s, reporting problems
// along the way. Unknown situations infer Any rather than failing.
func (c *Checker) infer(n *cst.Node, s scope) types.Type {
	t := c.inferUncached(n, s)
	if t == nil {
		t = types.Any
	}
	c.types[n] = t
	return t
}

func (c *Checker) inferUncached(n *cst.Node, s scope) types.Type {
	switch n.Kind {
	case cst.KindIdentifier:
		return c.inferIdentifier(n, s)
	case cst.KindIntLit:
		return types.Int
	case cst.KindFloatLit:
		return types.Float
	case cst.KindStringLit:
		return types.String
	case cst.KindBoolLit:
		return types.Bool
	case cst.KindNullLit:
		return types.Null
	case cst.KindConfidence:
		return c.inferConfidence(n, s)
	case cst.KindBinary:
		return c.inferBinary(n, s)
	case cst.KindUnary:
		return c.inferUnary(n, s)
	case cst.KindCall:
		return c.inferCall(n, s)
	case cst.KindMember:
		return c.inferMember(n, s)
	case cst.KindIndex:
		return c.inferIndex(n, s)
	case cst.KindParen:
		if inner := c.field(n, "expression"); inner != nil {
			return c.infer(inner, s)
		}
		return types.Any
	case cst.KindIf:
		return c.inferIf(n, s)
	case cst.KindLambda:
		return c.inferLambda(n, s)
	case cst.KindBlock:
		return c.checkBlock(n, s)
	case cst.KindListLit:
		return types.List{Elem: joinAll(c.inferAll(c.children(n), s))}
	case cst.KindSetLit:
		return types.Set{Elem: joinAll(c.inferAll(c.children(n), s))}
	case cst.KindTuple:
		return types.Tuple{Elements: c.inferAll(c.children(n), s)}
	case cst.KindMapLit:
		var keys, values []types.Type
		for _, pair := range n.ChildrenOf(cst.KindPair) {
			key, value := c.field(pair, "key"), c.field(pair, "value")
			if key == nil || value == nil {
				continue
			}
			keys = append(keys, c.infer(key, s))
			values = append(values, c.infer(value, s))
		}
		return types.Map{Key: joinAll(keys), Value: joinAll(values)}
	default:
		c.report(herr.NewMalformed{Range: n.Span(), Kind: n.Kind, Field: "expression"})
		return types.Any
	}
}

func (c *Checker) inferAll(ns []*cst.Node, s scope) []types.Type {
	ret := make([]types.Type, len(ns))
	for i, n := range ns {
		ret[i] = c.infer(n, s)
	}
	return ret
}

// lookupValue finds name among locals, then top-level values, then
// declared callables, then builtins
func (c *Checker) lookupValue(name string, s scope) (types.Type, bool) {
	if b, ok := s.lookup(name); ok {
		return b.typ, true
	}
	if b, ok := c.globals.lookup(name); ok {
		return b.typ, true
	}
	if sym, ok := c.symbols.LookupValue(name); ok {
		return sym.Type, true
	}
	if b, ok := c.builtins[name]; ok {
		params := make([]types.Type, max(b.MinArity, 0))
		for i := range params {
			params[i] = types.Any
		}
		return types.Function{Params: params, Ret: b.Result(params)}, true
	}
	return nil, false
}

func (c *Checker) inferIdentifier(n *cst.Node, s scope) types.Type {
	if t, ok := c.lookupValue(n.Text, s); ok {
		return t
	}
	c.report(herr.NewUndefinedName{Range: n.Span(), Name: n.Text})
	return types.Any
}

func (c *Checker) inferConfidence(n *cst.Node, s scope) types.Type {
	value, conf := c.field(n, "value"), c.field(n, "confidence")
	if value == nil || conf == nil {
		return types.Any
	}
	payload := c.infer(value, s)
	confType := c.infer(conf, s)
	if !isNumericOrAny(confType) {
		c.report(herr.NewTypeMismatch{Range: conf.Span(), From: confType, To: types.Float})
	}
	if x, isLiteral := numericLiteral(conf); isLiteral && (x < 0 || x > 1) {
		c.report(herr.NewConfidenceRange{Range: conf.Span(), Value: x})
	}
	// re-annotating a confident value multiplies the scores, it does not nest them
	return types.Confident{Payload: stripConfidence(payload)}
}

// numericLiteral returns the value of n if it is a number literal, possibly negated
func numericLiteral(n *cst.Node) (float64, bool) {
	switch n.Kind {
	case cst.KindIntLit, cst.KindFloatLit:
		x, err := strconv.ParseFloat(n.Text, 64)
		return x, err == nil
	case cst.KindParen:
		if inner := n.Field("expression"); inner != nil {
			return numericLiteral(inner)
		}
	case cst.KindUnary:
		if n.FieldText("operator") == "-" && n.Field("operand") != nil {
			x, ok := numericLiteral(n.Field("operand"))
			return -x, ok
		}
	}
	return 0, false
}

func (c *Checker) inferBinary(n *cst.Node, s scope) types.Type {
	left, op, right := c.field(n, "left"), c.field(n, "operator"), c.field(n, "right")
	if left == nil || op == nil || right == nil {
		return types.Any
	}
	lt, rt := c.infer(left, s), c.infer(right, s)
	confident := isConfident(lt) || isConfident(rt)
	l, r := stripConfidence(lt), stripConfidence(rt)

	var result types.Type
	switch op.Text {
	case "+", "-", "*", "/", "%":
		result = c.inferArithmetic(cst.RangeBetween(left, right), op.Text, l, r)
	case "==", "!=", "<", ">", "<=", ">=":
		result = types.Bool
	case "&&", "||":
		if !isBoolish(l) {
			c.report(herr.NewNonBoolOperand{Range: left.Span(), Operator: op.Text, Side: herr.SideLeft, Got: lt})
		}
		if !isBoolish(r) {
			c.report(herr.NewNonBoolOperand{Range: right.Span(), Operator: op.Text, Side: herr.SideRight, Got: rt})
		}
		result = types.Bool
	default:
		result = types.Any
	}
	if confident && !types.Is(result, types.KindAny) {
		return types.Confident{Payload: result}
	}
	return result
}

// inferArithmetic reports incompatible operands over at, the span of both operands
func (c *Checker) inferArithmetic(at cst.Range, op string, l, r types.Type) types.Type {
	isBool := func(t types.Type) bool { return types.Is(t, types.KindBool) }
	isOperand := func(t types.Type) bool { return types.IsNumeric(t) || types.Is(t, types.KindString) }
	if isBool(l) && isOperand(r) || isBool(r) && isOperand(l) {
		c.report(herr.NewIncompatibleOperands{Range: at, Operator: op, Left: l, Right: r})
		return types.Any
	}
	switch {
	case op == "+" && (types.Is(l, types.KindString) || types.Is(r, types.KindString)):
		return types.String
	case types.Is(l, types.KindInt) && types.Is(r, types.KindInt):
		return types.Int
	case types.IsNumeric(l) && types.IsNumeric(r):
		return types.Float
	default:
		return types.Any
	}
}

func (c *Checker) inferUnary(n *cst.Node, s scope) types.Type {
	op, operand := c.field(n, "operator"), c.field(n, "operand")
	if op == nil || operand == nil {
		return types.Any
	}
	t := c.infer(operand, s)
	switch op.Text {
	case "!":
		if !isBoolish(t) {
			c.report(herr.NewNonBoolOperand{Range: operand.Span(), Operator: "!", Side: herr.SideOnly, Got: t})
		}
		if isConfident(t) {
			return types.Confident{Payload: types.Bool}
		}
		return types.Bool
	case "-":
		return t
	default:
		return types.Any
	}
}

func (c *Checker) inferCall(n *cst.Node, s scope) types.Type {
	callee := c.field(n, "function")
	if callee == nil {
		return types.Any
	}
	var argNodes []*cst.Node
	if args := n.Field("arguments"); args != nil {
		argNodes = c.children(args)
	}
	args := c.inferAll(argNodes, s)

	if callee.Is(cst.KindIdentifier) {
		name := callee.Text
		// locals shadow declarations
		if b, ok := s.lookup(name); ok {
			c.types[callee] = b.typ
			return c.applyFunctionType(n, name, b.typ, argNodes, args)
		}
		if b, ok := c.globals.lookup(name); ok {
			c.types[callee] = b.typ
			return c.applyFunctionType(n, name, b.typ, argNodes, args)
		}
		if sym, ok := c.symbols.LookupValue(name); ok && sym.Callable() {
			c.types[callee] = sym.Type
			c.checkArity(n, name, sym.MinArity, sym.MaxArity, len(args))
			fn := sym.Type.(types.Function)
			c.checkArguments(argNodes, args, fn.Params)
			return fn.Ret
		} else if ok {
			c.types[callee] = sym.Type
			return c.applyFunctionType(n, name, sym.Type, argNodes, args)
		}
		if b, ok := c.builtins[name]; ok {
			c.checkArity(n, name, b.MinArity, b.MaxArity, len(args))
			if b.MaxArity != Variadic && len(args) > b.MaxArity {
				args = args[:b.MaxArity]
			}
			return b.Result(args)
		}
		c.report(herr.NewUndefinedName{Range: callee.Span(), Name: name, InCall: true})
		return types.Any
	}

	return c.applyFunctionType(n, callee.Kind, c.infer(callee, s), argNodes, args)
}

// applyFunctionType checks a call to a value of type t, which is not a declared function
func (c *Checker) applyFunctionType(n *cst.Node, name string, t types.Type, argNodes []*cst.Node, args []types.Type) types.Type {
	resolved, err := types.ResolveAlias(stripConfidence(t))
	if err != nil {
		return types.Any
	}
	fn, ok := resolved.(types.Function)
	if !ok {
		return types.Any
	}
	c.checkArity(n, name, len(fn.Params), len(fn.Params), len(args))
	c.checkArguments(argNodes, args, fn.Params)
	return fn.Ret
}

func (c *Checker) checkArity(n *cst.Node, name string, minArity, maxArity, got int) {
	if got < minArity || maxArity != Variadic && got > maxArity {
		c.report(herr.NewCallArity{Range: n.Span(), Function: name, Min: minArity, Max: maxArity, Got: got})
	}
}

func (c *Checker) checkArguments(argNodes []*cst.Node, args, params []types.Type) {
	for i := range min(len(args), len(params)) {
		c.expectAssignable(argNodes[i], args[i], params[i])
	}
}

func (c *Checker) inferMember(n *cst.Node, s scope) types.Type {
	object, property := c.field(n, "object"), c.field(n, "property")
	if object == nil || property == nil {
		return types.Any
	}
	objType := c.infer(object, s)
	resolved, err := types.ResolveAlias(stripConfidence(objType))
	if err != nil {
		return types.Any
	}
	if nullable, ok := resolved.(types.Nullable); ok {
		resolved = nullable.Inner
	}
	entity, ok := resolved.(*types.Entity)
	if !ok {
		return types.Any
	}
	field, ok := entity.Field(property.Text)
	if !ok {
		c.report(herr.NewMemberNotFound{Range: property.Span(), Property: property.Text, On: entity})
		return types.Any
	}
	// fields of a confident entity are as confident as the entity
	if isConfident(objType) {
		return types.Confident{Payload: stripConfidence(field)}
	}
	return field
}

func (c *Checker) inferIndex(n *cst.Node, s scope) types.Type {
	object, index := c.field(n, "object"), c.field(n, "index")
	if object == nil || index == nil {
		return types.Any
	}
	objType := c.infer(object, s)
	indexType := c.infer(index, s)
	resolved, err := types.ResolveAlias(stripConfidence(objType))
	if err != nil {
		return types.Any
	}
	switch t := resolved.(type) {
	case types.List:
		c.expectAssignable(index, indexType, types.Int)
		return t.Elem
	case types.Map:
		c.expectAssignable(index, indexType, t.Key)
		return types.Nullable{Inner: t.Value}
	case types.Tuple:
		return joinAll(t.Elements)
	case types.Primitive:
		if t.Kind == types.KindString {
			return types.String
		}
	}
	return types.Any
}

func (c *Checker) inferIf(n *cst.Node, s scope) types.Type {
	cond, then := c.field(n, "condition"), c.field(n, "consequence")
	if cond == nil || then == nil {
		return types.Any
	}
	c.expectCondition(cond, c.infer(cond, s))
	thenType := c.infer(then, s)
	alt := n.Field("alternative")
	if alt == nil {
		return types.Unit
	}
	return types.Join(thenType, c.infer(alt, s))
}

func (c *Checker) inferLambda(n *cst.Node, s scope) types.Type {
	body := c.field(n, "body")
	if body == nil {
		return types.Any
	}
	var params []types.Type
	inner := s
	for _, p := range n.Field("parameters").ChildrenOf(cst.KindParameter) {
		name, ok := c.name(p)
		if !ok {
			continue
		}
		typ := c.annotation(p.Field("type"))
		params = append(params, typ)
		inner = inner.with(name, typ, false)
	}

	// a lambda's return statements are not checked against the enclosing function
	c.returns.Push(types.Any)
	defer c.returns.Pop()
	ret := c.infer(body, inner)
	return types.Function{Params: params, Ret: ret}
}
