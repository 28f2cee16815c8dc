package eval

import (
	"strconv"
	"unicode/utf8"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
	"github.com/pkg/errors"
)

func (e *Evaluator) eval(n *cst.Node, env Env) (Value, error) {
	if n == nil {
		return nil, errors.WithStack(&MalformedError{Kind: "expression", Field: "expression"})
	}
	switch n.Kind {
	case cst.KindIdentifier:
		if v, ok := e.lookup(n.Text, env); ok {
			return v, nil
		}
		return nil, errors.WithStack(&UndefinedError{Range: n.Span(), Name: n.Text})

	case cst.KindIntLit:
		i, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, typeErrorf(n.Span(), "invalid integer literal '%s'", n.Text)
		}
		return Int(i), nil
	case cst.KindFloatLit:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, typeErrorf(n.Span(), "invalid float literal '%s'", n.Text)
		}
		return Float(f), nil
	case cst.KindStringLit:
		return Str(n.Text), nil
	case cst.KindBoolLit:
		return Bool(n.Text == "true"), nil
	case cst.KindNullLit:
		return Null, nil

	case cst.KindConfidence:
		return e.evalConfidence(n, env)
	case cst.KindBinary:
		return e.evalBinary(n, env)
	case cst.KindUnary:
		return e.evalUnary(n, env)
	case cst.KindCall:
		return e.evalCall(n, env)
	case cst.KindMember:
		return e.evalMember(n, env)
	case cst.KindIndex:
		return e.evalIndex(n, env)

	case cst.KindParen:
		inner, err := field(n, "expression")
		if err != nil {
			return nil, err
		}
		return e.eval(inner, env)

	case cst.KindIf:
		return e.evalIf(n, env)

	case cst.KindLambda:
		return &Function{
			Name:   "<lambda>",
			Kind:   LambdaFunction,
			Params: e.params(n.Field("parameters")),
			Ret:    types.Any,
			Decl:   n,
			Env:    env,
		}, nil

	case cst.KindListLit:
		items, err := e.evalAll(n.Children, env)
		return &List{Items: items}, err
	case cst.KindSetLit:
		items, err := e.evalAll(n.Children, env)
		return NewSet(false, items...), err
	case cst.KindTuple:
		items, err := e.evalAll(n.Children, env)
		return Tuple{Items: items}, err
	case cst.KindMapLit:
		m := &Map{}
		for _, pair := range n.ChildrenOf(cst.KindPair) {
			kv, err := e.evalFields(pair, env, "key", "value")
			if err != nil {
				return nil, err
			}
			m.Put(Strip(kv[0]), kv[1])
		}
		return m, nil

	default:
		return nil, typeErrorf(n.Span(), "'%s' is not an expression", n.Kind)
	}
}

func (e *Evaluator) evalAll(ns []*cst.Node, env Env) ([]Value, error) {
	vs := make([]Value, 0, len(ns))
	for _, n := range ns {
		v, err := e.eval(n, env)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// evalFields evaluates the named children of n, left to right
func (e *Evaluator) evalFields(n *cst.Node, env Env, names ...string) ([]Value, error) {
	vs := make([]Value, len(names))
	for i, name := range names {
		f, err := field(n, name)
		if err != nil {
			return nil, err
		}
		if vs[i], err = e.eval(f, env); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

func (e *Evaluator) evalConfidence(n *cst.Node, env Env) (Value, error) {
	vs, err := e.evalFields(n, env, "value", "confidence")
	if err != nil {
		return nil, err
	}
	score, ok := toFloat(Strip(vs[1]))
	if !ok {
		return nil, typeErrorf(n.Field("confidence").Span(), "confidence should be numeric, got '%v'", Strip(vs[1]).Type())
	}
	return NewConfident(vs[0], score), nil
}

func (e *Evaluator) evalBinary(n *cst.Node, env Env) (Value, error) {
	op := n.FieldText("operator")
	leftNode, err := field(n, "left")
	if err != nil {
		return nil, err
	}
	rightNode, err := field(n, "right")
	if err != nil {
		return nil, err
	}
	left, err := e.eval(leftNode, env)
	if err != nil {
		return nil, err
	}
	if op == "&&" || op == "||" {
		return e.evalLogical(op, left, leftNode, rightNode, env)
	}
	right, err := e.eval(rightNode, env)
	if err != nil {
		return nil, err
	}
	result, err := applyOperator(op, Strip(left), Strip(right), n.Span())
	if err != nil {
		return nil, err
	}
	return propagate(result, left, right), nil
}

// evalLogical short-circuits on plain operands only: a confident left
// operand still needs the right one to score the result
func (e *Evaluator) evalLogical(op string, left Value, leftNode, rightNode *cst.Node, env Env) (Value, error) {
	l, err := truth(left, leftNode.Span(), "left operand of '"+op+"'")
	if err != nil {
		return nil, err
	}
	if !IsConfident(left) && ((op == "&&" && !l) || (op == "||" && l)) {
		return Bool(l), nil
	}
	right, err := e.eval(rightNode, env)
	if err != nil {
		return nil, err
	}
	r, err := truth(right, rightNode.Span(), "right operand of '"+op+"'")
	if err != nil {
		return nil, err
	}

	var result Bool
	var score float64
	if op == "&&" {
		result, score = Bool(l && r), min(ConfidenceOf(left), ConfidenceOf(right))
	} else {
		result, score = Bool(l || r), max(ConfidenceOf(left), ConfidenceOf(right))
	}
	if !IsConfident(left) && !IsConfident(right) {
		return result, nil
	}
	return NewConfident(result, score), nil
}

func (e *Evaluator) evalUnary(n *cst.Node, env Env) (Value, error) {
	op := n.FieldText("operator")
	operandNode, err := field(n, "operand")
	if err != nil {
		return nil, err
	}
	operand, err := e.eval(operandNode, env)
	if err != nil {
		return nil, err
	}
	var result Value
	switch op {
	case "!":
		b, err := truth(operand, operandNode.Span(), "operand of '!'")
		if err != nil {
			return nil, err
		}
		result = !Bool(b)
	case "-":
		switch v := Strip(operand).(type) {
		case Int:
			result = -v
		case Float:
			result = -v
		default:
			return nil, typeErrorf(n.Span(), "operator '-' cannot be applied to '%v'", v.Type())
		}
	default:
		return nil, typeErrorf(n.Span(), "unknown unary operator '%s'", op)
	}
	return propagate(result, operand), nil
}

func (e *Evaluator) evalCall(n *cst.Node, env Env) (Value, error) {
	calleeNode, err := field(n, "function")
	if err != nil {
		return nil, err
	}
	var callee Value
	if calleeNode.Is(cst.KindIdentifier) {
		var ok bool
		if callee, ok = e.lookup(calleeNode.Text, env); !ok {
			return nil, errors.WithStack(&UndefinedError{Range: calleeNode.Span(), Name: calleeNode.Text})
		}
	} else if callee, err = e.eval(calleeNode, env); err != nil {
		return nil, err
	}
	args, err := e.evalAll(n.Field("arguments").Items(), env)
	if err != nil {
		return nil, err
	}
	return e.callValue(callee, args, n.Span())
}

// evalMember reads a property. Reading from a confident object yields a
// confident property, scored with the product of both scores.
func (e *Evaluator) evalMember(n *cst.Node, env Env) (Value, error) {
	objectNode, err := field(n, "object")
	if err != nil {
		return nil, err
	}
	property := n.FieldText("property")
	object, err := e.eval(objectNode, env)
	if err != nil {
		return nil, err
	}
	v, err := member(Strip(object), property, n.Span())
	if err != nil {
		return nil, err
	}
	if c, ok := object.(Confident); ok {
		return NewConfident(v, c.Score), nil
	}
	return v, nil
}

func member(object Value, property string, at cst.Range) (Value, error) {
	switch o := object.(type) {
	case *Entity:
		if v, ok := o.Field(property); ok {
			return v, nil
		}
	case *List:
		if property == "size" {
			return Int(len(o.Items)), nil
		}
	case *Set:
		if property == "size" {
			return Int(len(o.Items)), nil
		}
	case *Map:
		if property == "size" {
			return Int(len(o.Entries)), nil
		}
	case Str:
		if property == "length" {
			return Int(utf8.RuneCountInString(string(o))), nil
		}
	case nullValue:
		return nil, errors.WithStack(&MemberError{Range: at, Property: property, On: "null"})
	}
	return nil, errors.WithStack(&MemberError{Range: at, Property: property, On: object.Type().String()})
}

func (e *Evaluator) evalIndex(n *cst.Node, env Env) (Value, error) {
	vs, err := e.evalFields(n, env, "object", "index")
	if err != nil {
		return nil, err
	}
	object, index := vs[0], vs[1]
	at := n.Field("index").Span()

	var result Value
	switch o := Strip(object).(type) {
	case *List:
		i, err := listIndex(Strip(index), len(o.Items), at)
		if err != nil {
			return nil, err
		}
		result = o.Items[i]
	case Tuple:
		i, err := listIndex(Strip(index), len(o.Items), at)
		if err != nil {
			return nil, err
		}
		result = o.Items[i]
	case Str:
		runes := []rune(string(o))
		i, err := listIndex(Strip(index), len(runes), at)
		if err != nil {
			return nil, err
		}
		result = Str(runes[i])
	case *Map:
		var ok bool
		if result, ok = o.Get(Strip(index)); !ok {
			result = Null
		}
	default:
		return nil, typeErrorf(n.Span(), "'%v' cannot be indexed", o.Type())
	}
	return propagate(result, object, index), nil
}

func listIndex(index Value, size int, at cst.Range) (int, error) {
	i, ok := index.(Int)
	if !ok {
		return 0, typeErrorf(at, "index should be Int, got '%v'", index.Type())
	}
	if i < 0 || int(i) >= size {
		return 0, typeErrorf(at, "index %d out of range for size %d", i, size)
	}
	return int(i), nil
}

// evalIf yields the value of the branch taken, or Unit without an alternative
func (e *Evaluator) evalIf(n *cst.Node, env Env) (Value, error) {
	condNode, err := field(n, "condition")
	if err != nil {
		return nil, err
	}
	cond, err := e.eval(condNode, env)
	if err != nil {
		return nil, err
	}
	taken, err := truth(cond, condNode.Span(), "condition")
	if err != nil {
		return nil, err
	}
	branch := n.Field("alternative")
	if taken {
		if branch, err = field(n, "consequence"); err != nil {
			return nil, err
		}
	}
	if branch == nil {
		return Unit, nil
	}
	if !branch.Is(cst.KindBlock) {
		return e.eval(branch, env)
	}
	fl, err := e.execBlock(branch, env)
	if err != nil {
		return nil, err
	}
	if fl.returned {
		return nil, &returnSignal{value: fl.value}
	}
	return fl.value, nil
}
