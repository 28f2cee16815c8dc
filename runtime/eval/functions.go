package eval

import (
	"github.com/cottand/hunch/frontend/cst"
	"github.com/pkg/errors"
)

func (e *Evaluator) callValue(callee Value, args []Value, at cst.Range) (Value, error) {
	switch f := Strip(callee).(type) {
	case *Builtin:
		if len(args) < f.MinArity {
			return nil, errors.WithStack(&ArityError{Range: at, Function: f.Name, Min: f.MinArity, Max: f.MaxArity, Got: len(args)})
		}
		if f.MaxArity >= 0 && len(args) > f.MaxArity {
			args = args[:f.MaxArity]
		}
		return f.Fn(e, at, args)
	case *Constructor:
		return e.construct(f, args, at)
	case *Function:
		return e.callFunction(f, args, at)
	default:
		return nil, typeErrorf(at, "'%v' is not callable", Strip(callee).Type())
	}
}

func (e *Evaluator) callFunction(f *Function, args []Value, at cst.Range) (Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth {
		return nil, errors.Wrapf(ErrCallDepth, "calling %s", f.Name)
	}

	if required := f.minArity(); len(args) < required {
		return nil, errors.WithStack(&ArityError{Range: at, Function: f.Name, Min: required, Max: len(f.Params), Got: len(args)})
	}
	if len(args) > len(f.Params) {
		e.logger.Debug("ignoring extra arguments", "fn", f.Name, "got", len(args), "max", len(f.Params))
		args = args[:len(f.Params)]
	}

	env := f.Env
	for i, p := range f.Params {
		var arg Value
		if i < len(args) {
			arg = args[i]
		} else {
			var err error
			if arg, err = e.eval(p.Default, env); err != nil {
				return nil, err
			}
		}
		if !conforms(arg, p.Type) {
			return nil, typeErrorf(at, "argument '%s' of %s expects '%v', got '%v'", p.Name, f.Name, p.Type, Strip(arg).Type())
		}
		env = env.Define(p.Name, arg, false)
	}
	e.logger.Debug("call", "fn", f.Name, "args", len(args), "depth", e.depth)

	var ret Value
	var err error
	switch f.Kind {
	case IntentFunction:
		ret, err = e.resolveIntent(f, env)
	case FuzzyFunction:
		ret, err = e.scoreFuzzy(f, env)
	default:
		ret, err = e.runBody(f, env)
	}
	if err != nil {
		return nil, err
	}
	if !conforms(ret, f.Ret) {
		return nil, typeErrorf(at, "%s should return '%v', got '%v'", f.Name, f.Ret, Strip(ret).Type())
	}
	return ret, nil
}

// runBody evaluates a function whose body is a block or a single expression
func (e *Evaluator) runBody(f *Function, env Env) (Value, error) {
	body, err := field(f.Decl, "body")
	if err != nil {
		return nil, err
	}
	if !body.Is(cst.KindBlock) {
		v, err := e.eval(body, env)
		var ret *returnSignal
		if errors.As(err, &ret) {
			return ret.value, nil
		}
		return v, err
	}
	fl, err := e.execBlock(body, env)
	if err != nil {
		return nil, err
	}
	return fl.value, nil
}

// construct builds an entity and checks its invariants in declaration order
func (e *Evaluator) construct(c *Constructor, args []Value, at cst.Range) (Value, error) {
	fields := c.Of.Fields
	if len(args) != len(fields) {
		return nil, errors.WithStack(&ArityError{Range: at, Function: c.Of.Name, Min: len(fields), Max: len(fields), Got: len(args)})
	}
	env := NewEnv()
	for i, f := range fields {
		if !conforms(args[i], f.Type) {
			return nil, typeErrorf(at, "field '%s' of %s expects '%v', got '%v'", f.Name, c.Of.Name, f.Type, Strip(args[i]).Type())
		}
		env = env.Define(f.Name, args[i], false)
	}
	entity := &Entity{Of: c.Of, Values: append([]Value(nil), args...)}
	env = env.Define("this", entity, false)

	for _, inv := range c.Invariants {
		cond, err := field(inv, "condition")
		if err != nil {
			return nil, err
		}
		v, err := e.eval(cond, env)
		if err != nil {
			return nil, err
		}
		holds, err := truth(v, cond.Span(), "invariant")
		if err != nil {
			return nil, err
		}
		if !holds {
			return nil, errors.WithStack(&InvariantViolation{Range: inv.Span(), Entity: c.Of.Name, Clause: cst.Source(cond)})
		}
	}
	return entity, nil
}

// resolveIntent computes a candidate from the body statements, or else from
// the fallback clause, and then checks it against every ensure clause.
// A candidate failing a guard is an error: fallback is never retried.
func (e *Evaluator) resolveIntent(f *Function, params Env) (Value, error) {
	body, err := field(f.Decl, "body")
	if err != nil {
		return nil, err
	}
	var ensures []*cst.Node
	var fallback *cst.Node
	var candidate, trailing Value
	env := params
	for _, item := range body.Children {
		switch {
		case item.Is(cst.KindEnsure):
			ensures = append(ensures, item)
		case item.Is(cst.KindFallback):
			if fallback == nil {
				fallback = item
			}
		case isStatement(item.Kind):
			if candidate != nil {
				continue
			}
			var fl flow
			if env, fl, err = e.exec(item, env); err != nil {
				return nil, err
			}
			switch {
			case fl.returned:
				candidate = fl.value
			case item.Is(cst.KindExprStatement) && fl.value != Unit:
				trailing = fl.value
			default:
				trailing = nil
			}
		default:
			e.logger.Debug("skipping clause", "fn", f.Name, "clause", cst.Slog(item))
		}
	}

	source := "statements"
	if candidate == nil {
		candidate = trailing
	}
	if candidate == nil && fallback != nil {
		source = "fallback"
		value, err := field(fallback, "value")
		if err != nil {
			return nil, err
		}
		if candidate, err = e.eval(value, env); err != nil {
			return nil, err
		}
	}
	if candidate == nil {
		return nil, errors.WithStack(&ConstraintViolation{Range: f.Decl.Span(), Function: f.Name, Clause: "no value produced"})
	}

	guards := params.Define("result", candidate, false)
	for _, ensure := range ensures {
		cond, err := field(ensure, "condition")
		if err != nil {
			return nil, err
		}
		v, err := e.eval(cond, guards)
		if err != nil {
			return nil, err
		}
		holds, err := truth(v, cond.Span(), "ensure clause")
		if err != nil {
			return nil, err
		}
		if !holds {
			return nil, errors.WithStack(&ConstraintViolation{Range: ensure.Span(), Function: f.Name, Clause: clauseName(ensure)})
		}
	}
	e.logger.Debug("intent resolved", "fn", f.Name, "source", source, "ensures", len(ensures))
	return candidate, nil
}

func clauseName(ensure *cst.Node) string {
	if name := ensure.FieldText("name"); name != "" {
		return name
	}
	return cst.Source(ensure.Field("condition"))
}

// scoreFuzzy is the weighted share of factors which hold, as a confident Bool
func (e *Evaluator) scoreFuzzy(f *Function, env Env) (Value, error) {
	body, err := field(f.Decl, "body")
	if err != nil {
		return nil, err
	}
	var total, held float64
	for _, factor := range body.ChildrenOf(cst.KindFuzzyFactor) {
		cond, err := field(factor, "condition")
		if err != nil {
			return nil, err
		}
		weightNode, err := field(factor, "weight")
		if err != nil {
			return nil, err
		}
		v, err := e.eval(cond, env)
		if err != nil {
			return nil, err
		}
		holds, err := truth(v, cond.Span(), "fuzzy factor")
		if err != nil {
			return nil, err
		}
		w, err := e.eval(weightNode, env)
		if err != nil {
			return nil, err
		}
		weight, ok := toFloat(Strip(w))
		if !ok {
			return nil, typeErrorf(weightNode.Span(), "fuzzy factor weight should be numeric, got '%v'", Strip(w).Type())
		}
		if weight < 0 {
			return nil, typeErrorf(weightNode.Span(), "fuzzy factor weight must not be negative, got %v", weight)
		}
		total += weight
		if holds {
			held += weight
		}
	}
	if total == 0 {
		return nil, errors.WithStack(&WeightError{Range: f.Decl.Span(), Predicate: f.Name})
	}
	score := roundScore(held / total)
	e.logger.Debug("fuzzy scored", "fn", f.Name, "score", score, "total", total)
	return NewConfident(Bool(score >= 0.5), score), nil
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
