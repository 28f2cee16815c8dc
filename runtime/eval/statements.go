package eval

import (
	"github.com/cottand/hunch/frontend/cst"
	"github.com/pkg/errors"
)

// flow is how a statement completed
type flow struct {
	// value is the value of an expression statement or of a return
	value    Value
	returned bool
}

// execBlock runs block in a scope of its own. Its value is that of the
// trailing expression statement, or Unit.
func (e *Evaluator) execBlock(block *cst.Node, env Env) (flow, error) {
	var last Value = Unit
	for _, stmt := range block.Children {
		var fl flow
		var err error
		env, fl, err = e.exec(stmt, env)
		if err != nil || fl.returned {
			return fl, err
		}
		last = Unit
		if stmt.Is(cst.KindExprStatement) {
			last = fl.value
		}
	}
	return flow{value: last}, nil
}

// returnSignal carries a return out of an if expression, up to the
// statement the expression belongs to
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return outside of a function body" }

// exec runs stmt and returns env extended with whatever it declares
func (e *Evaluator) exec(stmt *cst.Node, env Env) (Env, flow, error) {
	next, fl, err := e.execStatement(stmt, env)
	var ret *returnSignal
	if errors.As(err, &ret) {
		return env, flow{value: ret.value, returned: true}, nil
	}
	return next, fl, err
}

func (e *Evaluator) execStatement(stmt *cst.Node, env Env) (Env, flow, error) {
	switch stmt.Kind {
	case cst.KindBlock:
		fl, err := e.execBlock(stmt, env)
		if !fl.returned {
			fl.value = Unit
		}
		return env, fl, err

	case cst.KindValDecl, cst.KindVarDecl:
		name, err := field(stmt, "name")
		if err != nil {
			return env, flow{}, err
		}
		valueNode, err := field(stmt, "value")
		if err != nil {
			return env, flow{}, err
		}
		v, err := e.eval(valueNode, env)
		if err != nil {
			return env, flow{}, err
		}
		if annotation := stmt.Field("type"); annotation != nil {
			t := e.registry.annotation(annotation)
			if !conforms(v, t) {
				return env, flow{}, typeErrorf(stmt.Span(), "'%s' expects '%v', got '%v'", name.Text, t, Strip(v).Type())
			}
		}
		return env.Define(name.Text, v, stmt.Is(cst.KindVarDecl)), flow{value: Unit}, nil

	case cst.KindAssignment:
		return env, flow{value: Unit}, e.assign(stmt, env)

	case cst.KindReturn:
		var v Value = Unit
		if valueNode := stmt.Field("value"); valueNode != nil {
			var err error
			if v, err = e.eval(valueNode, env); err != nil {
				return env, flow{}, err
			}
		}
		return env, flow{value: v, returned: true}, nil

	case cst.KindExprStatement:
		expr, err := field(stmt, "expression")
		if err != nil {
			return env, flow{}, err
		}
		v, err := e.eval(expr, env)
		return env, flow{value: v}, err

	case cst.KindWhile:
		cond, err := field(stmt, "condition")
		if err != nil {
			return env, flow{}, err
		}
		body, err := field(stmt, "body")
		if err != nil {
			return env, flow{}, err
		}
		for {
			v, err := e.eval(cond, env)
			if err != nil {
				return env, flow{}, err
			}
			again, err := truth(v, cond.Span(), "while condition")
			if err != nil || !again {
				return env, flow{value: Unit}, err
			}
			if fl, err := e.execBody(body, env); err != nil || fl.returned {
				return env, fl, err
			}
		}

	case cst.KindFor:
		variable, err := field(stmt, "variable")
		if err != nil {
			return env, flow{}, err
		}
		iterable, err := field(stmt, "iterable")
		if err != nil {
			return env, flow{}, err
		}
		body, err := field(stmt, "body")
		if err != nil {
			return env, flow{}, err
		}
		v, err := e.eval(iterable, env)
		if err != nil {
			return env, flow{}, err
		}
		items, err := iterate(v, iterable.Span())
		if err != nil {
			return env, flow{}, err
		}
		for _, item := range items {
			if fl, err := e.execBody(body, env.Define(variable.Text, item, false)); err != nil || fl.returned {
				return env, fl, err
			}
		}
		return env, flow{value: Unit}, nil

	default:
		return env, flow{}, errors.WithStack(&MalformedError{Range: stmt.Span(), Kind: stmt.Kind, Field: "statement"})
	}
}

// execBody runs the body of a loop, a block or a single statement
func (e *Evaluator) execBody(body *cst.Node, env Env) (flow, error) {
	if body.Is(cst.KindBlock) {
		return e.execBlock(body, env)
	}
	if isStatement(body.Kind) {
		_, fl, err := e.exec(body, env)
		return fl, err
	}
	_, err := e.eval(body, env)
	return flow{value: Unit}, err
}

// iterate lists what a for loop visits in v. Collections are copied first,
// so the loop body may modify them.
func iterate(v Value, at cst.Range) ([]Value, error) {
	switch v := Strip(v).(type) {
	case *List:
		return append([]Value(nil), v.Items...), nil
	case *Set:
		return append([]Value(nil), v.Items...), nil
	case Tuple:
		return v.Items, nil
	case *Map:
		items := make([]Value, len(v.Entries))
		for i, entry := range v.Entries {
			items[i] = Tuple{Items: []Value{entry.Fst, entry.Snd}}
		}
		return items, nil
	case Str:
		var items []Value
		for _, r := range string(v) {
			items = append(items, Str(r))
		}
		return items, nil
	default:
		return nil, typeErrorf(at, "cannot iterate over '%v'", v.Type())
	}
}

func (e *Evaluator) assign(stmt *cst.Node, env Env) error {
	left, err := field(stmt, "left")
	if err != nil {
		return err
	}
	right, err := field(stmt, "right")
	if err != nil {
		return err
	}
	v, err := e.eval(right, env)
	if err != nil {
		return err
	}

	switch left.Kind {
	case cst.KindIdentifier:
		c, ok := env.cell(left.Text)
		if !ok {
			c, ok = e.globals.cell(left.Text)
		}
		if !ok {
			return errors.WithStack(&UndefinedError{Range: left.Span(), Name: left.Text})
		}
		if !c.mutable {
			return typeErrorf(stmt.Span(), "cannot reassign val '%s'", left.Text)
		}
		c.value = v
		return nil

	case cst.KindIndex:
		objectNode, err := field(left, "object")
		if err != nil {
			return err
		}
		indexNode, err := field(left, "index")
		if err != nil {
			return err
		}
		object, err := e.eval(objectNode, env)
		if err != nil {
			return err
		}
		index, err := e.eval(indexNode, env)
		if err != nil {
			return err
		}
		switch o := Strip(object).(type) {
		case *List:
			if !o.Mutable {
				return typeErrorf(stmt.Span(), "cannot modify a read-only List")
			}
			i, err := listIndex(Strip(index), len(o.Items), indexNode.Span())
			if err != nil {
				return err
			}
			o.Items[i] = v
			return nil
		case *Map:
			if !o.Mutable {
				return typeErrorf(stmt.Span(), "cannot modify a read-only Map")
			}
			o.Put(Strip(index), v)
			return nil
		default:
			return typeErrorf(stmt.Span(), "cannot assign an element of '%v'", o.Type())
		}

	case cst.KindMember:
		return typeErrorf(stmt.Span(), "cannot assign to '%s': entities are immutable", cst.Source(left))

	default:
		return typeErrorf(stmt.Span(), "cannot assign to '%s'", cst.Source(left))
	}
}
