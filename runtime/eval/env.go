package eval

import (
	"github.com/benbjohnson/immutable"
)

type cell struct {
	value   Value
	mutable bool
}

// Env binds names to values. Extending an Env never affects the Env it was
// derived from, but both share the cell of a var, so closures observe
// reassignments.
type Env struct {
	vars *immutable.Map[string, *cell]
}

func NewEnv() Env {
	return Env{vars: immutable.NewMap[string, *cell](nil)}
}

func (e Env) ensure() Env {
	if e.vars == nil {
		return NewEnv()
	}
	return e
}

// Define returns e with name bound to v, shadowing any previous binding
func (e Env) Define(name string, v Value, mutable bool) Env {
	e = e.ensure()
	return Env{vars: e.vars.Set(name, &cell{value: v, mutable: mutable})}
}

func (e Env) Lookup(name string) (Value, bool) {
	c, ok := e.cell(name)
	if !ok {
		return nil, false
	}
	return c.value, true
}

func (e Env) cell(name string) (*cell, bool) {
	if e.vars == nil {
		return nil, false
	}
	return e.vars.Get(name)
}

func (e Env) Len() int {
	if e.vars == nil {
		return 0
	}
	return e.vars.Len()
}
