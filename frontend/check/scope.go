package check

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/hunch/frontend/types"
)

type binding struct {
	typ     types.Type
	mutable bool
}

// scope is a persistent map of local bindings: binding a name returns a new
// scope and leaves the enclosing one untouched, so leaving a block needs no cleanup
type scope struct {
	vars *immutable.Map[string, binding]
}

func newScope() scope {
	return scope{vars: immutable.NewMap[string, binding](nil)}
}

func (s scope) with(name string, typ types.Type, mutable bool) scope {
	return scope{vars: s.vars.Set(name, binding{typ: typ, mutable: mutable})}
}

func (s scope) lookup(name string) (binding, bool) {
	return s.vars.Get(name)
}
