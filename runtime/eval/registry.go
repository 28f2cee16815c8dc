package eval

import (
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
)

// typeRegistry knows the types declared by a program. Unlike the checker it
// never reports anything: annotations it cannot make sense of stand for Any.
type typeRegistry struct {
	names map[string]types.Type
	// invariants of each entity, by entity name
	invariants map[string][]*cst.Node
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{names: make(map[string]types.Type), invariants: make(map[string][]*cst.Node)}
}

func (r *typeRegistry) lookup(name string) (types.Type, bool) {
	t, ok := r.names[name]
	return t, ok
}

func (r *typeRegistry) annotation(n *cst.Node) types.Type {
	return types.FromNode(n, r.lookup, nil)
}

// register adds every type declared in decls, in the same three steps as the
// checker: names first, then alias targets, then entity fields
func (r *typeRegistry) register(decls []*cst.Node) []*types.CycleError {
	var entities []*cst.Node
	var aliases []*types.Alias
	aliasDecls := make(map[*types.Alias]*cst.Node)

	addEntity := func(decl *cst.Node, parent string) {
		name := decl.FieldText("name")
		if name == "" {
			return
		}
		r.names[name] = types.NewEntity(name, parent)
		entities = append(entities, decl)
	}
	for _, decl := range decls {
		switch decl.Kind {
		case cst.KindEntityDecl:
			addEntity(decl, "")
		case cst.KindSealedDecl:
			name := decl.FieldText("name")
			var variants []string
			for _, v := range decl.ChildrenOf(cst.KindEntityDecl) {
				addEntity(v, name)
				variants = append(variants, v.FieldText("name"))
			}
			if name != "" {
				r.names[name] = types.NewSealed(name, variants...)
			}
		case cst.KindTypeAlias:
			if name := decl.FieldText("name"); name != "" {
				alias := &types.Alias{Name: name}
				r.names[name] = alias
				aliases = append(aliases, alias)
				aliasDecls[alias] = decl
			}
		}
	}

	for _, alias := range aliases {
		alias.Target = r.annotation(aliasDecls[alias].Field("type"))
	}
	cycles := types.CheckAliasCycles(aliases)
	for _, cycle := range cycles {
		if alias, ok := r.names[cycle.Name].(*types.Alias); ok {
			alias.Target = types.Any
		}
	}

	for _, decl := range entities {
		entity := r.names[decl.FieldText("name")].(*types.Entity)
		var fields []types.Field
		for _, f := range decl.ChildrenOf(cst.KindFieldDecl) {
			fields = append(fields, types.Field{Name: f.FieldText("name"), Type: r.annotation(f.Field("type"))})
		}
		entity.SetFields(fields)
		r.invariants[entity.Name] = decl.ChildrenOf(cst.KindInvariant)
	}
	return cycles
}

// conforms reports whether v may be bound where t is expected. Collections
// are checked item by item, so that an empty list fits any list type.
// Confidence is ignored unless t asks for it.
func conforms(v Value, t types.Type) bool {
	if t == nil {
		return true
	}
	resolved, err := types.ResolveAlias(t)
	if err != nil {
		return false
	}
	if c, ok := resolved.(types.Confident); ok {
		return conforms(Strip(v), c.Payload)
	}
	v = Strip(v)

	switch t := resolved.(type) {
	case types.Primitive:
		switch t.Kind {
		case types.KindAny:
			return true
		case types.KindFloat:
			_, isFloat := v.(Float)
			_, isInt := v.(Int)
			return isFloat || isInt
		}
		return types.IsSubtype(v.Type(), t)
	case types.Nullable:
		return v == Null || conforms(v, t.Inner)
	case types.Union:
		for _, m := range t.Members() {
			if conforms(v, m) {
				return true
			}
		}
		return false
	case types.Intersection:
		for _, m := range t.Members() {
			if !conforms(v, m) {
				return false
			}
		}
		return true
	case types.List:
		l, ok := v.(*List)
		return ok && allConform(l.Items, t.Elem)
	case types.Set:
		s, ok := v.(*Set)
		return ok && allConform(s.Items, t.Elem)
	case types.Map:
		m, ok := v.(*Map)
		if !ok {
			return false
		}
		for _, e := range m.Entries {
			if !conforms(e.Fst, t.Key) || !conforms(e.Snd, t.Value) {
				return false
			}
		}
		return true
	case types.Tuple:
		tuple, ok := v.(Tuple)
		if !ok || len(tuple.Items) != len(t.Elements) {
			return false
		}
		for i, item := range tuple.Items {
			if !conforms(item, t.Elements[i]) {
				return false
			}
		}
		return true
	case types.Function:
		switch v.(type) {
		case *Function, *Builtin, *Constructor:
			return true
		}
		return false
	default:
		return types.IsSubtype(v.Type(), t)
	}
}

func allConform(vs []Value, t types.Type) bool {
	for _, v := range vs {
		if !conforms(v, t) {
			return false
		}
	}
	return true
}
