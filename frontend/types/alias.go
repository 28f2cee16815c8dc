package types

import (
	"fmt"
	"slices"
	"strings"
)

// MaxAliasDepth bounds how many aliases may be chained before resolution
// gives up and reports a cycle
const MaxAliasDepth = 64

// CycleError is returned when alias resolution does not terminate
type CycleError struct {
	// Name is the alias at which resolution gave up
	Name string
	// Path is the chain of alias names followed, when known
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("type alias '%s' is cyclic (%s)", e.Name, joinPath(e.Path))
	}
	return fmt.Sprintf("type alias '%s' is cyclic", e.Name)
}

// UnboundAliasError is returned for aliases whose target was never set
type UnboundAliasError struct {
	Name string
}

func (e *UnboundAliasError) Error() string {
	return fmt.Sprintf("type alias '%s' has no target", e.Name)
}

// ResolveAlias substitutes every Alias inside t with its target, recursively.
// The result contains no Alias.
//
// Entities are nominal and are returned as-is: their fields are never walked.
func ResolveAlias(t Type) (Type, error) {
	return resolve(t, nil)
}

// resolve keeps the aliases being expanded in active, so that a cycle is
// detected the first time it closes rather than after MaxAliasDepth steps
func resolve(t Type, active []*Alias) (Type, error) {
	switch t := t.(type) {
	case *Alias:
		if i := slices.Index(active, t); i >= 0 {
			return nil, &CycleError{Name: t.Name, Path: aliasNames(append(slices.Clone(active[i:]), t))}
		}
		if len(active) >= MaxAliasDepth {
			return nil, &CycleError{Name: t.Name}
		}
		if t.Target == nil {
			return nil, &UnboundAliasError{Name: t.Name}
		}
		return resolve(t.Target, append(slices.Clip(active), t))
	case Primitive, *Entity, Sealed:
		return t, nil
	case Nullable:
		inner, err := resolve(t.Inner, active)
		if err != nil {
			return nil, err
		}
		return Nullable{Inner: inner}, nil
	case List:
		elem, err := resolve(t.Elem, active)
		if err != nil {
			return nil, err
		}
		return List{Elem: elem, Mutable: t.Mutable}, nil
	case Set:
		elem, err := resolve(t.Elem, active)
		if err != nil {
			return nil, err
		}
		return Set{Elem: elem, Mutable: t.Mutable}, nil
	case Map:
		key, err := resolve(t.Key, active)
		if err != nil {
			return nil, err
		}
		value, err := resolve(t.Value, active)
		if err != nil {
			return nil, err
		}
		return Map{Key: key, Value: value, Mutable: t.Mutable}, nil
	case Function:
		params, err := resolveAll(t.Params, active)
		if err != nil {
			return nil, err
		}
		ret, err := resolve(t.Ret, active)
		if err != nil {
			return nil, err
		}
		return Function{Params: params, Ret: ret}, nil
	case Tuple:
		elems, err := resolveAll(t.Elements, active)
		if err != nil {
			return nil, err
		}
		return Tuple{Elements: elems}, nil
	case Union:
		members, err := resolveAll(t.Members(), active)
		if err != nil {
			return nil, err
		}
		return NewUnion(members...), nil
	case Intersection:
		members, err := resolveAll(t.Members(), active)
		if err != nil {
			return nil, err
		}
		return NewIntersection(members...), nil
	case Confident:
		payload, err := resolve(t.Payload, active)
		if err != nil {
			return nil, err
		}
		return Confident{Payload: payload}, nil
	default:
		panic(fmt.Sprintf("unexpected type former %T", t))
	}
}

func resolveAll(ts []Type, active []*Alias) ([]Type, error) {
	ret := make([]Type, len(ts))
	for i, t := range ts {
		r, err := resolve(t, active)
		if err != nil {
			return nil, err
		}
		ret[i] = r
	}
	return ret, nil
}

// CheckAliasCycles looks for aliases which refer back to themselves, directly
// or through other aliases and type formers (`type A = List<A>` is a cycle too).
//
// It returns one CycleError per alias taking part in a cycle, in the order of
// names. Aliases are checked when they are defined, so that a cyclic alias is
// reported once rather than at each use site.
func CheckAliasCycles(aliases []*Alias) []*CycleError {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*Alias]int, len(aliases))
	cyclic := make(map[*Alias][]string)

	var visit func(a *Alias, path []*Alias)
	visit = func(a *Alias, path []*Alias) {
		switch state[a] {
		case done:
			return
		case visiting:
			start := slices.Index(path, a)
			loop := path[start:]
			names := make([]string, 0, len(loop)+1)
			for _, member := range loop {
				names = append(names, member.Name)
			}
			names = append(names, a.Name)
			for _, member := range loop {
				if _, seen := cyclic[member]; !seen {
					cyclic[member] = names
				}
			}
			return
		}
		state[a] = visiting
		for _, ref := range referencedAliases(a.Target) {
			visit(ref, append(path, a))
		}
		state[a] = done
	}

	for _, a := range aliases {
		visit(a, nil)
	}

	var errs []*CycleError
	for _, a := range aliases {
		if path, ok := cyclic[a]; ok {
			errs = append(errs, &CycleError{Name: a.Name, Path: path})
		}
	}
	return errs
}

// referencedAliases lists the aliases t mentions without going through another alias
func referencedAliases(t Type) []*Alias {
	var ret []*Alias
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case nil, Primitive, *Entity, Sealed:
		case *Alias:
			ret = append(ret, t)
		case Nullable:
			walk(t.Inner)
		case List:
			walk(t.Elem)
		case Set:
			walk(t.Elem)
		case Map:
			walk(t.Key)
			walk(t.Value)
		case Function:
			for _, p := range t.Params {
				walk(p)
			}
			walk(t.Ret)
		case Tuple:
			for _, e := range t.Elements {
				walk(e)
			}
		case Union:
			for _, m := range t.Members() {
				walk(m)
			}
		case Intersection:
			for _, m := range t.Members() {
				walk(m)
			}
		case Confident:
			walk(t.Payload)
		}
	}
	walk(t)
	return ret
}

func aliasNames(as []*Alias) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

func joinPath(names []string) string {
	return strings.Join(names, " -> ")
}
