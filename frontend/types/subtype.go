package types

// IsSubtype reports whether every value of sub is also a value of sup.
//
// Both operands are alias-resolved first. An operand whose aliases cannot be
// resolved (see CycleError) is unrelated to everything.
func IsSubtype(sub, sup Type) bool {
	resolvedSub, err := ResolveAlias(sub)
	if err != nil {
		return false
	}
	resolvedSup, err := ResolveAlias(sup)
	if err != nil {
		return false
	}
	return isSubtype(resolvedSub, resolvedSup)
}

// Equal reports whether a and b are the same type once aliases are resolved
func Equal(a, b Type) bool {
	ra, err := ResolveAlias(a)
	if err != nil {
		return false
	}
	rb, err := ResolveAlias(b)
	if err != nil {
		return false
	}
	return equalResolved(ra, rb)
}

func equalResolved(a, b Type) bool {
	return a.Hash() == b.Hash()
}

// isSubtype expects alias-free operands.
//
// Unions on the left and intersections on the right are decomposed first, as
// doing so never loses information. Unions on the right and intersections on
// the left are tried next, and only then do the rules for each former apply.
func isSubtype(sub, sup Type) bool {
	if Is(sup, KindAny) || Is(sub, KindNothing) {
		return true
	}
	if Is(sup, KindNothing) {
		return false
	}

	if u, ok := sub.(Union); ok {
		for _, m := range u.Members() {
			if !isSubtype(m, sup) {
				return false
			}
		}
		return true
	}
	if i, ok := sup.(Intersection); ok {
		for _, m := range i.Members() {
			if !isSubtype(sub, m) {
				return false
			}
		}
		return true
	}
	if u, ok := sup.(Union); ok {
		for _, m := range u.Members() {
			if isSubtype(sub, m) {
				return true
			}
		}
	}
	if i, ok := sub.(Intersection); ok {
		for _, m := range i.Members() {
			if isSubtype(m, sup) {
				return true
			}
		}
		return false
	}
	if _, ok := sup.(Union); ok {
		// T? is T | Null, so it fits a union which admits both halves
		if n, ok := sub.(Nullable); ok {
			return isSubtype(n.Inner, sup) && isSubtype(Null, sup)
		}
		return false
	}

	if supN, ok := sup.(Nullable); ok {
		switch sub := sub.(type) {
		case Nullable:
			return isSubtype(sub.Inner, supN.Inner)
		case Primitive:
			if sub.Kind == KindNull {
				return true
			}
		}
		return isSubtype(sub, supN.Inner)
	}

	switch sub := sub.(type) {
	case Primitive:
		supP, ok := sup.(Primitive)
		if !ok {
			return false
		}
		if sub.Kind == supP.Kind {
			return true
		}
		return sub.Kind == KindInt && supP.Kind == KindFloat

	case Nullable:
		// sup is not nullable here: Null does not fit
		return false

	case List:
		supL, ok := sup.(List)
		if !ok {
			return false
		}
		return CollectionVariance(sub.Mutable, supL.Mutable).relates(sub.Elem, supL.Elem)

	case Set:
		supS, ok := sup.(Set)
		if !ok {
			return false
		}
		return CollectionVariance(sub.Mutable, supS.Mutable).relates(sub.Elem, supS.Elem)

	case Map:
		supM, ok := sup.(Map)
		if !ok {
			return false
		}
		return Invariant.relates(sub.Key, supM.Key) &&
			CollectionVariance(sub.Mutable, supM.Mutable).relates(sub.Value, supM.Value)

	case *Entity:
		switch sup := sup.(type) {
		case *Entity:
			return sub.Name == sup.Name && sub.Parent == sup.Parent
		case Sealed:
			return sub.Parent != "" && sub.Parent == sup.Name
		default:
			return false
		}

	case Sealed:
		supS, ok := sup.(Sealed)
		return ok && supS.Name == sub.Name

	case Function:
		supF, ok := sup.(Function)
		if !ok || len(sub.Params) != len(supF.Params) {
			return false
		}
		for i := range sub.Params {
			if !Contravariant.relates(sub.Params[i], supF.Params[i]) {
				return false
			}
		}
		return Covariant.relates(sub.Ret, supF.Ret)

	case Tuple:
		supT, ok := sup.(Tuple)
		if !ok || len(sub.Elements) != len(supT.Elements) {
			return false
		}
		for i := range sub.Elements {
			if !isSubtype(sub.Elements[i], supT.Elements[i]) {
				return false
			}
		}
		return true

	case Confident:
		supC, ok := sup.(Confident)
		return ok && isSubtype(sub.Payload, supC.Payload)

	default:
		return false
	}
}

// Join returns a common supertype of a and b, preferring whichever of the
// two already contains the other
func Join(a, b Type) Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case IsSubtype(a, b):
		return b
	case IsSubtype(b, a):
		return a
	}
	if Is(a, KindNull) {
		return Nullable{Inner: b}
	}
	if Is(b, KindNull) {
		return Nullable{Inner: a}
	}
	return NewUnion(a, b)
}
