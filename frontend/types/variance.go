package types

// Variance says how a type parameter position relates the subtyping of
// its arguments to the subtyping of the enclosing type
type Variance struct {
	covariant, contravariant bool
}

var (
	Covariant     = Variance{covariant: true}
	Contravariant = Variance{contravariant: true}
	Invariant     = Variance{}
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	default:
		return "invariant"
	}
}

// relates checks sub against sup in a position of variance v.
// Arguments must already be alias-resolved.
func (v Variance) relates(sub, sup Type) bool {
	switch v {
	case Covariant:
		return isSubtype(sub, sup)
	case Contravariant:
		return isSubtype(sup, sub)
	default:
		return equalResolved(sub, sup)
	}
}

// CollectionVariance is the variance of the element (or map value) position
// when a collection of mutability subMutable is checked against one of
// mutability supMutable.
//
// A mutable collection can be written through any alias, so widening its
// element type is unsound: elements are covariant only when both sides are
// read-only.
func CollectionVariance(subMutable, supMutable bool) Variance {
	if subMutable || supMutable {
		return Invariant
	}
	return Covariant
}
