package kinds

// NewPair returns the pair (first, second).
func NewPair[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{
		first:  first,
		second: second,
	}
}

// Pair is an ordered pair of values, the element type of a cross product.
type Pair[A any, B any] struct {
	first  A
	second B
}

func (p Pair[A, B]) First() A { //nolint:ireturn
	return p.first
}

func (p Pair[A, B]) Second() B { //nolint:ireturn
	return p.second
}
