package kinds

// Monoid is an associative combine operation with an identity element. It is
// what MapJoin folds with.
type Monoid[R any] struct {
	Identity R
	Combine  func(R, R) R
}

// Concatenation joins strings in order.
func Concatenation() Monoid[string] {
	return Monoid[string]{
		Identity: "",
		Combine: func(a, b string) string {
			return a + b
		},
	}
}

// Maximum keeps the larger of two ints. The identity is zero, which suits
// lengths and widths.
func Maximum() Monoid[int] {
	return Monoid[int]{
		Identity: 0,
		Combine: func(a, b int) int {
			return max(a, b)
		},
	}
}

// Appending concatenates slices in order.
func Appending[E any]() Monoid[[]E] {
	return Monoid[[]E]{
		Identity: nil,
		Combine: func(a, b []E) []E {
			out := make([]E, 0, len(a)+len(b))
			out = append(out, a...)

			return append(out, b...)
		},
	}
}
