package kinds

import (
	"errors"
	"fmt"
	"iter"
)

// ErrDuplicate is returned when an element would appear twice in a Set.
var ErrDuplicate = errors.New("duplicate element")

// Set is an ordered collection of distinct elements. The order is the order
// the elements were supplied in and never changes; a Set is immutable once
// built. The zero value is an empty set.
type Set[T comparable] struct {
	items []T
	index map[T]int
}

// NewSet builds a set from items, preserving their order. Any repeated item
// is reported as ErrDuplicate.
func NewSet[T comparable](items ...T) (Set[T], error) {
	set := Set[T]{
		items: make([]T, 0, len(items)),
		index: make(map[T]int, len(items)),
	}

	var errs []error

	for _, item := range items {
		if _, found := set.index[item]; found {
			errs = append(errs, fmt.Errorf("%w: %v", ErrDuplicate, item))

			continue
		}

		set.index[item] = len(set.items)
		set.items = append(set.items, item)
	}

	if len(errs) > 0 {
		return Set[T]{}, errors.Join(errs...)
	}

	return set, nil
}

// MustSet is NewSet for package-level declarations. It panics on duplicates.
func MustSet[T comparable](items ...T) Set[T] {
	set, err := NewSet(items...)
	if err != nil {
		panic(err)
	}

	return set
}

// Len returns the number of elements.
func (s Set[T]) Len() int {
	return len(s.items)
}

// At returns the element at position i. It panics if i is out of range.
func (s Set[T]) At(i int) T { //nolint:ireturn
	return s.items[i]
}

// IndexOf returns the position of item, and false if it is not a member.
func (s Set[T]) IndexOf(item T) (int, bool) {
	idx, ok := s.index[item]

	return idx, ok
}

// Contains reports membership.
func (s Set[T]) Contains(item T) bool {
	_, ok := s.index[item]

	return ok
}

// All iterates over positions and elements in order.
func (s Set[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range s.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Values iterates over the elements in order.
func (s Set[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements in order.
func (s Set[T]) Slice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)

	return out
}

// Concat returns a followed by b. The two sets must not overlap.
func Concat[T comparable](a, b Set[T]) (Set[T], error) {
	items := make([]T, 0, a.Len()+b.Len())
	items = append(items, a.items...)
	items = append(items, b.items...)

	return NewSet(items...)
}

// Cross returns every pair (x, y) with x from a and y from b. Pairs are
// ordered row-major: all pairs of a's first element come first, each row in
// b's order. The result has a.Len()*b.Len() elements.
func Cross[A, B comparable](a Set[A], b Set[B]) Set[Pair[A, B]] {
	size := a.Len() * b.Len()
	set := Set[Pair[A, B]]{
		items: make([]Pair[A, B], 0, size),
		index: make(map[Pair[A, B]]int, size),
	}

	for _, x := range a.items {
		for _, y := range b.items {
			pair := NewPair(x, y)
			set.index[pair] = len(set.items)
			set.items = append(set.items, pair)
		}
	}

	return set
}

// MapJoin maps every element through fn and folds the results left to right
// with the monoid. An empty set yields the monoid's identity.
func MapJoin[T comparable, R any](s Set[T], monoid Monoid[R], fn func(T) R) R { //nolint:ireturn
	acc := monoid.Identity

	for _, item := range s.items {
		acc = monoid.Combine(acc, fn(item))
	}

	return acc
}
