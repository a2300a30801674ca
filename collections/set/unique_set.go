package set

import (
	"fmt"
)

// EqualFn reports whether two elements are considered the same element of a set.
type EqualFn[T any] func(e1, e2 T) bool

// NewUniqueSet creates a new unique set using the given function to compare elements.
func NewUniqueSet[T any](equal EqualFn[T], elements ...T) *UniqueSet[T] {
	var set = UniqueSet[T]{
		equal: equal,
	}
	set.Insert(elements...)
	return &set
}

// A UniqueSet is a collection without duplicate entries, where duplicates are determined by an equality function
// rather than by ordering or hashing. Elements are kept in insertion order, but that order carries no meaning for
// set equality - see Equal.
//
// Membership tests are linear, so a UniqueSet should be used with a moderate number of elements only. Use
// NewUniqueSet to create an instance in order to ensure proper initialization.
type UniqueSet[T any] struct {
	set   []T
	equal EqualFn[T]
}

// Clone returns a shallow copy of this set.
func (s *UniqueSet[T]) Clone() *UniqueSet[T] {
	res := *s
	res.set = make([]T, len(s.set))
	copy(res.set, s.set)
	return &res
}

// String returns a string representation of this set in the standard go slice format.
func (s *UniqueSet[T]) String() string {
	return fmt.Sprint(s.set)
}

// Elements returns the elements of the set as a slice, in insertion order.
func (s *UniqueSet[T]) Elements() []T {
	cp := make([]T, len(s.set))
	copy(cp, s.set)
	return cp
}

// Insert inserts elements into the set. Elements already contained in the set are skipped. Returns the number of
// elements actually added.
func (s *UniqueSet[T]) Insert(elements ...T) int {
	added := 0
	for _, elem := range elements {
		if s.indexOf(elem) >= 0 {
			continue
		}
		s.set = append(s.set, elem)
		added++
	}
	return added
}

// Remove removes elements from the set. If an element is not in the set, the set remains unchanged.
func (s *UniqueSet[T]) Remove(elements ...T) {
	for _, elem := range elements {
		idx := s.indexOf(elem)
		if idx < 0 {
			continue
		}
		copy(s.set[idx:], s.set[idx+1:])
		var zero T
		s.set[len(s.set)-1] = zero
		s.set = s.set[:len(s.set)-1]
	}
}

// Contains returns true if the set contains the given element, false otherwise.
func (s *UniqueSet[T]) Contains(elem T) bool {
	return s.indexOf(elem) >= 0
}

// Size returns the number of elements in the set.
func (s *UniqueSet[T]) Size() int {
	return len(s.set)
}

// Clear removes all elements from the set.
func (s *UniqueSet[T]) Clear() {
	s.set = nil
}

// Equal returns true if both sets contain the same elements, regardless of insertion order.
func (s *UniqueSet[T]) Equal(other *UniqueSet[T]) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.set) != len(other.set) {
		return false
	}
	for _, elem := range s.set {
		if !other.Contains(elem) {
			return false
		}
	}
	return true
}

func (s *UniqueSet[T]) indexOf(elem T) int {
	for idx, e := range s.set {
		if s.equal(elem, e) {
			return idx
		}
	}
	return -1
}
