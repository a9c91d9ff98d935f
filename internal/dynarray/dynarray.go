// Package dynarray provides a growable, index-addressable sequence that callers
// keep sorted themselves by inserting at the index a binary search reports.
package dynarray

import (
	"fmt"
	"slices"
)

type Array[T any] struct {
	items []T
}

// New returns an empty Array with room for capacity items.
func New[T any](capacity int) *Array[T] {
	return &Array[T]{items: make([]T, 0, max(capacity, 0))}
}

func (a *Array[T]) Len() int {
	return len(a.items)
}

// Get returns the item at index i. It panics if i is out of range.
func (a *Array[T]) Get(i int) T {
	return a.items[i]
}

// Set replaces the item at index i and returns the previous one.
func (a *Array[T]) Set(i int, v T) T {
	old := a.items[i]
	a.items[i] = v
	return old
}

// InsertAt inserts v at index i, shifting later items up.
// i may equal Len() to append.
func (a *Array[T]) InsertAt(i int, v T) error {
	if i < 0 || i > len(a.items) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(a.items))
	}
	a.items = slices.Insert(a.items, i, v)
	return nil
}

// RemoveAt removes and returns the item at index i.
func (a *Array[T]) RemoveAt(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(a.items) {
		return zero, fmt.Errorf("remove index %d out of range [0,%d)", i, len(a.items))
	}
	v := a.items[i]
	a.items = slices.Delete(a.items, i, i+1)
	return v, nil
}

// Search binary searches a sorted Array. cmp reports how an item compares to
// the sought key (<0 item sorts before the key). When the key is absent the
// returned index is where it would be inserted.
func (a *Array[T]) Search(cmp func(item T) int) (int, bool) {
	return slices.BinarySearchFunc(a.items, struct{}{}, func(item T, _ struct{}) int {
		return cmp(item)
	})
}

// Map calls fn for every item in order.
func (a *Array[T]) Map(fn func(i int, item T)) {
	for i, item := range a.items {
		fn(i, item)
	}
}

// Items returns a copy of the underlying items.
func (a *Array[T]) Items() []T {
	return slices.Clone(a.items)
}
