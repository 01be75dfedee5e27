package output

import "slices"

// Collection is an ordered, per-event list of output records.
//
// Pointers returned by CreateBack and At stay valid until the next append or
// Reset. Sort permutes contents in place, so pointers taken before a Sort
// refer to whatever record lands at that position afterwards.
type Collection[T any] struct {
	items []T
}

// CreateBack appends v and returns a pointer to the stored copy.
func (c *Collection[T]) CreateBack(v T) *T {
	c.items = append(c.items, v)
	return &c.items[len(c.items)-1]
}

// Len returns the number of records.
func (c *Collection[T]) Len() int { return len(c.items) }

// At returns a pointer to the i-th record.
func (c *Collection[T]) At(i int) *T { return &c.items[i] }

// Items returns the backing slice.
func (c *Collection[T]) Items() []T { return c.items }

// Reset empties the collection, keeping capacity.
func (c *Collection[T]) Reset() {
	clear(c.items)
	c.items = c.items[:0]
}

// Sort stably reorders the records so that less(a, b) records precede b, and
// returns originalIndices where originalIndices[i] is the pre-sort position of
// the record now at position i. Equal records keep their relative order.
func (c *Collection[T]) Sort(less func(a, b *T) bool) []int {
	n := len(c.items)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case less(&c.items[a], &c.items[b]):
			return -1
		case less(&c.items[b], &c.items[a]):
			return 1
		}
		return 0
	})

	sorted := make([]T, n)
	for i, j := range idx {
		sorted[i] = c.items[j]
	}
	copy(c.items, sorted)
	return idx
}
