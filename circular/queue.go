// Package circular implements a fixed-capacity queue that overwrites its
// oldest element once full.
//
// Two queues are equal when iterating them from the newest to the oldest
// element yields the same sequence. Capacity is not part of the comparison.
package circular

import "slices"

// Queue is a circular buffer-like queue. The zero value is a queue with zero
// capacity: every push is ignored and the queue stays empty.
//
// A Queue is not safe for concurrent use.
type Queue[T any] struct {
	data     []T
	capacity int
	cursor   int
	views    views
}

// WithCapacity returns an empty queue that holds at most capacity elements.
// It panics if capacity is negative.
func WithCapacity[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		panic("circular: negative capacity")
	}
	return &Queue[T]{
		data:     make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (q *Queue[T]) Len() int {
	return len(q.data)
}

func (q *Queue[T]) Cap() int {
	return q.capacity
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.data) == 0
}

// IsFull reports whether the next push overwrites an element. A zero-capacity
// queue is always both empty and full.
func (q *Queue[T]) IsFull() bool {
	return len(q.data) == q.capacity
}

// Clear removes all elements. The allocated storage is kept.
func (q *Queue[T]) Clear() {
	q.views.mutate()
	clear(q.data)
	q.data = q.data[:0]
	q.cursor = 0
}

// Push adds v as the newest element. When the queue is full the oldest
// element is overwritten and returned with evicted set to true.
func (q *Queue[T]) Push(v T) (old T, evicted bool) {
	q.views.mutate()
	if q.capacity == 0 {
		return old, false
	}

	if len(q.data) < q.capacity {
		q.data = append(q.data, v)
	} else {
		old, q.data[q.cursor] = q.data[q.cursor], v
		evicted = true
	}

	q.cursor = (q.cursor + 1) % q.capacity
	return old, evicted
}

// IntoSlice returns the elements ordered from the newest to the oldest. The
// storage is rotated in place and handed over to the caller, leaving q empty.
func (q *Queue[T]) IntoSlice() []T {
	q.views.mutate()
	data := q.data
	slices.Reverse(data[:q.cursor])
	slices.Reverse(data[q.cursor:])

	q.data = nil
	q.cursor = 0
	return data
}

// Clone returns a copy of q with the same capacity and element layout.
func (q *Queue[T]) Clone() *Queue[T] {
	data := make([]T, len(q.data), q.capacity)
	copy(data, q.data)
	return &Queue[T]{
		data:     data,
		capacity: q.capacity,
		cursor:   q.cursor,
	}
}

// Equal reports whether a and b hold the same elements in the same order.
func Equal[T comparable](a, b *Queue[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is like Equal but compares elements with eq.
func EqualFunc[T, U any](a *Queue[T], b *Queue[U], eq func(T, U) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		if !eq(a.newest(i), b.newest(i)) {
			return false
		}
	}
	return true
}

// newest returns the i-th element counting from the newest one. While the
// queue is filling cursor equals len, so one formula covers both states.
func (q *Queue[T]) newest(i int) T {
	n := len(q.data)
	return q.data[(q.cursor-1-i+n)%n]
}
