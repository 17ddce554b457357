package circular

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterators(t *testing.T) {
	q := WithCapacity[int](3)
	for i := 1; i <= 4; i++ {
		q.Push(i)
	}

	assert.Equal(t, []int{4, 3, 2}, slices.Collect(q.All()))
	assert.Equal(t, []int{2, 3, 4}, slices.Collect(q.Ascending()))
	assert.Equal(t, []int{4, 3, 2}, deref(q.AllMut()))
	assert.Equal(t, []int{2, 3, 4}, deref(q.AscendingMut()))
}

func TestOrderDuality(t *testing.T) {
	for capacity := 1; capacity <= 4; capacity++ {
		q := WithCapacity[int](capacity)
		for i := range 10 {
			q.Push(i)
			reversed := slices.Collect(q.All())
			slices.Reverse(reversed)
			assert.Equal(t, reversed, slices.Collect(q.Ascending()))
		}
	}
}

func TestIteratorsRestart(t *testing.T) {
	q := WithCapacity[int](2)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	all := q.All()
	assert.Equal(t, []int{3, 2}, slices.Collect(all))
	assert.Equal(t, []int{3, 2}, slices.Collect(all))
}

func TestIteratorsBreak(t *testing.T) {
	q := WithCapacity[int](5)
	for i := range 7 {
		q.Push(i)
	}

	var got []int
	for v := range q.All() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{6, 5}, got)

	got = got[:0]
	for v := range q.Ascending() {
		got = append(got, v)
		if len(got) == 4 {
			break
		}
	}
	assert.Equal(t, []int{2, 3, 4, 5}, got)

	// views are released after break
	assert.NotPanics(t, func() { q.Push(7) })
}

func TestMutableIterators(t *testing.T) {
	q := WithCapacity[int](5)
	for i := 1; i <= 7; i++ {
		q.Push(i)
	}

	for v := range q.AllMut() {
		*v *= 2
	}
	assert.Equal(t, []int{14, 12, 10, 8, 6}, slices.Collect(q.All()))

	i := 0
	for v := range q.AscendingMut() {
		*v += i
		i++
	}
	assert.Equal(t, []int{6, 9, 12, 15, 18}, slices.Collect(q.Ascending()))
}

func TestSharedViews(t *testing.T) {
	q := WithCapacity[int](3)
	for i := range 3 {
		q.Push(i)
	}

	var pairs [][2]int
	for a := range q.All() {
		for b := range q.Ascending() {
			pairs = append(pairs, [2]int{a, b})
		}
	}
	assert.Len(t, pairs, 9)
}

func TestExclusiveViews(t *testing.T) {
	q := WithCapacity[int](3)
	for i := range 3 {
		q.Push(i)
	}

	assert.PanicsWithValue(t, "circular: queue modified during iteration", func() {
		for range q.All() {
			q.Push(10)
		}
	})
	assert.PanicsWithValue(t, "circular: queue modified during iteration", func() {
		for range q.AscendingMut() {
			q.Clear()
		}
	})
	assert.PanicsWithValue(t, "circular: mutable iteration overlaps another iteration", func() {
		for range q.Ascending() {
			for range q.AllMut() {
			}
		}
	})
	assert.PanicsWithValue(t, "circular: read iteration during mutable iteration", func() {
		for range q.AllMut() {
			for range q.All() {
			}
		}
	})

	// a panicking loop body still releases its view
	assert.NotPanics(t, func() { q.Push(3) })
	assert.Equal(t, []int{3, 2, 1}, slices.Collect(q.All()))
}

func TestEqual(t *testing.T) {
	q1 := WithCapacity[int](5)
	q2 := WithCapacity[int](5)
	assert.True(t, Equal(q1, q2))
	assert.True(t, Equal(q1, WithCapacity[int](6)), "capacity does not matter")

	pushAll(q1, 1, 2, 3)
	pushAll(q2, 1, 2)
	assert.False(t, Equal(q1, q2))
	q2.Push(3)
	assert.True(t, Equal(q1, q2))
	q2.Push(4)
	assert.False(t, Equal(q1, q2))
}

func TestEqualOverFull(t *testing.T) {
	q1 := WithCapacity[int](5)
	q2 := WithCapacity[int](5)
	pushAll(q1, 1, 2, 3, 4, 5, 6, 7)
	pushAll(q2, 1, 2, 3, 4, 5, 6)
	assert.False(t, Equal(q1, q2))

	q2.Push(7)
	assert.True(t, Equal(q1, q2))

	q2.Push(8)
	assert.False(t, Equal(q1, q2))

	pushAll(q2, 3, 4, 5, 6, 7)
	assert.True(t, Equal(q1, q2))
}

func TestEqualDifferentLayouts(t *testing.T) {
	wrapped := WithCapacity[int](3)
	pushAll(wrapped, 0, 1, 2, 3, 4)

	filling := WithCapacity[int](10)
	pushAll(filling, 2, 3, 4)

	assert.True(t, Equal(wrapped, filling))
	assert.True(t, Equal(filling, wrapped))
}

func TestEqualAfterClear(t *testing.T) {
	q1 := WithCapacity[int](5)
	pushAll(q1, 1, 2, 3, 4, 5, 6, 7)
	q1.Clear()

	q2 := WithCapacity[int](5)
	assert.True(t, Equal(q1, q2))

	q2.Push(1)
	q2.Clear()
	assert.True(t, Equal(q1, q2))
}

func TestEqualFunc(t *testing.T) {
	nums := WithCapacity[int](2)
	pushAll(nums, 1, 2, 3)

	strs := WithCapacity[string](4)
	strs.Push("2")
	strs.Push("3")

	assert.True(t, EqualFunc(nums, strs, func(n int, s string) bool {
		return string(rune('0'+n)) == s
	}))
}

func pushAll[T any](q *Queue[T], values ...T) {
	for _, v := range values {
		q.Push(v)
	}
}

func deref[T any](seq iter.Seq[*T]) []T {
	var res []T
	for p := range seq {
		res = append(res, *p)
	}
	return res
}
