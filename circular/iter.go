package circular

import "iter"

// All returns an iterator over the elements from the newest to the oldest.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		q.views.share()
		defer q.views.unshare()

		lo, hi := q.split()
		for i := len(lo) - 1; i >= 0; i-- {
			if !yield(lo[i]) {
				return
			}
		}
		for i := len(hi) - 1; i >= 0; i-- {
			if !yield(hi[i]) {
				return
			}
		}
	}
}

// AllMut is like All but yields pointers into the queue storage, so the
// loop body may modify elements in place. No other iteration, push or clear
// is allowed while it runs.
func (q *Queue[T]) AllMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		q.views.acquire()
		defer q.views.release()

		lo, hi := q.split()
		for i := len(lo) - 1; i >= 0; i-- {
			if !yield(&lo[i]) {
				return
			}
		}
		for i := len(hi) - 1; i >= 0; i-- {
			if !yield(&hi[i]) {
				return
			}
		}
	}
}

// Ascending returns an iterator over the elements from the oldest to the newest.
func (q *Queue[T]) Ascending() iter.Seq[T] {
	return func(yield func(T) bool) {
		q.views.share()
		defer q.views.unshare()

		lo, hi := q.split()
		for _, v := range hi {
			if !yield(v) {
				return
			}
		}
		for _, v := range lo {
			if !yield(v) {
				return
			}
		}
	}
}

// AscendingMut is the oldest-to-newest counterpart of AllMut.
func (q *Queue[T]) AscendingMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		q.views.acquire()
		defer q.views.release()

		lo, hi := q.split()
		for i := range hi {
			if !yield(&hi[i]) {
				return
			}
		}
		for i := range lo {
			if !yield(&lo[i]) {
				return
			}
		}
	}
}

// split cuts the storage at the write cursor. lo holds the newest elements,
// hi the oldest ones; hi is empty until the queue wraps.
func (q *Queue[T]) split() (lo, hi []T) {
	return q.data[:q.cursor], q.data[q.cursor:]
}

// views tracks the iterators running over a queue. Shared views may overlap,
// an exclusive one may not overlap with anything, and mutation needs no views.
type views struct {
	shared    int
	exclusive bool
}

func (v *views) share() {
	if v.exclusive {
		panic("circular: read iteration during mutable iteration")
	}
	v.shared++
}

func (v *views) unshare() {
	v.shared--
}

func (v *views) acquire() {
	if v.exclusive || v.shared > 0 {
		panic("circular: mutable iteration overlaps another iteration")
	}
	v.exclusive = true
}

func (v *views) release() {
	v.exclusive = false
}

func (v *views) mutate() {
	if v.exclusive || v.shared > 0 {
		panic("circular: queue modified during iteration")
	}
}
