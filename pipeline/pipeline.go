package pipeline

import "iter"

type Options struct {
	// KeepRemoved passes removed records on to the following steps instead of
	// dropping them, so a context step can still see them.
	KeepRemoved bool
}

type Metadata struct {
	Removed  bool
	RecNum   int
	FileName string
}

type Item[Value any] struct {
	Value    Value
	Metadata Metadata
}

func (i Item[Value]) WithValue(value Value) Item[Value] {
	return Item[Value]{
		Value:    value,
		Metadata: i.Metadata,
	}
}

func NewItem[Value any](value Value, recNum int, fileName string) Item[Value] {
	return Item[Value]{
		Value:    value,
		Metadata: Metadata{RecNum: recNum, FileName: fileName},
	}
}

func ToItem[Value1, Value2 any](item Item[Value1], value Value2) Item[Value2] {
	return Item[Value2]{
		Value:    value,
		Metadata: item.Metadata,
	}
}

type (
	Yield[T any]      func(Item[T], error) bool
	Seq[T any]        iter.Seq2[Item[T], error]
	Step[In, Out any] func(Seq[In]) Seq[Out]
)

func NewStep[In, Out any](opts Options, sink func(item Item[In], yield Yield[Out]) bool) Step[In, Out] {
	return NewStepWithFin(opts, sink, nil)
}

// NewStepWithFin builds a step from a per-record sink and a finalizer which
// runs once the input is exhausted. Errors from upstream bypass the sink.
func NewStepWithFin[In, Out any](
	opts Options,
	sink func(item Item[In], yield Yield[Out]) bool,
	finalize func(yield Yield[Out])) Step[In, Out] {
	return func(in Seq[In]) Seq[Out] {
		return func(yield func(Item[Out], error) bool) {
			for v, err := range in {
				if err != nil {
					var def Item[Out]
					if !yield(def, err) {
						return
					}
					continue
				}
				if v.Metadata.Removed && !opts.KeepRemoved {
					continue
				}
				if !sink(v, yield) {
					return
				}
			}
			if finalize != nil {
				finalize(yield)
			}
		}
	}
}

func Chain[T any](steps ...Step[T, T]) Step[T, T] {
	if len(steps) == 0 {
		panic("pipeline: nothing to chain")
	}
	return func(in Seq[T]) Seq[T] {
		for _, step := range steps {
			in = step(in)
		}
		return in
	}
}

func FromSlice[T any](values []T) Seq[T] {
	return func(yield func(Item[T], error) bool) {
		for i, v := range values {
			if !yield(NewItem(v, i, ""), nil) {
				return
			}
		}
	}
}

func Collect[T any](in Seq[T]) ([]Item[T], error) {
	var res []Item[T]
	for item, err := range in {
		if err != nil {
			return res, err
		}
		res = append(res, item)
	}
	return res, nil
}
