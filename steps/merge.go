package steps

import (
	"fmt"
	"slices"

	"github.com/YaLTeR/circular-queue/pipeline"
)

// Concat reads the inputs one after another.
func Concat(in []pipeline.Seq[string]) pipeline.Seq[string] {
	if len(in) == 1 {
		return in[0]
	}

	return func(yield func(pipeline.Item[string], error) bool) {
		for _, input := range in {
			for item, err := range input {
				if !yield(item, err) {
					return
				}
			}
		}
	}
}

// Merge interleaves the inputs ordered by the first of properties present in
// each JSON line, assuming every input is already ordered that way. Lines
// without the property sort first; read errors are dropped.
func Merge(properties []string, in []pipeline.Seq[string]) pipeline.Seq[string] {
	if len(in) == 1 {
		return in[0]
	}

	return func(yield func(pipeline.Item[string], error) bool) {
		out := make([]chan keyedLine, len(in))
		cancels := make([]chan struct{}, len(in))
		defer func() {
			for _, c := range cancels {
				close(c)
			}
		}()

		for i, input := range in {
			out[i] = make(chan keyedLine, 1000)
			cancels[i] = make(chan struct{})
			go func() {
				defer close(out[i])
				for item, err := range input {
					select {
					case <-cancels[i]:
						return
					case out[i] <- keyedLine{item: item, err: err, propertyNames: properties}:
					}
				}
			}()
		}

		iterators := make([]*lineChanIterator, len(in))
		for i := range iterators {
			iterators[i] = &lineChanIterator{ch: out[i]}
		}

		for line := range merge(iterators, func(i, j *keyedLine) bool {
			return less(i.key(), j.key())
		}) {
			if !yield(line.item, nil) {
				return
			}
		}
	}
}

type keyedLine struct {
	item           pipeline.Item[string]
	err            error
	propertyNames  []string
	propertyValue  any
	keyInitialized bool
}

func (l *keyedLine) key() any {
	if l.keyInitialized {
		return l.propertyValue
	}
	l.keyInitialized = true

	obj, ok := parseObject(l.item.Value)
	if !ok {
		return nil
	}
	for _, p := range l.propertyNames {
		if v, ok := obj[p]; ok {
			l.propertyValue = v
			break
		}
	}
	return l.propertyValue
}

type lineChanIterator struct {
	value keyedLine
	ch    <-chan keyedLine
}

func (i *lineChanIterator) Next() bool {
	for r := range i.ch {
		if r.err == nil {
			i.value = r
			return true
		}
	}
	return false
}

func merge(iterators []*lineChanIterator, less func(i, k *keyedLine) bool) func(yield func(line *keyedLine) bool) {
	return func(yield func(line *keyedLine) bool) {
		its := make([]*lineChanIterator, 0, len(iterators))
		for _, it := range iterators {
			if it.Next() {
				its = append(its, it)
			}
		}

		for len(its) > 0 {
			minIndex := 0
			for i := 1; i < len(its); i++ {
				if less(&its[i].value, &its[minIndex].value) {
					minIndex = i
				}
			}

			if !yield(&its[minIndex].value) {
				return
			}

			if !its[minIndex].Next() {
				its = slices.Delete(its, minIndex, minIndex+1)
			}
		}
	}
}

func less(i, j any) bool {
	switch v := i.(type) {
	case nil:
		return j != nil
	case string:
		return lessString(v, j)
	case bool:
		return lessBool(v, j)
	case float64:
		return lessFloat64(v, j)
	default:
		return lessString(fmt.Sprint(i), fmt.Sprint(j))
	}
}

func lessString(i string, j any) bool {
	switch v := j.(type) {
	case nil:
		return false
	case string:
		return i < v
	default:
		return i < fmt.Sprint(j)
	}
}

func lessBool(i bool, j any) bool {
	switch v := j.(type) {
	case bool:
		return !i && v
	default:
		return !i && (len(fmt.Sprint(j)) > 0)
	}
}

func lessFloat64(i float64, j any) bool {
	switch v := j.(type) {
	case float64:
		return i < v
	default:
		return fmt.Sprint(i) < fmt.Sprint(j)
	}
}
