package steps

import (
	"fmt"
	"iter"

	"github.com/YaLTeR/circular-queue/circular"
	"github.com/YaLTeR/circular-queue/pipeline"
)

type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "oldest", "asc":
		return OldestFirst, nil
	case "newest", "desc":
		return NewestFirst, nil
	default:
		return 0, fmt.Errorf("unknown order %q, expected oldest or newest", s)
	}
}

func (o Order) String() string {
	if o == NewestFirst {
		return "newest"
	}
	return "oldest"
}

// Entry is a line kept in the history together with where it came from.
type Entry struct {
	Line   string `json:"line" yaml:"line"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	RecNum int    `json:"rnum" yaml:"rnum"`
}

// History keeps the most recent lines of a stream. Every line reaching the
// step is pushed into the queue; once the input ends the retained lines are
// emitted in the configured order.
type History struct {
	queue   *circular.Queue[Entry]
	order   Order
	Pushed  int
	Evicted int
}

func NewHistory(queue *circular.Queue[Entry], order Order) *History {
	return &History{
		queue: queue,
		order: order,
	}
}

func (h *History) Queue() *circular.Queue[Entry] {
	return h.queue
}

func (h *History) Step(opts pipeline.Options) pipeline.Step[string, string] {
	return pipeline.NewStepWithFin(
		opts,
		func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
			h.Push(line)
			return true
		},
		func(yield pipeline.Yield[string]) {
			for e := range h.Entries() {
				if !yield(pipeline.NewItem(e.Line, e.RecNum, e.File), nil) {
					return
				}
			}
		},
	)
}

func (h *History) Push(line pipeline.Item[string]) {
	h.Pushed++
	_, evicted := h.queue.Push(Entry{
		Line:   line.Value,
		File:   line.Metadata.FileName,
		RecNum: line.Metadata.RecNum,
	})
	if evicted {
		h.Evicted++
	}
}

func (h *History) Entries() iter.Seq[Entry] {
	if h.order == NewestFirst {
		return h.queue.All()
	}
	return h.queue.Ascending()
}
