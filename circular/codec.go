package circular

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

var ErrCapacityExceeded = errors.New("serialized values exceed the queue capacity")

// CapacityError is returned when decoding a queue whose stored values do not
// fit into its declared capacity.
type CapacityError struct {
	Count    int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d values do not fit into capacity %d", e.Count, e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// queueData is the encoded form of a queue. Values go from the oldest to the
// newest element.
type queueData[T any] struct {
	Capacity uint `json:"capacity" yaml:"capacity"`
	Values   []T  `json:"values" yaml:"values"`
}

// decodedData mirrors queueData with optional fields so that a record missing
// either of them is rejected instead of decoding as zero.
type decodedData[T any] struct {
	Capacity *uint `json:"capacity" yaml:"capacity"`
	Values   *[]T  `json:"values" yaml:"values"`
}

func (d decodedData[T]) required() (queueData[T], error) {
	if d.Capacity == nil {
		return queueData[T]{}, fmt.Errorf("missing field %q", "capacity")
	}
	if d.Values == nil {
		return queueData[T]{}, fmt.Errorf("missing field %q", "values")
	}
	return queueData[T]{Capacity: *d.Capacity, Values: *d.Values}, nil
}

func (q *Queue[T]) encoded() queueData[T] {
	values := make([]T, 0, q.Len())
	return queueData[T]{
		Capacity: uint(q.capacity),
		Values:   slices.AppendSeq(values, q.Ascending()),
	}
}

func (d queueData[T]) queue() (*Queue[T], error) {
	if d.Capacity > math.MaxInt {
		return nil, fmt.Errorf("capacity %d is out of range", d.Capacity)
	}
	if uint(len(d.Values)) > d.Capacity {
		return nil, &CapacityError{Count: len(d.Values), Capacity: int(d.Capacity)}
	}

	q := WithCapacity[T](int(d.Capacity))
	for _, v := range d.Values {
		q.Push(v)
	}
	return q, nil
}

func (q *Queue[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.encoded())
}

// UnmarshalJSON leaves q unchanged when b is null.
func (q *Queue[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var d decodedData[T]
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return q.assign(d)
}

func (q *Queue[T]) MarshalYAML() (any, error) {
	return q.encoded(), nil
}

func (q *Queue[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return nil
	}

	var d decodedData[T]
	if err := node.Decode(&d); err != nil {
		return err
	}
	return q.assign(d)
}

func (q *Queue[T]) assign(d decodedData[T]) error {
	data, err := d.required()
	if err != nil {
		return err
	}
	decoded, err := data.queue()
	if err != nil {
		return err
	}
	q.views.mutate()
	q.data, q.capacity, q.cursor = decoded.data, decoded.capacity, decoded.cursor
	return nil
}
