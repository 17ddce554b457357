package steps

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/YaLTeR/circular-queue/pipeline"
	"github.com/charlievieth/strcase"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const maxLineSize = 1024 * 1024

func Noop[V any]() pipeline.Step[V, V] {
	return func(in pipeline.Seq[V]) pipeline.Seq[V] {
		return in
	}
}

// Include keeps only the lines containing any of the substrings, ignoring case.
func Include(opts pipeline.Options, substrings []string) pipeline.Step[string, string] {
	if len(substrings) == 0 {
		return Noop[string]()
	}

	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		if !line.Metadata.Removed {
			line.Metadata.Removed = !containsAny(line.Value, substrings)
		}
		return yield(line, nil)
	})
}

// Exclude drops the lines containing any of the substrings, ignoring case.
func Exclude(opts pipeline.Options, substrings []string) pipeline.Step[string, string] {
	if len(substrings) == 0 {
		return Noop[string]()
	}

	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		if !line.Metadata.Removed {
			line.Metadata.Removed = containsAny(line.Value, substrings)
		}
		return yield(line, nil)
	})
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strcase.Contains(s, sub) {
			return true
		}
	}
	return false
}

func First(opts pipeline.Options, count int) pipeline.Step[string, string] {
	if count <= 0 {
		return Noop[string]()
	}

	returned := 0
	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		returned++
		if returned > count {
			return false
		}
		return yield(line, nil)
	})
}

func OpenFile(fileName string) (close func() error, reader io.Reader, err error) {
	raw, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}

	return raw.Close, transform.NewReader(raw, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
}

// ReadLines numbers the lines of r starting from zero.
func ReadLines(r io.Reader, fileName string) pipeline.Seq[string] {
	return func(yield func(pipeline.Item[string], error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

		recNum := 0
		for scanner.Scan() {
			if !yield(pipeline.NewItem(scanner.Text(), recNum, fileName), nil) {
				return
			}
			recNum++
		}
		if err := scanner.Err(); err != nil {
			yield(pipeline.Item[string]{}, fmt.Errorf("reading %s: %w", fileName, err))
		}
	}
}

func WriteLines(w io.Writer, showErrors bool, highlight func(string) string, lines pipeline.Seq[string]) error {
	for line, err := range lines {
		if err != nil {
			if !showErrors {
				continue
			}
			if _, err := fmt.Fprintln(w, err); err != nil {
				return err
			}
			continue
		}

		if line.Metadata.Removed {
			continue
		}
		if _, err := fmt.Fprintln(w, highlight(line.Value)); err != nil {
			return err
		}
	}

	return nil
}
