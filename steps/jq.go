package steps

import (
	"encoding/json"
	"fmt"

	"github.com/YaLTeR/circular-queue/pipeline"
	"github.com/itchyny/gojq"
)

// FilterByJq runs a jq expression against JSON lines. Boolean results decide
// whether the line is kept, objects replace it and any other value is wrapped
// into {"item": value}. Lines that are not JSON objects never match.
func FilterByJq(opts pipeline.Options, filter string) (pipeline.Step[string, string], error) {
	if len(filter) == 0 {
		return Noop[string](), nil
	}

	expression, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("jq parsing error: %w", err)
	}

	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		if line.Metadata.Removed {
			return yield(line, nil)
		}

		obj, ok := parseObject(line.Value)
		if !ok {
			line.Metadata.Removed = true
			return yield(line, nil)
		}

		iter := expression.Run(map[string]any(obj))
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}

			var out pipeline.Item[string]
			var outErr error
			switch item := v.(type) {
			case error:
				outErr = item
			case bool:
				out = line
				out.Metadata.Removed = !item
			case map[string]any:
				out, outErr = marshalLine(line, item)
			default:
				out, outErr = marshalLine(line, JSON{"item": item})
			}

			if !yield(out, outErr) {
				return false
			}
		}

		return true
	}), nil
}

func marshalLine[V any](line pipeline.Item[string], v V) (pipeline.Item[string], error) {
	b, err := json.Marshal(v)
	if err != nil {
		return pipeline.Item[string]{}, err
	}
	return line.WithValue(string(b)), nil
}
