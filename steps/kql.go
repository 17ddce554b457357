package steps

import (
	"fmt"

	"github.com/YaLTeR/circular-queue/pipeline"
	"github.com/vladimir-rom/gokql"
)

func FilterByKQL(opts pipeline.Options, filter string) (pipeline.Step[string, string], error) {
	if len(filter) == 0 {
		return Noop[string](), nil
	}

	expression, err := gokql.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("filter parsing error: %w", err)
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

		evaluator, err := gokql.NewMapEvaluator(map[string]any(obj))
		if err != nil {
			return yield(line, err)
		}
		matched, err := expression.Match(evaluator)
		if err != nil {
			return yield(line, err)
		}
		line.Metadata.Removed = !matched
		return yield(line, nil)
	}), nil
}
