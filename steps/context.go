package steps

import (
	"github.com/YaLTeR/circular-queue/circular"
	"github.com/YaLTeR/circular-queue/pipeline"
)

// Context emits every kept line together with up to countBefore removed lines
// preceding it and countAfter removed lines following it. It has to run with
// opts.KeepRemoved, otherwise it only drops removed lines.
func Context(opts pipeline.Options, countBefore, countAfter int) pipeline.Step[string, string] {
	if !opts.KeepRemoved {
		return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
			if line.Metadata.Removed {
				return true
			}
			return yield(line, nil)
		})
	}

	before := circular.WithCapacity[pipeline.Item[string]](max(countBefore, 0))
	remainedToWrite := 0
	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		if !line.Metadata.Removed {
			for item := range before.Ascending() {
				item.Metadata.Removed = false
				if !yield(item, nil) {
					return false
				}
			}
			before.Clear()

			remainedToWrite = countAfter
			return yield(line, nil)
		}

		if remainedToWrite > 0 {
			remainedToWrite--
			line.Metadata.Removed = false
			return yield(line, nil)
		}

		before.Push(line)
		return true
	})
}
