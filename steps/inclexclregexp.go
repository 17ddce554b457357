package steps

import (
	"fmt"
	"regexp"

	"github.com/YaLTeR/circular-queue/pipeline"
)

func IncludeRegexp(opts pipeline.Options, regexps []string) (pipeline.Step[string, string], error) {
	return regexpStep(opts, regexps, false)
}

func ExcludeRegexp(opts pipeline.Options, regexps []string) (pipeline.Step[string, string], error) {
	return regexpStep(opts, regexps, true)
}

func regexpStep(opts pipeline.Options, regexps []string, exclude bool) (pipeline.Step[string, string], error) {
	if len(regexps) == 0 {
		return Noop[string](), nil
	}

	rs := make([]*regexp.Regexp, len(regexps))
	for i := range regexps {
		r, err := regexp.Compile(regexps[i])
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression %s: %w", regexps[i], err)
		}
		rs[i] = r
	}

	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		if line.Metadata.Removed {
			return yield(line, nil)
		}

		matched := false
		for _, r := range rs {
			if r.MatchString(line.Value) {
				matched = true
				break
			}
		}
		line.Metadata.Removed = matched == exclude
		return yield(line, nil)
	}), nil
}
