package steps

import (
	"fmt"
	"strings"

	"github.com/YaLTeR/circular-queue/pipeline"
)

type metaConfig struct {
	rnumName string
	file     string
}

// AddMeta writes the record number and the file name into JSON lines under
// the names given by metaCfg, e.g. "rnum file:source". Other lines pass as is.
func AddMeta(opts pipeline.Options, metaCfg string) (pipeline.Step[string, string], error) {
	mc, err := parseMetaConfig(metaCfg)
	if err != nil {
		return nil, err
	}

	if len(mc.rnumName) == 0 && len(mc.file) == 0 {
		return Noop[string](), nil
	}

	return pipeline.NewStep(opts, func(line pipeline.Item[string], yield pipeline.Yield[string]) bool {
		obj, ok := parseObject(line.Value)
		if !ok {
			return yield(line, nil)
		}

		if len(mc.rnumName) != 0 {
			obj[mc.rnumName] = line.Metadata.RecNum
		}
		if len(mc.file) != 0 {
			obj[mc.file] = line.Metadata.FileName
		}

		return yield(marshalLine(line, obj))
	}), nil
}

func parseMetaConfig(metaCfg string) (*metaConfig, error) {
	result := &metaConfig{}
	for _, part := range strings.Fields(metaCfg) {
		name, val, found := strings.Cut(part, ":")
		if !found {
			val = name
		}

		switch name {
		case "rnum":
			result.rnumName = val
		case "file":
			result.file = val
		default:
			return nil, fmt.Errorf("unknown metadata field: %s", name)
		}
	}

	return result, nil
}
