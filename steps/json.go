package steps

import (
	"encoding/json"
	"strings"
)

type JSON map[string]any

// parseObject decodes a line holding a single JSON object. Prefixes before
// the first brace, like timestamps added by log shippers, are skipped.
func parseObject(line string) (JSON, bool) {
	ind := strings.Index(line, "{")
	if ind < 0 {
		return nil, false
	}

	var res JSON
	if err := json.Unmarshal([]byte(line[ind:]), &res); err != nil {
		return nil, false
	}
	return res, true
}
