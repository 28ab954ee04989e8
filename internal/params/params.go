// Package params checks tool call parameters.
package params

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the named parameter as a trimmed string. Absent, null and
// blank values yield "". JSON numbers are formatted without exponents,
// other scalars with fmt.
func String(values map[string]any, name string) string {
	raw, ok := values[name]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Missing returns the names, in the given order, whose values are blank.
func Missing(values map[string]any, names ...string) []string {
	var missing []string
	for _, name := range names {
		if String(values, name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
