package template

import (
	"fmt"
	"strings"
)

// RenderString replaces ${name} placeholders with vars values. A "$" that
// does not open a placeholder is copied as is.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}")
		if end == -1 {
			return "", fmt.Errorf("template: unclosed expression in %q", input)
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", fmt.Errorf("template: empty expression in %q", input)
		}

		value, ok := vars[key]
		if !ok {
			return "", fmt.Errorf("template: missing variable %q", key)
		}

		out.WriteString(value)
		rest = rest[end+1:]
	}
}
