package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits YAML documents.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatPrettyText emits one "path = value" line per leaf.
	OutputFormatPrettyText OutputFormat = "pretty"
)

func (f OutputFormat) valid() bool {
	switch f {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatPrettyText:
		return true
	default:
		return false
	}
}

func (f OutputFormat) contentType() string {
	switch f {
	case OutputFormatYAML:
		return "application/yaml"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

func (f OutputFormat) serialize(values map[string]any) ([]byte, error) {
	switch f {
	case OutputFormatYAML:
		out, err := yaml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("session: encode yaml: %w", err)
		}
		return out, nil
	case OutputFormatPrettyText:
		lines := flatten(values, "", nil)
		sort.Strings(lines)
		if len(lines) == 0 {
			return nil, nil
		}
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("session: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

func flatten(value any, prefix string, lines []string) []string {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			lines = flatten(child, joinPath(prefix, key), lines)
		}
	case []any:
		for i, child := range typed {
			lines = flatten(child, prefix+"["+strconv.Itoa(i)+"]", lines)
		}
	default:
		lines = append(lines, fmt.Sprintf("%s = %s", prefix, formatDefault(typed)))
	}
	return lines
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
