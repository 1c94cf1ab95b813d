package config

import (
	"fmt"
	"strings"
)

// Parse turns rc file lines into a key/value map. Blank lines and lines
// starting with '#' are skipped. A value wrapped in double quotes is
// unquoted, and a '#' preceded by whitespace outside quotes starts an
// inline comment. Later keys override earlier ones.
func Parse(lines []string) (map[string]string, error) {
	cfg := make(map[string]string)

	for i, line := range lines {
		if i == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value", i+1)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("config: line %d: empty key", i+1)
		}

		cfg[key] = parseValue(value)
	}

	return cfg, nil
}

func parseValue(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "\"") {
		if end := strings.Index(raw[1:], "\""); end >= 0 {
			return raw[1 : end+1]
		}
	}

	for i := 1; i < len(raw); i++ {
		if raw[i] == '#' && (raw[i-1] == ' ' || raw[i-1] == '\t') {
			return strings.TrimSpace(raw[:i])
		}
	}

	return raw
}

// quoteValue quotes values that would not survive Parse unchanged.
func quoteValue(value string) string {
	if value != strings.TrimSpace(value) || strings.ContainsAny(value, " \t#") {
		return "\"" + value + "\""
	}
	return value
}
