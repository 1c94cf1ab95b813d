package config

import "strings"

// Set replaces the value of key in lines, keeping any inline comment, or
// appends a new entry. The bool reports whether an existing entry was updated.
func Set(lines []string, key, value string) ([]string, bool) {
	value = quoteValue(value)

	for i, line := range lines {
		k, rest, ok := entry(line)
		if !ok || k != key {
			continue
		}

		if idx := inlineComment(rest); idx >= 0 {
			lines[i] = key + "=" + value + " " + strings.TrimSpace(rest[idx:])
		} else {
			lines[i] = key + "=" + value
		}
		return lines, true
	}

	lines = append(lines, key+"="+value)
	return lines, false
}

// Unset drops every entry for key. The bool reports whether one was removed.
func Unset(lines []string, key string) ([]string, bool) {
	var out []string
	removed := false

	for _, line := range lines {
		if k, _, ok := entry(line); ok && k == key {
			removed = true
			continue
		}
		out = append(out, line)
	}

	return out, removed
}

// entry splits a key=value line. Comments and blank lines are not entries.
func entry(line string) (key, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	key, rest, ok = strings.Cut(trimmed, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), rest, true
}

func inlineComment(rest string) int {
	inQuotes := false
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == '"':
			inQuotes = !inQuotes
		case rest[i] == '#' && !inQuotes && i > 0 && (rest[i-1] == ' ' || rest[i-1] == '\t'):
			return i
		}
	}
	return -1
}
