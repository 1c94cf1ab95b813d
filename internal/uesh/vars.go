package uesh

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Lookup resolves variable names.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// Variables is the variable table of one script run. $0 is the script name,
// $1..$n the arguments and $# their count.
type Variables struct {
	mu     sync.RWMutex
	values map[string]string
	script string
	args   []string
}

// NewVariables creates an empty table for a run of script with args.
func NewVariables(script string, args []string) *Variables {
	return &Variables{
		values: make(map[string]string),
		script: script,
		args:   append([]string(nil), args...),
	}
}

// Set assigns a variable.
func (v *Variables) Set(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[name] = value
}

// Lookup returns the value of a named or positional variable.
func (v *Variables) Lookup(name string) (string, bool) {
	switch {
	case name == "#":
		return strconv.Itoa(len(v.args)), true
	case name == "0":
		return v.script, true
	case isDigits(name):
		n, err := strconv.Atoi(name)
		if err != nil || n < 1 || n > len(v.args) {
			return "", false
		}
		return v.args[n-1], true
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.values[name]
	return val, ok
}

// Names returns the assigned variable names, sorted.
func (v *Variables) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every assigned variable.
func (v *Variables) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.values)
}

// Expand substitutes $name, ${name}, $0..$n and $# in text. \$ yields a
// literal dollar. References to undefined variables are left as written and
// reported through unresolved.
func (v *Variables) Expand(text string) (expanded string, unresolved bool) {
	if !strings.ContainsRune(text, '$') {
		return text, false
	}

	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '\\' && i+1 < len(text) && text[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		if c != '$' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}

		name, width := scanName(text[i+1:])
		if name == "" {
			b.WriteByte(c)
			continue
		}

		if val, ok := v.Lookup(name); ok {
			b.WriteString(val)
		} else {
			b.WriteString(text[i : i+1+width])
			unresolved = true
		}
		i += width
	}
	return b.String(), unresolved
}

// scanName reads a variable reference following a '$' and returns the name
// and the number of bytes it spans.
func scanName(s string) (string, int) {
	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end <= 1 {
			return "", 0
		}
		name := s[1:end]
		if name != "#" && !isDigits(name) && !ValidName(name) {
			return "", 0
		}
		return name, end + 1
	}

	if s[0] == '#' {
		return "#", 1
	}
	if isDigit(s[0]) {
		return s[:1], 1
	}

	n := 0
	for n < len(s) && (isDigit(s[n]) || s[n] == '_' || isLetter(s[n])) {
		if n == 0 && isDigit(s[n]) {
			break
		}
		n++
	}
	if n == 0 {
		return "", 0
	}
	return s[:n], n
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
