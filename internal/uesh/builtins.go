package uesh

import (
	"os"
	"strconv"
	"strings"
)

// Binary builds a condition written "<a> name <b>".
func Binary(name string, fn func(a, b string) bool) Condition {
	return predicate{name: name, position: 2, arity: 3, fn: func(_ Lookup, ops []string) (bool, error) {
		return fn(ops[0], ops[1]), nil
	}}
}

// Unary builds a condition written "name <operand>".
func Unary(name string, fn func(vars Lookup, operand string) (bool, error)) Condition {
	return predicate{name: name, position: 1, arity: 2, fn: func(vars Lookup, ops []string) (bool, error) {
		return fn(vars, ops[0])
	}}
}

// VariableUnary builds a unary condition whose operand names a variable.
// The operand reaches fn unexpanded, with any leading $ or ${...} removed.
func VariableUnary(name string, fn func(vars Lookup, variable string) (bool, error)) Condition {
	p := Unary(name, func(vars Lookup, operand string) (bool, error) {
		return fn(vars, variableName(operand))
	}).(predicate)
	p.raw = true
	return p
}

type predicate struct {
	name     string
	position int
	arity    int
	raw      bool
	fn       func(vars Lookup, operands []string) (bool, error)
}

func (p predicate) Name() string     { return p.name }
func (p predicate) Position() int    { return p.position }
func (p predicate) Arity() int       { return p.arity }
func (p predicate) Unexpanded() bool { return p.raw }

func (p predicate) Evaluate(vars Lookup, operands []string) (bool, error) {
	return p.fn(vars, operands)
}

// compare orders a and b numerically when both are numbers, otherwise as strings.
func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func statIs(dir bool) func(Lookup, string) (bool, error) {
	return func(_ Lookup, path string) (bool, error) {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return info.IsDir() == dir, nil
	}
}

func not(fn func(Lookup, string) (bool, error)) func(Lookup, string) (bool, error) {
	return func(vars Lookup, s string) (bool, error) {
		ok, err := fn(vars, s)
		return !ok, err
	}
}

func variableName(operand string) string {
	name := strings.TrimPrefix(operand, "$")
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		name = name[1 : len(name)-1]
	}
	return name
}

func defined(vars Lookup, name string) (bool, error) {
	_, ok := vars.Lookup(name)
	return ok, nil
}

func builtinConditions() []Condition {
	return []Condition{
		Binary("eq", func(a, b string) bool { return compare(a, b) == 0 }),
		Binary("neq", func(a, b string) bool { return compare(a, b) != 0 }),
		Binary("les", func(a, b string) bool { return compare(a, b) < 0 }),
		Binary("lesoreq", func(a, b string) bool { return compare(a, b) <= 0 }),
		Binary("gre", func(a, b string) bool { return compare(a, b) > 0 }),
		Binary("greoreq", func(a, b string) bool { return compare(a, b) >= 0 }),
		Binary("has", strings.Contains),
		Binary("hasno", func(a, b string) bool { return !strings.Contains(a, b) }),
		Unary("fileex", statIs(false)),
		Unary("filenex", not(statIs(false))),
		Unary("direx", statIs(true)),
		Unary("dirnex", not(statIs(true))),
		VariableUnary("sane", defined),
		VariableUnary("insane", not(defined)),
		predicate{name: "none", position: 1, arity: 1, fn: func(Lookup, []string) (bool, error) { return true, nil }},
	}
}
