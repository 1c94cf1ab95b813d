package usage

import "fmt"

// InvalidSwitch is returned when no argument set of the command knows sw.
// It is an argument mismatch too: errors.Is matches ErrArgumentMismatch, and
// usages lists the attempted argument sets.
func InvalidSwitch(command, sw string, usages ...string) *Error {
	return &Error{
		Kind:    ErrInvalidSwitch,
		Message: fmt.Sprintf("%s: invalid switch '%s'", command, sw),
		Usages:  usages,
	}
}

// UnbalancedQuotes is returned when a command line has an unterminated double quote.
func UnbalancedQuotes(line string) *Error {
	return &Error{
		Kind:    ErrUnbalancedQuotes,
		Message: fmt.Sprintf("unbalanced quotes in '%s'", line),
	}
}
