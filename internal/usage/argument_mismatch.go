package usage

import "fmt"

// ArgumentMismatch is returned when no argument set of a command accepts the given arguments.
// usages holds the rendered usage line of every attempted argument set.
func ArgumentMismatch(command, reason string, usages ...string) *Error {
	return &Error{
		Kind:    ErrArgumentMismatch,
		Message: fmt.Sprintf("%s: %s", command, reason),
		Usages:  usages,
	}
}
