package usage

import "fmt"

// HandlerFailure wraps an error or panic raised by a command handler.
func HandlerFailure(command string, cause error) *Error {
	return &Error{
		Kind:    ErrHandlerFailure,
		Message: fmt.Sprintf("%s: %v", command, cause),
		Err:     cause,
	}
}
