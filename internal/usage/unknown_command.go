package usage

import "fmt"

// CommandNotFound is returned when a command does not exist in the active shell mode.
func CommandNotFound(mode, command string, suggestions ...string) *Error {
	return &Error{
		Kind:        ErrCommandNotFound,
		Message:     fmt.Sprintf("%s: '%s' is not a %s command. See 'help'.", mode, command, mode),
		Suggestions: suggestions,
	}
}

// UnknownShell is returned when a shell mode has no registered type.
func UnknownShell(mode string) *Error {
	return &Error{
		Kind:    ErrUnknownShell,
		Message: fmt.Sprintf("shell: unknown shell mode '%s'", mode),
	}
}
