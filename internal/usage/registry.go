package usage

import "fmt"

// DuplicateCommand is returned when a command name is already taken in a shell mode.
func DuplicateCommand(mode, command string) *Error {
	return &Error{
		Kind:    ErrDuplicateCommand,
		Message: fmt.Sprintf("%s: command '%s' is already registered", mode, command),
	}
}

// ProtectedCommand is returned when trying to remove a built-in command.
func ProtectedCommand(mode, command string) *Error {
	return &Error{
		Kind:    ErrProtectedCommand,
		Message: fmt.Sprintf("%s: command '%s' is built in and cannot be removed", mode, command),
	}
}

// NotFound is returned when removing a command that is not registered.
func NotFound(mode, command string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s: command '%s' is not registered", mode, command),
	}
}
