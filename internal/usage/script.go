package usage

import "fmt"

// ScriptSyntax is returned when a script line is structurally invalid.
func ScriptSyntax(script string, line int, reason string) *Error {
	return &Error{
		Kind:    ErrScriptSyntax,
		Message: fmt.Sprintf("%s:%d: %s", script, line, reason),
		Line:    line,
	}
}

// ScriptFailed is returned when a script aborts while executing a line.
func ScriptFailed(script string, line int, cause error) *Error {
	return &Error{
		Kind:    ErrScriptFailed,
		Message: fmt.Sprintf("%s:%d: %v", script, line, cause),
		Line:    line,
		Err:     cause,
	}
}
