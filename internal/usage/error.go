package usage

import "strings"

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrCommandNotFound
	ErrArgumentMismatch
	ErrInvalidSwitch
	ErrUnbalancedQuotes
	ErrDuplicateCommand
	ErrProtectedCommand
	ErrNotFound
	ErrScriptSyntax
	ErrScriptFailed
	ErrHandlerFailure
	ErrUnknownShell
	ErrBootArgument
	ErrInvalidConfigKey
	ErrAddonManifest
)

// Exit codes shared by the executor, the script interpreter and the process.
const (
	ExitSuccess        = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitHandlerFailure = 3
	ExitScriptFailure  = 4
	ExitNotFound       = 127
	ExitInterrupted    = 130
)

// Exit codes:
//
//	Exit 1: environment and registry errors
//	Exit 2: user input errors (arguments, switches, quoting, boot arguments)
//	Exit 3: a command handler failed or panicked
//	Exit 4: a script failed to lint or aborted
//	Exit 127: command or shell not found
var exitCodes = map[ErrorKind]int{
	ErrUnknown:          ExitFailure,
	ErrCommandNotFound:  ExitNotFound,
	ErrArgumentMismatch: ExitUsage,
	ErrInvalidSwitch:    ExitUsage,
	ErrUnbalancedQuotes: ExitUsage,
	ErrDuplicateCommand: ExitFailure,
	ErrProtectedCommand: ExitFailure,
	ErrNotFound:         ExitFailure,
	ErrScriptSyntax:     ExitScriptFailure,
	ErrScriptFailed:     ExitScriptFailure,
	ErrHandlerFailure:   ExitHandlerFailure,
	ErrUnknownShell:     ExitNotFound,
	ErrBootArgument:     ExitUsage,
	ErrInvalidConfigKey: ExitFailure,
	ErrAddonManifest:    ExitFailure,
}

// Error represents a user-facing usage error with semantic type information.
type Error struct {
	Kind     ErrorKind
	Message  string
	ExitCode int // computed from Kind if zero

	// Suggestions holds close matches for unknown names.
	Suggestions []string
	// Usages holds one rendered usage line per attempted argument set.
	Usages []string
	// Line is the 1-based script line the error refers to, or zero.
	Line int
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nThe most similar commands are:\n")
		for _, s := range e.Suggestions {
			b.WriteString("    ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	if len(e.Usages) > 0 {
		b.WriteString("\n\nUsage:\n")
		for _, u := range e.Usages {
			b.WriteString("    ")
			b.WriteString(u)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a usage error of the same kind.
// A Kind value can be used as a target: errors.Is(err, usage.Kind(usage.ErrNotFound)).
// An invalid switch also matches ErrArgumentMismatch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	sameKind := t.Kind == e.Kind || (e.Kind == ErrInvalidSwitch && t.Kind == ErrArgumentMismatch)
	return sameKind && (t.Message == "" || t.Message == e.Message)
}

// GetExitCode returns the appropriate exit code for this error.
// If ExitCode is explicitly set, it is returned; otherwise, the code is derived from Kind.
func (e *Error) GetExitCode() int {
	if e.ExitCode != 0 {
		return e.ExitCode
	}
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return ExitFailure
}

// Kind returns a message-less error usable as an errors.Is target.
func Kind(k ErrorKind) *Error {
	return &Error{Kind: k}
}

// ExitCodeOf returns the exit code for any error: usage errors map through
// their kind, other non-nil errors map to ExitFailure.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue *Error
	if As(err, &ue) {
		return ue.GetExitCode()
	}
	return ExitFailure
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
