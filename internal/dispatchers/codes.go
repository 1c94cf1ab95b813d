package dispatchers

import "github.com/Aptivi/NitrocidKS-sub040/internal/usage"

// ResultCode is the integer a command returns to its shell.
// Handlers may return any other non-zero value for business-specific failures.
type ResultCode = int

const (
	CodeSuccess        ResultCode = usage.ExitSuccess
	CodeFailure        ResultCode = usage.ExitFailure
	CodeUsage          ResultCode = usage.ExitUsage
	CodeHandlerFailure ResultCode = usage.ExitHandlerFailure
	CodeScriptFailure  ResultCode = usage.ExitScriptFailure
	CodeNotFound       ResultCode = usage.ExitNotFound
	CodeInterrupted    ResultCode = usage.ExitInterrupted
)

// Result is the outcome of one command line.
type Result struct {
	Command string
	Code    ResultCode
	Err     error
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Code == CodeSuccess && r.Err == nil
}
