package uesh

import (
	"context"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
)

// ExecutorTarget routes script lines through an executor in the mode of a
// shell context.
type ExecutorTarget struct {
	Executor *dispatchers.Executor
	Shell    dispatchers.Shell
	Streams  dispatchers.Streams
}

// Run implements Target.
func (t ExecutorTarget) Run(ctx context.Context, line string) dispatchers.Result {
	return t.Executor.Run(ctx, t.Shell, line, t.Streams)
}

// Check implements Target.
func (t ExecutorTarget) Check(line string) error {
	_, _, err := t.Executor.Prepare(t.Shell.Mode(), line)
	return err
}

var _ Target = ExecutorTarget{}
