package dispatchers

import (
	"context"
	"io"
)

// Origin of a command descriptor.
const (
	OriginBuiltin = "builtin"
)

// Shell is the view of the active shell context that handlers receive.
type Shell interface {
	// ID returns the unique identifier of the shell context.
	ID() string

	// Mode returns the shell-mode identifier (e.g. "Shell", "SQL").
	Mode() string

	// Depth returns the position of the context on the shell stack (1 is the main shell).
	Depth() int

	// Bail asks the owning read loop to close the context at its next iteration.
	Bail()

	// Push opens a nested shell and blocks until it closes.
	Push(ctx context.Context, mode string, args []string) error
}

// Handler executes a command.
type Handler interface {
	Execute(ctx context.Context, inv *Invocation) (int, error)
}

// DumbHandler is implemented by handlers with a plain-output path used when
// output is redirected or not attached to a terminal.
type DumbHandler interface {
	Handler
	ExecuteDumb(ctx context.Context, inv *Invocation) (int, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, inv *Invocation) (int, error)

// Execute calls f(ctx, inv).
func (f HandlerFunc) Execute(ctx context.Context, inv *Invocation) (int, error) {
	return f(ctx, inv)
}

// Invocation carries everything a handler needs for one command execution.
type Invocation struct {
	Command *CommandDescriptor
	Parsed  *ParsedCommand
	Shell   Shell
	Stdout  io.Writer
	Stderr  io.Writer
	// Dumb is true when output is redirected or stdout is not a terminal.
	Dumb bool
}

// Args returns the positional arguments.
func (inv *Invocation) Args() []string {
	return inv.Parsed.Args
}

// Arg returns the positional argument at i, or "" when absent.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Parsed.Args) {
		return ""
	}
	return inv.Parsed.Args[i]
}

// Switches returns the parsed switches.
func (inv *Invocation) Switches() Switches {
	return inv.Parsed.Switches
}

// CommandDescriptor describes one command of a shell mode.
type CommandDescriptor struct {
	Name    string
	Mode    string
	Summary string

	// ArgumentSets are tried in declaration order; the first match wins.
	// No sets means any arguments are accepted.
	ArgumentSets []ArgumentSet

	Handler Handler

	SupportsRedirection bool
	Wrappable           bool
	StrictArguments     bool
	Hidden              bool
	Category            CommandCategory

	// Origin is OriginBuiltin or the name of the addon that registered the command.
	Origin string
}

// ArgumentSet is one accepted shape of a command's arguments.
type ArgumentSet struct {
	Parts    []ArgumentPart
	Switches []SwitchDescriptor
}

// ArgumentPart describes one positional argument.
type ArgumentPart struct {
	Name        string
	Description string
	Required    bool
	Numeric     bool
	// Choices restricts the argument to a fixed set of values when non-empty.
	Choices []string
}

// SwitchDescriptor describes a switch recognized by an argument set.
type SwitchDescriptor struct {
	Name          string
	Description   string
	AcceptsValue  bool
	ValueRequired bool
	Numeric       bool
	// OptionalizeLastRequired makes the last N required arguments optional
	// when this switch is present.
	OptionalizeLastRequired int
	ConflictsWith           []string
}
