package dispatchers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

const defaultSuggestionsCount = 3

// Streams are the output destinations of a command line.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
	// Interactive is true when Stdout is a terminal.
	Interactive bool
}

// Executor resolves command lines against a Registry and runs their handlers.
type Executor struct {
	registry *Registry
	parser   *Parser
	pager    func(string)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithParser sets the parser used for command lines.
func WithParser(p *Parser) ExecutorOption {
	return func(e *Executor) {
		e.parser = p
	}
}

// WithPager sets the function that displays output of wrappable commands.
func WithPager(fn func(string)) ExecutorOption {
	return func(e *Executor) {
		e.pager = fn
	}
}

// NewExecutor creates an Executor over reg.
func NewExecutor(reg *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: reg,
		parser:   NewParser(DefaultSwitchPrefix),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the executor resolves against.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Parser returns the executor's parser.
func (e *Executor) Parser() *Parser {
	return e.parser
}

// Prepare resolves the command of line in mode and parses its arguments.
// A blank line yields a nil command and no error.
func (e *Executor) Prepare(mode, line string) (*CommandDescriptor, *ParsedCommand, error) {
	name, err := CommandName(line)
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		return nil, nil, nil
	}

	d, err := e.resolve(mode, name)
	if err != nil {
		return nil, nil, err
	}

	pc, err := e.parser.Parse(d, line)
	if err != nil {
		return d, nil, err
	}
	return d, pc, nil
}

func (e *Executor) resolve(mode, name string) (*CommandDescriptor, error) {
	d, err := e.registry.Resolve(mode, name)
	if err != nil {
		suggestions := FindSimilarCommands(name, e.registry.Names(mode), defaultSuggestionsCount)
		return nil, usage.CommandNotFound(mode, name, suggestions...)
	}
	return d, nil
}

// Run parses and executes one command line in the shell's mode.
func (e *Executor) Run(ctx context.Context, sh Shell, line string, streams Streams) Result {
	_, pc, err := e.Prepare(sh.Mode(), line)
	if err != nil {
		name, _ := CommandName(line)
		return Result{Command: name, Code: usage.ExitCodeOf(err), Err: err}
	}
	if pc == nil {
		return Result{}
	}
	return e.Execute(ctx, sh, pc, streams)
}

// Execute invokes the handler of a parsed command. Handler errors and panics
// are converted into a handler-failure result; they never propagate.
func (e *Executor) Execute(ctx context.Context, sh Shell, pc *ParsedCommand, streams Streams) Result {
	d, err := e.resolve(sh.Mode(), pc.Name)
	if err != nil {
		return Result{Command: pc.Name, Code: CodeNotFound, Err: err}
	}

	inv := &Invocation{
		Command: d,
		Parsed:  pc,
		Shell:   sh,
		Stdout:  streams.Stdout,
		Stderr:  streams.Stderr,
		Dumb:    !streams.Interactive,
	}
	if inv.Stdout == nil {
		inv.Stdout = io.Discard
	}
	if inv.Stderr == nil {
		inv.Stderr = io.Discard
	}

	var closeRedirect func() error
	if pc.Redirect != nil {
		f, err := openRedirect(pc.Redirect)
		if err != nil {
			return Result{Command: d.Name, Code: CodeFailure, Err: fmt.Errorf("%s: redirect: %w", d.Name, err)}
		}
		inv.Stdout = f
		inv.Dumb = true
		closeRedirect = f.Close
	}

	var paged *bytes.Buffer
	if d.Wrappable && !inv.Dumb && e.pager != nil {
		paged = &bytes.Buffer{}
		inv.Stdout = paged
	}

	code, err := e.invoke(ctx, d, inv)

	if closeRedirect != nil {
		if cerr := closeRedirect(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if paged != nil && paged.Len() > 0 {
		e.pager(paged.String())
	}

	if err != nil {
		var ue *usage.Error
		if !errors.As(err, &ue) {
			err = usage.HandlerFailure(d.Name, err)
		}
		if code == CodeSuccess {
			code = usage.ExitCodeOf(err)
		}
		log.Error("executor: %s/%s failed with code %d: %v", d.Mode, d.Name, code, err)
		return Result{Command: d.Name, Code: code, Err: err}
	}

	log.Debug("executor: %s/%s returned %d", d.Mode, d.Name, code)
	return Result{Command: d.Name, Code: code}
}

func (e *Executor) invoke(ctx context.Context, d *CommandDescriptor, inv *Invocation) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("executor: %s panicked: %v\n%s", d.Name, r, debug.Stack())
			code = CodeHandlerFailure
			err = usage.HandlerFailure(d.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	if dumb, ok := d.Handler.(DumbHandler); ok && inv.Dumb {
		return dumb.ExecuteDumb(ctx, inv)
	}
	return d.Handler.Execute(ctx, inv)
}

func openRedirect(r *Redirect) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if r.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.OpenFile(r.Path, flags, 0644)
}
