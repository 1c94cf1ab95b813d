package uesh

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// DefaultMaxIterations bounds the iterations of a single while loop.
const DefaultMaxIterations = 10000

// Target is where script command lines go.
type Target interface {
	// Run executes one command line.
	Run(ctx context.Context, line string) dispatchers.Result
	// Check validates a command line without running its handler.
	Check(line string) error
}

// Interpreter runs and lints scripts against a condition registry.
type Interpreter struct {
	conditions    *Conditions
	maxIterations int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxIterations sets the loop bound; values below 1 keep the default.
func WithMaxIterations(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxIterations = n
		}
	}
}

// New creates an Interpreter resolving conditions in conds.
func New(conds *Conditions, opts ...Option) *Interpreter {
	in := &Interpreter{conditions: conds, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Conditions returns the condition registry.
func (in *Interpreter) Conditions() *Conditions {
	return in.conditions
}

type run struct {
	id     string
	script *Script
	target Target
	vars   *Variables
	in     *Interpreter
}

// Run executes script from start to end. The first failing line aborts the
// rest of the script; the error carries its line number.
func (in *Interpreter) Run(ctx context.Context, script *Script, target Target, args []string) error {
	r := &run{
		id:     uuid.NewString(),
		script: script,
		target: target,
		vars:   NewVariables(script.Name, args),
		in:     in,
	}
	defer r.vars.Clear()

	log.Info("uesh: run %s of %s started with %d arguments", r.id, script.Name, len(args))
	if err := r.exec(ctx, script.Body); err != nil {
		log.Error("uesh: run %s aborted: %v", r.id, err)
		return err
	}
	log.Info("uesh: run %s finished", r.id)
	return nil
}

// Lint walks every branch of script once, resolving conditions and checking
// command lines without invoking any handler.
func (in *Interpreter) Lint(script *Script, target Target, args []string) error {
	r := &run{
		id:     uuid.NewString(),
		script: script,
		target: target,
		vars:   NewVariables(script.Name, args),
		in:     in,
	}
	if err := r.check(script.Body); err != nil {
		log.Warn("uesh: lint of %s failed: %v", script.Name, err)
		return err
	}
	log.Debug("uesh: lint of %s passed", script.Name)
	return nil
}

func (r *run) syntax(line int, format string, args ...any) error {
	return usage.ScriptSyntax(r.script.Name, line, fmt.Sprintf(format, args...))
}

func (r *run) failed(line int, cause error) error {
	return usage.ScriptFailed(r.script.Name, line, cause)
}

func (r *run) assign(s Stmt) {
	value, _ := r.vars.Expand(s.Value)
	r.vars.Set(s.Name, unquote(value))
}

// condition expands and resolves the expression of an if or while.
// Conditions taking variable names get their operands as written.
func (r *run) condition(s Stmt) (Condition, []string, error) {
	if raw, err := dispatchers.Split(s.Text); err == nil {
		if cond, operands, err := r.in.conditions.Resolve(raw); err == nil && wantsRaw(cond) {
			return cond, operands, nil
		}
	}

	expanded, _ := r.vars.Expand(s.Text)
	tokens, err := dispatchers.Split(expanded)
	if err != nil {
		return nil, nil, r.syntax(s.Line, "%v", err)
	}
	cond, operands, err := r.in.conditions.Resolve(tokens)
	if err != nil {
		return nil, nil, r.syntax(s.Line, "%v", err)
	}
	return cond, operands, nil
}

func (r *run) evaluate(s Stmt) (bool, error) {
	cond, operands, err := r.condition(s)
	if err != nil {
		return false, err
	}
	ok, err := cond.Evaluate(r.vars, operands)
	if err != nil {
		return false, r.failed(s.Line, fmt.Errorf("condition %s: %w", cond.Name(), err))
	}
	return ok, nil
}

func (r *run) exec(ctx context.Context, body []Stmt) error {
	for _, s := range body {
		if err := ctx.Err(); err != nil {
			return r.failed(s.Line, err)
		}

		switch s.Kind {
		case KindAssign:
			r.assign(s)

		case KindIf:
			ok, err := r.evaluate(s)
			if err != nil {
				return err
			}
			branch := s.Else
			if ok {
				branch = s.Body
			}
			if err := r.exec(ctx, branch); err != nil {
				return err
			}

		case KindWhile:
			for n := 0; ; n++ {
				ok, err := r.evaluate(s)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				if n >= r.in.maxIterations {
					return r.failed(s.Line, fmt.Errorf("while loop exceeded %d iterations", r.in.maxIterations))
				}
				if err := r.exec(ctx, s.Body); err != nil {
					return err
				}
			}

		case KindCommand:
			line, _ := r.vars.Expand(s.Text)
			res := r.target.Run(ctx, line)
			if res.OK() {
				continue
			}
			cause := res.Err
			if cause == nil {
				cause = fmt.Errorf("%s returned code %d", res.Command, res.Code)
			}
			return r.failed(s.Line, cause)
		}
	}
	return nil
}

func (r *run) check(body []Stmt) error {
	for _, s := range body {
		switch s.Kind {
		case KindAssign:
			r.assign(s)

		case KindIf:
			if _, _, err := r.condition(s); err != nil {
				return err
			}
			if err := r.check(s.Body); err != nil {
				return err
			}
			if err := r.check(s.Else); err != nil {
				return err
			}

		case KindWhile:
			if _, _, err := r.condition(s); err != nil {
				return err
			}
			if err := r.check(s.Body); err != nil {
				return err
			}

		case KindCommand:
			if err := r.checkCommand(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkCommand validates the full argument shape of lines whose variables
// all resolved, and only the command name otherwise.
func (r *run) checkCommand(s Stmt) error {
	line, unresolved := r.vars.Expand(s.Text)
	if unresolved {
		name, err := dispatchers.CommandName(line)
		if err != nil {
			return r.syntax(s.Line, "%v", err)
		}
		if strings.Contains(name, "$") {
			return nil
		}
		line = dispatchers.Quote(name)
		if err := r.target.Check(line); err != nil && usage.KindOf(err) == usage.ErrCommandNotFound {
			return r.syntax(s.Line, "%v", err)
		}
		return nil
	}

	if err := r.target.Check(line); err != nil {
		return r.syntax(s.Line, "%v", err)
	}
	return nil
}

// unquote strips one pair of double quotes around the whole value.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
