package builtins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// kernelCommand is the name sh snippets use to call back into the shell.
const kernelCommand = "ks"

func scriptingCommands(d Deps) []*dispatchers.CommandDescriptor {
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "run",
			Summary:  "Runs a UESH script",
			Category: dispatchers.CategoryScripting,
			Args: []dispatchers.ArgumentPart{
				dispatchers.Required("script", "Path to the script"),
				dispatchers.Optional("args", "Arguments available as $1..$n"),
			},
			Redirectable: true,
			Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
				return runScript(ctx, d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "lint",
			Summary:  "Checks a UESH script without running it",
			Category: dispatchers.CategoryScripting,
			Args:     []dispatchers.ArgumentPart{dispatchers.Required("script", "Path to the script")},
			Strict:   true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				return lintScript(d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "conditions",
			Summary:      "Lists the conditions usable in if and while",
			Category:     dispatchers.CategoryScripting,
			Strict:       true,
			Redirectable: true,
			Wrappable:    true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				return listConditions(d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "sh",
			Summary:  "Runs a POSIX shell snippet; 'ks <command>' calls back into the kernel shell",
			Category: dispatchers.CategoryScripting,
			Args:     []dispatchers.ArgumentPart{dispatchers.Required("snippet", "Shell code")},
			Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
				return runSnippet(ctx, d, inv)
			},
		}),
	}
}

func runScript(ctx context.Context, d Deps, inv *dispatchers.Invocation) (int, error) {
	script, err := uesh.Load(inv.Arg(0))
	if err != nil {
		return usage.ExitCodeOf(err), err
	}

	target := uesh.ExecutorTarget{Executor: d.Stack.Executor(), Shell: inv.Shell, Streams: streams(inv)}
	if err := d.Interp.Run(ctx, script, target, inv.Args()[1:]); err != nil {
		return usage.ExitCodeOf(err), err
	}
	return dispatchers.CodeSuccess, nil
}

func lintScript(d Deps, inv *dispatchers.Invocation) (int, error) {
	script, err := uesh.Load(inv.Arg(0))
	if err != nil {
		return usage.ExitCodeOf(err), err
	}

	target := uesh.ExecutorTarget{Executor: d.Stack.Executor(), Shell: inv.Shell}
	if err := d.Interp.Lint(script, target, nil); err != nil {
		return usage.ExitCodeOf(err), err
	}
	fmt.Fprintf(inv.Stdout, "%s: %s\n", script.Name, d.Styler.Success("OK"))
	return dispatchers.CodeSuccess, nil
}

func listConditions(d Deps, inv *dispatchers.Invocation) (int, error) {
	conds := d.Interp.Conditions()
	fmt.Fprintf(inv.Stdout, "%-12s %-10s %-7s %s\n", "NAME", "POSITION", "ARITY", "ORIGIN")
	for _, c := range conds.List() {
		fmt.Fprintf(inv.Stdout, "%-12s %-10d %-7d %s\n", c.Name(), c.Position(), c.Arity(), conds.Origin(c.Name()))
	}
	return dispatchers.CodeSuccess, nil
}

func runSnippet(ctx context.Context, d Deps, inv *dispatchers.Invocation) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(inv.Parsed.Raw), "sh")
	if err != nil {
		return dispatchers.CodeUsage, fmt.Errorf("sh: %w", err)
	}

	runner, err := interp.New(
		interp.StdIO(nil, inv.Stdout, inv.Stderr),
		interp.ExecHandlers(kernelExecHandler(d, inv.Shell)),
	)
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("sh: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return dispatchers.CodeFailure, fmt.Errorf("sh: %w", err)
	}
	return dispatchers.CodeSuccess, nil
}

// kernelExecHandler runs "ks <command...>" through the executor in the mode
// of sh and leaves every other program to the default handler.
func kernelExecHandler(d Deps, sh dispatchers.Shell) func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || args[0] != kernelCommand {
				return next(ctx, args)
			}
			if len(args) == 1 {
				return interp.ExitStatus(dispatchers.CodeUsage)
			}

			hc := interp.HandlerCtx(ctx)
			res := d.Stack.Executor().Run(ctx, sh, dispatchers.Join(args[1:]),
				dispatchers.Streams{Stdout: hc.Stdout, Stderr: hc.Stderr})
			if res.Err != nil {
				fmt.Fprintln(hc.Stderr, res.Err)
			}
			if res.Code != dispatchers.CodeSuccess {
				return interp.ExitStatus(exitStatus(res.Code))
			}
			return nil
		}
	}
}

// exitStatus narrows code to a shell exit status. Failures never become zero.
func exitStatus(code int) uint8 {
	if code < 0 || code > 255 {
		return uint8(dispatchers.CodeFailure)
	}
	return uint8(code)
}
