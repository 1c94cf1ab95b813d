// Package builtins holds the built-in commands of the main shell.
package builtins

import (
	"context"
	"time"

	"github.com/Aptivi/NitrocidKS-sub040/internal/addon"
	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// Deps are the collaborators of the built-in commands.
type Deps struct {
	Stack   *shell.Stack
	Interp  *uesh.Interpreter
	Config  domain.ConfigProvider
	Styler  domain.Styler
	Version string

	// History is nil when history is disabled.
	History domain.HistoryStore
	// Loader is nil in safe mode.
	Loader   *addon.Loader
	AddonDir func() string

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

func (d Deps) withDefaults() Deps {
	if d.Styler == nil {
		d.Styler = style.NopStyler{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = sleepCtx
	}
	if d.AddonDir == nil {
		d.AddonDir = func() string { return "" }
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Commands returns the built-in commands of the main shell.
func Commands(d Deps) []*dispatchers.CommandDescriptor {
	d = d.withDefaults()

	var cmds []*dispatchers.CommandDescriptor
	cmds = append(cmds, generalCommands(d)...)
	cmds = append(cmds, scriptingCommands(d)...)
	cmds = append(cmds, shellCommands(d)...)
	cmds = append(cmds, configCommand(d), addonsCommand(d))
	return cmds
}

// streams returns the output streams of an invocation for nested execution.
func streams(inv *dispatchers.Invocation) dispatchers.Streams {
	return dispatchers.Streams{Stdout: inv.Stdout, Stderr: inv.Stderr, Interactive: !inv.Dumb}
}
