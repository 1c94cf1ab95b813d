package shell

import (
	"context"
	"fmt"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/browser"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// commonCommands returns the commands every mode carries.
func (s *Stack) commonCommands() []*dispatchers.CommandDescriptor {
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "exit",
			Summary:  "Leaves the current shell",
			Category: dispatchers.CategoryShell,
			Strict:   true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				inv.Shell.Bail()
				return dispatchers.CodeSuccess, nil
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "help",
			Summary:  "Lists commands or shows the usage of one command",
			Category: dispatchers.CategoryGeneral,
			Args:     []dispatchers.ArgumentPart{dispatchers.Optional("command", "Command to describe")},
			Switches: []dispatchers.SwitchDescriptor{
				dispatchers.Flag("interactive", "Browse commands in a full-screen view"),
			},
			Redirectable: true,
			Wrappable:    true,
			Handler:      helpHandler{stack: s},
		}),
	}
}

type helpHandler struct {
	stack *Stack
}

func (h helpHandler) Execute(_ context.Context, inv *dispatchers.Invocation) (int, error) {
	mode := inv.Shell.Mode()

	if inv.Switches().Has("interactive") && inv.Arg(0) == "" {
		return h.browse(mode)
	}

	return h.render(inv, mode)
}

// ExecuteDumb never opens the full-screen view.
func (h helpHandler) ExecuteDumb(_ context.Context, inv *dispatchers.Invocation) (int, error) {
	return h.render(inv, inv.Shell.Mode())
}

func (h helpHandler) render(inv *dispatchers.Invocation, mode string) (int, error) {
	reg := h.stack.executor.Registry()
	prefix := h.stack.executor.Parser().SwitchPrefix

	name := inv.Arg(0)
	if name == "" {
		fmt.Fprint(inv.Stdout, dispatchers.RenderCommandList(reg, mode, h.stack.styler))
		return dispatchers.CodeSuccess, nil
	}

	d, err := reg.Resolve(mode, name)
	if err != nil {
		suggestions := dispatchers.FindSimilarCommands(name, reg.Names(mode), 3)
		return dispatchers.CodeNotFound, usage.CommandNotFound(mode, name, suggestions...)
	}
	fmt.Fprint(inv.Stdout, dispatchers.RenderCommandHelp(d, prefix, h.stack.styler))
	return dispatchers.CodeSuccess, nil
}

func (h helpHandler) browse(mode string) (int, error) {
	reg := h.stack.executor.Registry()
	prefix := h.stack.executor.Parser().SwitchPrefix

	var entries []browser.Entry
	for _, d := range reg.Commands(mode) {
		if d.Hidden {
			continue
		}
		entries = append(entries, browser.Entry{
			Name:    d.Name,
			Summary: d.Summary,
			Help:    dispatchers.RenderCommandHelp(d, prefix, h.stack.styler),
		})
	}

	if err := browser.Run(mode+" commands", entries, h.stack.ttyIn, h.stack.out); err != nil {
		return dispatchers.CodeFailure, err
	}
	return dispatchers.CodeSuccess, nil
}
