package builtins

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/format"
)

// ErrHistoryDisabled is returned by history when no store is configured.
var ErrHistoryDisabled = errors.New("history is disabled")

type presetHolder interface {
	Preset() string
	SetPreset(name string)
}

func shellCommands(d Deps) []*dispatchers.CommandDescriptor {
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "presets",
			Summary:      "Lists the prompt presets",
			Category:     dispatchers.CategoryShell,
			Strict:       true,
			Redirectable: true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				return listPresets(d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "setpreset",
			Summary:  "Changes the prompt preset of the current shell",
			Category: dispatchers.CategoryShell,
			Args:     []dispatchers.ArgumentPart{dispatchers.Required("preset", "Preset name")},
			Switches: []dispatchers.SwitchDescriptor{dispatchers.Flag("save", "Also make it the default")},
			Strict:   true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				return setPreset(d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "lsmodes",
			Summary:      "Lists the available shell modes",
			Category:     dispatchers.CategoryShell,
			Args:         []dispatchers.ArgumentPart{dispatchers.Choice("kind", "main, sub or all", false, "main", "sub", "all")},
			Strict:       true,
			Redirectable: true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				return listModes(d, inv)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "history",
			Summary:  "Shows or clears the command history",
			Category: dispatchers.CategoryShell,
			Switches: []dispatchers.SwitchDescriptor{
				dispatchers.ValueSwitch("limit", "Number of entries to show", true),
				dispatchers.ValueSwitch("mode", "Only entries of this shell mode", false),
				{Name: "clear", Description: "Remove every entry", ConflictsWith: []string{"limit", "mode"}},
			},
			Strict:       true,
			Redirectable: true,
			Wrappable:    true,
			Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
				return history(ctx, d, inv)
			},
		}),
	}
}

func listPresets(d Deps, inv *dispatchers.Invocation) (int, error) {
	current := ""
	if h, ok := inv.Shell.(presetHolder); ok {
		current = h.Preset()
	}

	for _, p := range d.Stack.Presets().List() {
		marker := " "
		if p.Name == current {
			marker = "*"
		}
		fmt.Fprintf(inv.Stdout, "%s %-10s %s\n", marker, p.Name, d.Styler.Muted(p.Description))
	}
	return dispatchers.CodeSuccess, nil
}

func setPreset(d Deps, inv *dispatchers.Invocation) (int, error) {
	name := inv.Arg(0)
	if _, ok := d.Stack.Presets().Lookup(name); !ok {
		return dispatchers.CodeFailure, fmt.Errorf("setpreset: unknown preset %q", name)
	}

	h, ok := inv.Shell.(presetHolder)
	if !ok {
		return dispatchers.CodeFailure, fmt.Errorf("setpreset: shell %s has no prompt", inv.Shell.Mode())
	}
	h.SetPreset(name)

	if inv.Switches().Has("save") {
		if d.Config == nil {
			return dispatchers.CodeFailure, errors.New("setpreset: configuration is not available")
		}
		if err := d.Config.Set("prompt_preset", name); err != nil {
			return dispatchers.CodeFailure, err
		}
	}
	return dispatchers.CodeSuccess, nil
}

func listModes(d Deps, inv *dispatchers.Invocation) (int, error) {
	kind := inv.Arg(0)
	if kind == "" {
		kind = "all"
	}

	for _, t := range d.Stack.Types() {
		if (kind == "main" && t.Sub) || (kind == "sub" && !t.Sub) {
			continue
		}
		label := "main"
		if t.Sub {
			label = "sub"
		}
		fmt.Fprintf(inv.Stdout, "%-10s %-5s %s\n", t.Mode, d.Styler.Muted(label), t.Summary)
	}
	return dispatchers.CodeSuccess, nil
}

func history(ctx context.Context, d Deps, inv *dispatchers.Invocation) (int, error) {
	if d.History == nil {
		return dispatchers.CodeFailure, ErrHistoryDisabled
	}

	sw := inv.Switches()
	if sw.Has("clear") {
		if err := d.History.Clear(ctx); err != nil {
			return dispatchers.CodeFailure, err
		}
		fmt.Fprintln(inv.Stdout, d.Styler.Success("history cleared"))
		return dispatchers.CodeSuccess, nil
	}

	entries, err := d.History.List(ctx, domain.HistoryFilter{
		Mode:  sw.String("mode", ""),
		Limit: sw.Int("limit", 0),
	})
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	now := d.Now()
	for _, e := range entries {
		code := ""
		if e.Code != dispatchers.CodeSuccess {
			code = d.Styler.Error(fmt.Sprintf(" [%d]", e.Code))
		}
		fmt.Fprintf(inv.Stdout, "%5d  %-16s %s%s  %s\n",
			e.ID, d.Styler.Muted(format.Relative(e.CreatedAt, now)), e.Line, code, d.Styler.Muted(e.Mode))
	}
	if len(entries) > 0 {
		fmt.Fprintf(inv.Stdout, "%s entries\n", format.Count(int64(len(entries))))
	}
	return dispatchers.CodeSuccess, nil
}
