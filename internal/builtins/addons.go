package builtins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
)

// ErrSafeMode is returned by addon commands when addons are not loaded.
var ErrSafeMode = errors.New("addons are disabled in safe mode")

func addonsCommand(d Deps) *dispatchers.CommandDescriptor {
	return dispatchers.Command(dispatchers.CommandSpec{
		Name:         "addons",
		Summary:      "Lists loaded addons or reloads them from the addon directory",
		Category:     dispatchers.CategoryAddons,
		Switches:     []dispatchers.SwitchDescriptor{dispatchers.Flag("reload", "Reload every manifest")},
		Strict:       true,
		Redirectable: true,
		Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
			if d.Loader == nil {
				return dispatchers.CodeFailure, ErrSafeMode
			}

			if inv.Switches().Has("reload") {
				n, err := d.Loader.Reload(d.AddonDir())
				fmt.Fprintf(inv.Stdout, "%d addon(s) loaded\n", n)
				if err != nil {
					return dispatchers.CodeFailure, err
				}
				return dispatchers.CodeSuccess, nil
			}

			loaded := d.Loader.List()
			if len(loaded) == 0 {
				fmt.Fprintln(inv.Stdout, d.Styler.Muted("no addons loaded"))
				return dispatchers.CodeSuccess, nil
			}
			for _, a := range loaded {
				fmt.Fprintf(inv.Stdout, "%s %s\n", d.Styler.Header(a.Manifest.Name), d.Styler.Muted(a.Manifest.Version))
				if a.Manifest.Description != "" {
					fmt.Fprintf(inv.Stdout, "  %s\n", a.Manifest.Description)
				}
				if cmds := a.Commands(); len(cmds) > 0 {
					fmt.Fprintf(inv.Stdout, "  commands:   %s\n", strings.Join(cmds, ", "))
				}
				if conds := a.Conditions(); len(conds) > 0 {
					fmt.Fprintf(inv.Stdout, "  conditions: %s\n", strings.Join(conds, ", "))
				}
			}
			return dispatchers.CodeSuccess, nil
		},
	})
}
