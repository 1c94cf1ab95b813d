package builtins

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

func configCommand(d Deps) *dispatchers.CommandDescriptor {
	key := dispatchers.Required("key", "Configuration key")
	return dispatchers.Command(dispatchers.CommandSpec{
		Name:     "config",
		Summary:  "Reads or changes kernel settings",
		Category: dispatchers.CategoryConfig,
		Sets: []dispatchers.ArgumentSet{
			{Parts: []dispatchers.ArgumentPart{dispatchers.Choice("action", "get or unset", true, "get", "unset"), key}},
			{Parts: []dispatchers.ArgumentPart{dispatchers.Choice("action", "set", true, "set"), key, dispatchers.Required("value", "New value")}},
			{
				Parts:    []dispatchers.ArgumentPart{dispatchers.Choice("action", "list", true, "list")},
				Switches: []dispatchers.SwitchDescriptor{dispatchers.Flag("all", "Include unset and hidden keys")},
			},
		},
		Strict:       true,
		Redirectable: true,
		Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
			if d.Config == nil {
				return dispatchers.CodeFailure, errors.New("config: configuration is not available")
			}
			switch inv.Arg(0) {
			case "get":
				return configGet(d, inv)
			case "set":
				return configSet(d, inv)
			case "unset":
				return configUnset(d, inv)
			default:
				return configList(d, inv)
			}
		},
	})
}

func configGet(d Deps, inv *dispatchers.Invocation) (int, error) {
	key := inv.Arg(1)
	if !domain.IsValidConfigKey(key) {
		err := usage.InvalidConfigKey(key)
		return usage.ExitCodeOf(err), err
	}
	value, ok := d.Config.Get(key)
	if !ok {
		fmt.Fprintln(inv.Stdout, d.Styler.Muted(key+" is not set"))
		return dispatchers.CodeSuccess, nil
	}
	fmt.Fprintln(inv.Stdout, value)
	return dispatchers.CodeSuccess, nil
}

func configSet(d Deps, inv *dispatchers.Invocation) (int, error) {
	key, value := inv.Arg(1), inv.Arg(2)
	if err := d.Config.Set(key, value); err != nil {
		return usage.ExitCodeOf(err), err
	}
	fmt.Fprintf(inv.Stdout, "%s %s=%s\n", d.Styler.Success("set"), key, value)
	return dispatchers.CodeSuccess, nil
}

func configUnset(d Deps, inv *dispatchers.Invocation) (int, error) {
	key := inv.Arg(1)
	if err := d.Config.Unset(key); err != nil {
		return usage.ExitCodeOf(err), err
	}
	fmt.Fprintf(inv.Stdout, "%s %s\n", d.Styler.Success("unset"), key)
	return dispatchers.CodeSuccess, nil
}

func configList(d Deps, inv *dispatchers.Invocation) (int, error) {
	values, err := d.Config.GetAll()
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	if inv.Switches().Has("all") {
		names := make([]string, 0, len(domain.ConfigKeys))
		for _, k := range domain.ConfigKeys {
			names = append(names, k.Name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(inv.Stdout, "%s=%s\n", name, values[name])
		}
		return dispatchers.CodeSuccess, nil
	}

	for _, section := range domain.ConfigSections() {
		fmt.Fprintln(inv.Stdout, d.Styler.Header(section.Name))
		for _, k := range section.Keys {
			value, ok := values[k.Name]
			if !ok || (k.HideIfEmpty && value == "") {
				continue
			}
			fmt.Fprintf(inv.Stdout, "  %s=%s\n", k.Name, value)
		}
	}
	return dispatchers.CodeSuccess, nil
}
