package dispatchers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
)

// RenderCommandList renders the help overview of a mode, grouped by category.
func RenderCommandList(reg *Registry, mode string, s domain.Styler) string {
	var out strings.Builder

	fmt.Fprintf(&out, "%s\n\n", s.Header("Available commands in "+mode))

	grouped := make(map[CommandCategory][]*CommandDescriptor)
	width := 0
	for _, d := range reg.Commands(mode) {
		if d.Hidden {
			continue
		}
		grouped[d.Category] = append(grouped[d.Category], d)
		width = max(width, len(d.Name))
	}

	for _, cat := range categoryOrder {
		cmds := grouped[cat]
		if len(cmds) == 0 {
			continue
		}
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		out.WriteString(cat.String())
		out.WriteString("\n")
		for _, d := range cmds {
			name := fmt.Sprintf("%-*s", width, d.Name)
			line := "   " + s.Info(name) + "   " + d.Summary
			if d.Origin != OriginBuiltin {
				line += " " + s.Muted("("+d.Origin+")")
			}
			out.WriteString(line)
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}

	out.WriteString(s.Muted("Run 'help <command>' for details on a command."))
	out.WriteString("\n")
	return out.String()
}

// RenderCommandHelp renders the usage of a single command.
func RenderCommandHelp(d *CommandDescriptor, prefix string, s domain.Styler) string {
	var out strings.Builder

	fmt.Fprintf(&out, "%s - %s\n\n", s.Header(d.Name), d.Summary)

	out.WriteString("USAGE\n")
	if len(d.ArgumentSets) == 0 {
		out.WriteString("   " + s.Info(d.Name) + " " + s.Muted("[arguments...]") + "\n")
	}
	for _, set := range d.ArgumentSets {
		out.WriteString("   " + formatUsage(UsageLine(d.Name, set, prefix), s) + "\n")
	}

	var parts []ArgumentPart
	var switches []SwitchDescriptor
	seen := make(map[string]bool)
	for _, set := range d.ArgumentSets {
		for _, p := range set.Parts {
			if !seen["a:"+p.Name] && p.Description != "" {
				seen["a:"+p.Name] = true
				parts = append(parts, p)
			}
		}
		for _, sw := range set.Switches {
			if !seen["s:"+sw.Name] {
				seen["s:"+sw.Name] = true
				switches = append(switches, sw)
			}
		}
	}

	if len(parts) > 0 {
		out.WriteString("\nARGUMENTS\n")
		for _, p := range parts {
			fmt.Fprintf(&out, "   %-16s %s\n", p.Name, p.Description)
		}
	}
	if len(switches) > 0 {
		out.WriteString("\nSWITCHES\n")
		for _, sw := range switches {
			fmt.Fprintf(&out, "   %-16s %s\n", prefix+sw.Name, sw.Description)
		}
	}

	var notes []string
	if d.SupportsRedirection {
		notes = append(notes, "output can be redirected with '> file' or '>> file'")
	}
	if d.Origin != OriginBuiltin {
		notes = append(notes, "provided by addon "+d.Origin)
	}
	if len(notes) > 0 {
		out.WriteString("\n")
		for _, n := range notes {
			out.WriteString(s.Muted("   "+n) + "\n")
		}
	}

	return out.String()
}

// formatUsage styles the usage line with the command in Info color and the rest muted.
func formatUsage(usage string, s domain.Styler) string {
	cmd, rest, found := strings.Cut(usage, " ")
	if !found {
		return s.Info(cmd)
	}
	return s.Info(cmd) + " " + s.Muted(rest)
}
