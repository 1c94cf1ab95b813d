package domain

import "slices"

// ConfigKey describes one rc file setting.
type ConfigKey struct {
	Name        string
	Default     string
	Description string
	Section     string
	Hidden      bool
	// HideIfEmpty keys are optional overrides, listed only once set.
	HideIfEmpty bool
}

// ConfigSection is a heading in the rc file and in config list.
type ConfigSection struct {
	Name string
	Keys []ConfigKey
}

func section(name string, keys ...ConfigKey) ConfigSection {
	for i := range keys {
		keys[i].Section = name
	}
	return ConfigSection{Name: name, Keys: keys}
}

var configSections = []ConfigSection{
	section("Shell",
		ConfigKey{Name: "prompt_preset", Default: "default", Description: "Prompt preset for the main shell: default, minimal, classic"},
		ConfigKey{Name: "switch_prefix", Default: "-", Description: "Prefix that marks a token as a switch"},
		ConfigKey{Name: "history_enabled", Default: "true", Description: "Record executed commands (true/false)"},
		ConfigKey{Name: "history_limit", Default: "1000", Description: "Maximum number of history entries kept"},
	),
	section("Scripting",
		ConfigKey{Name: "script_max_iterations", Default: "10000", Description: "Maximum iterations of a single while block"},
	),
	section("Addons",
		ConfigKey{Name: "addon_dir", Description: "Directory scanned for addon manifests"},
		ConfigKey{Name: "addon_watch", Default: "false", Description: "Reload addons when manifests change (true/false)"},
	),
	section("Display",
		ConfigKey{Name: "pager", Default: "less -FRSX", Description: "Pager command for long output"},
		ConfigKey{Name: "theme", Default: "default", Description: "Color theme: default, hacker, ocean, contrast (append -dark or -light to pin a variant)"},
		ConfigKey{Name: "display_date", Default: "Jan 02", Description: "Date format: dd/mm/yyyy, mm/dd/yyyy, yyyy-mm-dd, or Go format"},
		ConfigKey{Name: "display_time", Default: "24h", Description: "Time format: 12h, 24h"},
	),
	section("Logging",
		ConfigKey{Name: "enable_log", Default: "true", Description: "Enable logging to file (true/false)"},
		ConfigKey{Name: "log_level", Default: "info", Description: "Minimum log level: debug, info, warn, error"},
	),
	section("Color Overrides",
		ConfigKey{Name: "color_success", Description: "Override success color from current theme (ANSI 0-255)", HideIfEmpty: true},
		ConfigKey{Name: "color_warning", Description: "Override warning color from current theme (ANSI 0-255)", HideIfEmpty: true},
		ConfigKey{Name: "color_error", Description: "Override error color from current theme (ANSI 0-255)", HideIfEmpty: true},
		ConfigKey{Name: "color_info", Description: "Override info color from current theme (ANSI 0-255)", HideIfEmpty: true},
		ConfigKey{Name: "color_muted", Description: "Override muted text color from current theme (ANSI 0-255)", HideIfEmpty: true},
		ConfigKey{Name: "color_header", Description: "Override header style from current theme (ANSI 0-255 or 'bold')", HideIfEmpty: true},
	),
}

// ConfigKeys lists every setting in rc file order.
var ConfigKeys = slices.Concat(sectionKeys()...)

func sectionKeys() [][]ConfigKey {
	out := make([][]ConfigKey, len(configSections))
	for i, s := range configSections {
		out[i] = s.Keys
	}
	return out
}

// ConfigSections returns the visible settings grouped under their headings.
func ConfigSections() []ConfigSection {
	out := make([]ConfigSection, 0, len(configSections))
	for _, s := range configSections {
		visible := slices.DeleteFunc(slices.Clone(s.Keys), func(k ConfigKey) bool { return k.Hidden })
		if len(visible) > 0 {
			out = append(out, ConfigSection{Name: s.Name, Keys: visible})
		}
	}
	return out
}

// IsValidConfigKey reports whether name is a known setting.
func IsValidConfigKey(name string) bool {
	return slices.ContainsFunc(ConfigKeys, func(k ConfigKey) bool { return k.Name == name })
}
