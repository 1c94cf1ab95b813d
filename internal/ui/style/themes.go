package style

import (
	"os"
	"sort"
	"strings"

	"github.com/muesli/termenv"
)

// Palette assigns each semantic role either "bold" or an ANSI 256 color.
type Palette struct {
	Success, Warning, Error, Info string
	Muted, Header, Prompt, Accent string
}

// Theme carries one palette per terminal background.
type Theme struct {
	Dark, Light Palette
}

// Themes are the built-in themes selectable with the theme setting.
var Themes = map[string]Theme{
	"default": {
		Dark:  Palette{"10", "11", "9", "14", "245", "bold", "10", "12"},
		Light: Palette{"28", "130", "124", "27", "243", "bold", "28", "90"},
	},
	// green phosphor
	"hacker": {
		Dark:  Palette{"46", "154", "160", "40", "22", "bold", "46", "82"},
		Light: Palette{"22", "100", "124", "28", "242", "bold", "22", "28"},
	},
	"ocean": {
		Dark:  Palette{"43", "221", "174", "75", "245", "bold", "43", "75"},
		Light: Palette{"30", "130", "124", "25", "244", "bold", "25", "30"},
	},
	"contrast": {
		Dark:  Palette{"46", "226", "196", "51", "250", "bold", "231", "51"},
		Light: Palette{"22", "130", "124", "21", "240", "bold", "16", "21"},
	},
}

// ThemeNames lists Themes alphabetically.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// slot returns the palette field a color_* setting overrides.
func (p *Palette) slot(key string) *string {
	switch strings.TrimPrefix(key, "color_") {
	case "success":
		return &p.Success
	case "warning":
		return &p.Warning
	case "error":
		return &p.Error
	case "info":
		return &p.Info
	case "muted":
		return &p.Muted
	case "header":
		return &p.Header
	case "prompt":
		return &p.Prompt
	case "accent":
		return &p.Accent
	}
	return nil
}

var overrideKeys = []string{
	"color_success", "color_warning", "color_error", "color_info",
	"color_muted", "color_header", "color_prompt", "color_accent",
}

// PickPalette resolves a theme setting such as "ocean" or "ocean-light".
// Without a suffix the terminal background decides. Unknown themes use
// default.
func PickPalette(setting string) Palette {
	name, variant, _ := strings.Cut(setting, "-")
	theme, ok := Themes[name]
	if !ok {
		theme = Themes["default"]
	}

	switch variant {
	case "light":
		return theme.Light
	case "dark":
		return theme.Dark
	}
	if termenv.HasDarkBackground() {
		return theme.Dark
	}
	return theme.Light
}

// LoadPalette builds the palette from settings. NITROCID_THEME and
// NITROCID_COLOR_* environment variables take precedence over cfg.
func LoadPalette(cfg map[string]string) Palette {
	lookup := func(key string) string {
		if v := os.Getenv("NITROCID_" + strings.ToUpper(key)); v != "" {
			return v
		}
		return cfg[key]
	}

	p := PickPalette(lookup("theme"))
	for _, key := range overrideKeys {
		if v := lookup(key); v != "" {
			*p.slot(key) = v
		}
	}
	return p
}
