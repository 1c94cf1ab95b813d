// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. All styling
// is semantic (Success, Warning, Prompt, etc.) rather than visual.
//
// When disabled, all helpers return the input string unchanged with no ANSI codes.
package style

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mu      sync.RWMutex
	enabled bool
	colors  Palette
	styles  map[role]lipgloss.Style
)

type role int

const (
	roleSuccess role = iota
	roleWarning
	roleError
	roleInfo
	roleMuted
	roleHeader
	rolePrompt
	roleAccent
)

// Init sets whether output is styled and loads the palette from cfg.
// NO_COLOR and NITROCID_NO_COLOR force styling off regardless of enable.
// A nil cfg selects the default theme.
func Init(enable bool, cfg map[string]string) {
	mu.Lock()
	defer mu.Unlock()

	if os.Getenv("NO_COLOR") != "" || os.Getenv("NITROCID_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if !enabled {
		return
	}

	colors = LoadPalette(cfg)

	// ANSI256 regardless of TTY detection so themes stay stable in pipes.
	lipgloss.SetColorProfile(termenv.ANSI256)

	styles = map[role]lipgloss.Style{
		roleSuccess: makeStyle(colors.Success),
		roleWarning: makeStyle(colors.Warning),
		roleError:   makeStyle(colors.Error),
		roleInfo:    makeStyle(colors.Info),
		roleMuted:   makeStyle(colors.Muted),
		roleHeader:  makeStyle(colors.Header),
		rolePrompt:  makeStyle(colors.Prompt),
		roleAccent:  makeStyle(colors.Accent),
	}
}

// Colors returns the active palette.
func Colors() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return colors
}

// makeStyle creates a lipgloss style from "bold" or an ANSI color number.
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

func render(r role, text string) string {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return text
	}
	return styles[r].Render(text)
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Success styles text for successful operations.
func Success(text string) string { return render(roleSuccess, text) }

// Warning styles text for warning messages.
func Warning(text string) string { return render(roleWarning, text) }

// Error styles text for error messages.
func Error(text string) string { return render(roleError, text) }

// Info styles text for informational messages.
func Info(text string) string { return render(roleInfo, text) }

// Header styles section headers.
func Header(text string) string { return render(roleHeader, text) }

// Muted styles secondary information.
func Muted(text string) string { return render(roleMuted, text) }

// Prompt styles the shell prompt.
func Prompt(text string) string { return render(rolePrompt, text) }

// Accent styles mode names and other highlights.
func Accent(text string) string { return render(roleAccent, text) }
