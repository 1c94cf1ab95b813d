package shell

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// DefaultPreset is the preset used when none is configured.
const DefaultPreset = "default"

// Preset is a named prompt template. Placeholders: {user} {host} {mode}
// {depth} {dir}.
type Preset struct {
	Name        string
	Description string
	Template    string
}

// PromptInfo holds the values substituted into a preset.
type PromptInfo struct {
	User  string
	Host  string
	Mode  string
	Depth int
	Dir   string
}

var builtinPresets = []Preset{
	{Name: "default", Description: "User, host, directory and mode", Template: "[{user}@{host}] {dir} ({mode})> "},
	{Name: "minimal", Description: "Mode only", Template: "{mode}> "},
	{Name: "classic", Description: "Kernel Simulator style", Template: "[{user}@{host}]{depth}$ "},
}

// Presets is the set of known prompt presets.
type Presets struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewPresets returns the built-in presets.
func NewPresets() *Presets {
	p := &Presets{presets: make(map[string]Preset)}
	for _, preset := range builtinPresets {
		p.presets[preset.Name] = preset
	}
	return p
}

// Register adds or replaces a preset.
func (p *Presets) Register(preset Preset) error {
	if preset.Name == "" || strings.ContainsAny(preset.Name, " \t") {
		return fmt.Errorf("invalid preset name %q", preset.Name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presets[preset.Name] = preset
	return nil
}

// Lookup returns the named preset.
func (p *Presets) Lookup(name string) (Preset, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	preset, ok := p.presets[name]
	return preset, ok
}

// List returns all presets sorted by name.
func (p *Presets) List() []Preset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Preset, 0, len(p.presets))
	for _, preset := range p.presets {
		out = append(out, preset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render expands the named preset, falling back to the default preset.
func (p *Presets) Render(name string, info PromptInfo) string {
	preset, ok := p.Lookup(name)
	if !ok {
		preset, _ = p.Lookup(DefaultPreset)
	}

	depth := ""
	if info.Depth > 1 {
		depth = "[" + strconv.Itoa(info.Depth) + "]"
	}

	r := strings.NewReplacer(
		"{user}", info.User,
		"{host}", info.Host,
		"{mode}", style.Accent(info.Mode),
		"{depth}", depth,
		"{dir}", info.Dir,
	)
	return style.Prompt(r.Replace(preset.Template))
}

// CurrentPromptInfo gathers user, host and working directory of the process.
func CurrentPromptInfo(mode string, depth int) PromptInfo {
	info := PromptInfo{Mode: mode, Depth: depth, User: "user", Host: "localhost", Dir: "."}

	if u, err := user.Current(); err == nil {
		info.User = u.Username
	}
	if h, err := os.Hostname(); err == nil {
		info.Host = h
	}
	if wd, err := os.Getwd(); err == nil {
		info.Dir = wd
		if home, err := os.UserHomeDir(); err == nil {
			if rel, err := filepath.Rel(home, wd); err == nil && !strings.HasPrefix(rel, "..") {
				info.Dir = filepath.Join("~", rel)
			}
		}
	}
	return info
}
