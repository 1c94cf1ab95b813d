package dispatchers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Registry maps shell modes to their commands. Each mode has an immutable
// built-in table and an addon overlay that can change at runtime.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	modes map[string]*modeTable
}

type modeTable struct {
	builtins map[string]*CommandDescriptor
	overlay  map[string]*CommandDescriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modes: make(map[string]*modeTable),
	}
}

func (r *Registry) table(mode string) *modeTable {
	t, ok := r.modes[mode]
	if !ok {
		t = &modeTable{
			builtins: make(map[string]*CommandDescriptor),
			overlay:  make(map[string]*CommandDescriptor),
		}
		r.modes[mode] = t
	}
	return t
}

func validateDescriptor(d *CommandDescriptor) error {
	if d == nil {
		return fmt.Errorf("dispatchers: nil command descriptor")
	}
	if d.Name == "" || strings.ContainsAny(d.Name, " \t\r\n\"") {
		return fmt.Errorf("dispatchers: invalid command name %q", d.Name)
	}
	if d.Handler == nil {
		return fmt.Errorf("dispatchers: command %q has no handler", d.Name)
	}
	return nil
}

// RegisterBuiltin adds a built-in command to a mode. Built-ins cannot be
// removed. A name already used in the mode is rejected.
func (r *Registry) RegisterBuiltin(mode string, d *CommandDescriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.table(mode)
	if _, exists := t.builtins[d.Name]; exists {
		return usage.DuplicateCommand(mode, d.Name)
	}
	if _, exists := t.overlay[d.Name]; exists {
		return usage.DuplicateCommand(mode, d.Name)
	}

	d.Mode = mode
	if d.Origin == "" {
		d.Origin = OriginBuiltin
	}
	t.builtins[d.Name] = d
	return nil
}

// Register adds an addon command to the overlay of a mode. It fails with a
// duplicate-command error when a built-in or another overlay entry already
// uses the name.
func (r *Registry) Register(mode string, d *CommandDescriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.table(mode)
	if _, exists := t.builtins[d.Name]; exists {
		log.Warn("registry: rejected %s/%s: shadows a built-in", mode, d.Name)
		return usage.DuplicateCommand(mode, d.Name)
	}
	if _, exists := t.overlay[d.Name]; exists {
		log.Warn("registry: rejected %s/%s: already registered by %s", mode, d.Name, t.overlay[d.Name].Origin)
		return usage.DuplicateCommand(mode, d.Name)
	}

	d.Mode = mode
	t.overlay[d.Name] = d
	log.Debug("registry: registered %s/%s (origin %s)", mode, d.Name, d.Origin)
	return nil
}

// Unregister removes an addon command from the overlay of a mode.
func (r *Registry) Unregister(mode, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.modes[mode]
	if !ok {
		return usage.NotFound(mode, name)
	}
	if _, builtin := t.builtins[name]; builtin {
		return usage.ProtectedCommand(mode, name)
	}
	if _, exists := t.overlay[name]; !exists {
		return usage.NotFound(mode, name)
	}

	delete(t.overlay, name)
	log.Debug("registry: unregistered %s/%s", mode, name)
	return nil
}

// Resolve looks a command up in the overlay first, then in the built-ins.
// It returns a not-found usage error when neither has it.
func (r *Registry) Resolve(mode, name string) (*CommandDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.modes[mode]
	if !ok {
		return nil, usage.NotFound(mode, name)
	}
	if d, ok := t.overlay[name]; ok {
		return d, nil
	}
	if d, ok := t.builtins[name]; ok {
		return d, nil
	}
	return nil, usage.NotFound(mode, name)
}

// IsBuiltin reports whether name is a built-in command of mode.
func (r *Registry) IsBuiltin(mode, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.modes[mode]
	if !ok {
		return false
	}
	_, builtin := t.builtins[name]
	return builtin
}

// Commands returns every command of a mode sorted by name.
func (r *Registry) Commands(mode string) []*CommandDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.modes[mode]
	if !ok {
		return nil
	}

	out := make([]*CommandDescriptor, 0, len(t.builtins)+len(t.overlay))
	for _, d := range t.builtins {
		out = append(out, d)
	}
	for _, d := range t.overlay {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the names of every command of a mode in sorted order.
func (r *Registry) Names(mode string) []string {
	cmds := r.Commands(mode)
	names := make([]string, len(cmds))
	for i, d := range cmds {
		names[i] = d.Name
	}
	return names
}

// Modes returns every mode that has at least one command, sorted.
func (r *Registry) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]string, 0, len(r.modes))
	for m, t := range r.modes {
		if len(t.builtins)+len(t.overlay) > 0 {
			modes = append(modes, m)
		}
	}
	sort.Strings(modes)
	return modes
}
