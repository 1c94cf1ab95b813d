package addon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// maxAliasDepth bounds alias commands expanding into other aliases.
const maxAliasDepth = 16

type aliasDepthKey struct{}

// Addon is a loaded addon.
type Addon struct {
	Manifest   *Manifest
	commands   []registration
	conditions []string
}

type registration struct {
	mode string
	name string
}

// Commands returns mode/name pairs of the registered commands.
func (a *Addon) Commands() []string {
	out := make([]string, len(a.commands))
	for i, r := range a.commands {
		out[i] = r.mode + "/" + r.name
	}
	return out
}

// Conditions returns the names of the registered conditions.
func (a *Addon) Conditions() []string {
	return append([]string(nil), a.conditions...)
}

// Loader registers addon commands into the registry overlay and addon
// conditions into the condition registry.
type Loader struct {
	executor *dispatchers.Executor
	interp   *uesh.Interpreter

	mu     sync.Mutex
	loaded map[string]*Addon
}

// NewLoader creates a Loader. Alias commands run through executor and script
// commands through interp.
func NewLoader(executor *dispatchers.Executor, interp *uesh.Interpreter) *Loader {
	return &Loader{
		executor: executor,
		interp:   interp,
		loaded:   make(map[string]*Addon),
	}
}

// Load reads the manifest at path and registers what it contributes. A
// manifest already loaded from the same path is replaced. Either everything
// is registered or nothing is; a failed reload restores the previous version.
func (l *Loader) Load(path string) (*Addon, error) {
	m, err := ReadManifest(path)
	if err != nil {
		log.Warn("addon: %v", err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, reloading := l.loaded[m.Name]
	if reloading {
		if prev.Manifest.Path != m.Path {
			err := usage.AddonManifest(path, fmt.Errorf("addon %s is already loaded from %s", m.Name, prev.Manifest.Path))
			log.Warn("addon: %v", err)
			return nil, err
		}
		l.unregister(prev)
		delete(l.loaded, m.Name)
	}

	a := &Addon{Manifest: m}
	if err := l.register(a); err != nil {
		l.unregister(a)
		log.Error("addon: load %s failed, rolled back: %v", m.Name, err)
		if reloading {
			l.restore(prev)
		}
		return nil, err
	}

	l.loaded[m.Name] = a
	log.Info("addon: loaded %s %s from %s (%d commands, %d conditions)",
		m.Name, m.Version, m.Path, len(a.commands), len(a.conditions))
	return a, nil
}

func (l *Loader) register(a *Addon) error {
	m := a.Manifest
	reg := l.executor.Registry()

	for _, spec := range m.Commands {
		d, err := l.descriptor(m, spec)
		if err != nil {
			return usage.AddonManifest(m.Path, err)
		}
		if err := reg.Register(spec.Mode, d); err != nil {
			return err
		}
		a.commands = append(a.commands, registration{mode: spec.Mode, name: spec.Name})
	}

	conds := l.interp.Conditions()
	for _, spec := range m.Conditions {
		target, ok := conds.Lookup(spec.Target)
		if !ok {
			return usage.AddonManifest(m.Path, fmt.Errorf("condition %s: unknown target %q", spec.Name, spec.Target))
		}
		if spec.Arity != 0 && spec.Arity != target.Arity() {
			return usage.AddonManifest(m.Path, fmt.Errorf("condition %s: arity %d does not match %s (%d)",
				spec.Name, spec.Arity, target.Name(), target.Arity()))
		}
		if err := conds.Register(m.Name, uesh.Alias(spec.Name, target, spec.Position)); err != nil {
			return usage.AddonManifest(m.Path, err)
		}
		a.conditions = append(a.conditions, spec.Name)
	}
	return nil
}

// restore registers prev again after a failed reload.
func (l *Loader) restore(prev *Addon) {
	if err := l.register(prev); err != nil {
		l.unregister(prev)
		log.Error("addon: restore %s failed, addon unloaded: %v", prev.Manifest.Name, err)
		return
	}
	l.loaded[prev.Manifest.Name] = prev
	log.Warn("addon: kept %s %s after failed reload", prev.Manifest.Name, prev.Manifest.Version)
}

func (l *Loader) unregister(a *Addon) {
	reg := l.executor.Registry()
	for _, r := range a.commands {
		if err := reg.Unregister(r.mode, r.name); err != nil {
			log.Warn("addon: unregister %s/%s: %v", r.mode, r.name, err)
		}
	}
	for _, name := range a.conditions {
		if err := l.interp.Conditions().Unregister(name); err != nil {
			log.Warn("addon: unregister condition %s: %v", name, err)
		}
	}
	a.commands = nil
	a.conditions = nil
}

func (l *Loader) descriptor(m *Manifest, spec CommandSpec) (*dispatchers.CommandDescriptor, error) {
	var handler dispatchers.Handler
	switch spec.Kind {
	case KindAlias:
		name, err := dispatchers.CommandName(spec.Target)
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", spec.Name, err)
		}
		if name == spec.Name {
			return nil, fmt.Errorf("command %s: alias refers to itself", spec.Name)
		}
		handler = aliasHandler{executor: l.executor, target: spec.Target}
	case KindScript:
		handler = scriptHandler{executor: l.executor, interp: l.interp, path: m.ScriptPath(spec.Target)}
	}

	var sets []dispatchers.ArgumentSet
	if len(spec.Args) > 0 {
		parts := make([]dispatchers.ArgumentPart, len(spec.Args))
		for i, a := range spec.Args {
			parts[i] = dispatchers.ArgumentPart{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
				Numeric:     a.Numeric,
			}
		}
		sets = []dispatchers.ArgumentSet{{Parts: parts}}
	}

	summary := spec.Description
	if summary == "" {
		summary = fmt.Sprintf("%s %s", spec.Kind, spec.Target)
	}

	return &dispatchers.CommandDescriptor{
		Name:                spec.Name,
		Summary:             summary,
		ArgumentSets:        sets,
		Handler:             handler,
		SupportsRedirection: true,
		Hidden:              spec.Hidden,
		Category:            dispatchers.CategoryAddons,
		Origin:              m.Name,
	}, nil
}

// Unload removes the named addon.
func (l *Loader) Unload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.loaded[name]
	if !ok {
		return fmt.Errorf("addon: %s is not loaded", name)
	}
	l.unregister(a)
	delete(l.loaded, name)
	log.Info("addon: unloaded %s", name)
	return nil
}

// UnloadPath removes the addon loaded from path and returns its name.
func (l *Loader) UnloadPath(path string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for name, a := range l.loaded {
		if a.Manifest.Path == path {
			l.unregister(a)
			delete(l.loaded, name)
			log.Info("addon: unloaded %s after %s was removed", name, path)
			return name, true
		}
	}
	return "", false
}

// LoadDir loads every manifest below dir. Failing manifests are skipped and
// their errors joined.
func (l *Loader) LoadDir(dir string) (int, error) {
	paths, err := Discover(dir)
	if err != nil {
		return 0, err
	}

	var (
		loaded int
		errs   []error
	)
	for _, p := range paths {
		if _, err := l.Load(p); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// Reload unloads every addon and loads dir again.
func (l *Loader) Reload(dir string) (int, error) {
	l.mu.Lock()
	for name, a := range l.loaded {
		l.unregister(a)
		delete(l.loaded, name)
	}
	l.mu.Unlock()
	return l.LoadDir(dir)
}

// List returns the loaded addons sorted by name.
func (l *Loader) List() []*Addon {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Addon, 0, len(l.loaded))
	for _, a := range l.loaded {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Manifest.Name < out[j].Manifest.Name })
	return out
}

func streamsOf(inv *dispatchers.Invocation) dispatchers.Streams {
	return dispatchers.Streams{Stdout: inv.Stdout, Stderr: inv.Stderr, Interactive: !inv.Dumb}
}

type aliasHandler struct {
	executor *dispatchers.Executor
	target   string
}

func (h aliasHandler) Execute(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	depth, _ := ctx.Value(aliasDepthKey{}).(int)
	if depth >= maxAliasDepth {
		return dispatchers.CodeFailure, fmt.Errorf("alias nesting deeper than %d", maxAliasDepth)
	}
	ctx = context.WithValue(ctx, aliasDepthKey{}, depth+1)

	line := h.target
	if inv.Parsed.Raw != "" {
		line += " " + inv.Parsed.Raw
	}
	res := h.executor.Run(ctx, inv.Shell, line, streamsOf(inv))
	return res.Code, res.Err
}

type scriptHandler struct {
	executor *dispatchers.Executor
	interp   *uesh.Interpreter
	path     string
}

func (h scriptHandler) Execute(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	script, err := uesh.Load(h.path)
	if err != nil {
		return dispatchers.CodeFailure, err
	}
	target := uesh.ExecutorTarget{Executor: h.executor, Shell: inv.Shell, Streams: streamsOf(inv)}
	if err := h.interp.Run(ctx, script, target, inv.Args()); err != nil {
		return usage.ExitCodeOf(err), err
	}
	return dispatchers.CodeSuccess, nil
}
