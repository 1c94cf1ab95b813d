// Package addon loads addon manifests that contribute commands and condition
// plugins at runtime, and keeps them in sync with the addon directory.
package addon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Command kinds.
const (
	// KindAlias runs a command line with the invocation's arguments appended.
	KindAlias = "alias"
	// KindScript runs a UESH script with the invocation's arguments as $1..$n.
	KindScript = "script"
)

// DefaultMode is the shell mode of commands that do not name one.
const DefaultMode = "Shell"

// Manifest describes one addon.
type Manifest struct {
	Name        string          `toml:"name" yaml:"name"`
	Version     string          `toml:"version" yaml:"version"`
	Description string          `toml:"description" yaml:"description"`
	Commands    []CommandSpec   `toml:"commands" yaml:"commands"`
	Conditions  []ConditionSpec `toml:"conditions" yaml:"conditions"`

	// Path is the file the manifest was read from.
	Path string `toml:"-" yaml:"-"`
}

// CommandSpec is a command contributed by an addon.
type CommandSpec struct {
	Name        string    `toml:"name" yaml:"name"`
	Mode        string    `toml:"mode" yaml:"mode"`
	Description string    `toml:"description" yaml:"description"`
	Kind        string    `toml:"kind" yaml:"kind"`
	Target      string    `toml:"target" yaml:"target"`
	Args        []ArgSpec `toml:"args" yaml:"args"`
	Hidden      bool      `toml:"hidden" yaml:"hidden"`
}

// ArgSpec is a positional argument of an addon command.
type ArgSpec struct {
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
	Required    bool   `toml:"required" yaml:"required"`
	Numeric     bool   `toml:"numeric" yaml:"numeric"`
}

// ConditionSpec is a condition alias contributed by an addon.
type ConditionSpec struct {
	Name     string `toml:"name" yaml:"name"`
	Kind     string `toml:"kind" yaml:"kind"`
	Target   string `toml:"target" yaml:"target"`
	Position int    `toml:"position" yaml:"position"`
	Arity    int    `toml:"arity" yaml:"arity"`
}

// IsManifest reports whether path names an addon manifest.
func IsManifest(path string) bool {
	base := filepath.Base(path)
	for _, ext := range []string{".addon.toml", ".addon.yaml", ".addon.yml"} {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			return true
		}
	}
	return false
}

// ReadManifest decodes and validates the manifest at path. The format
// follows the extension.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, usage.AddonManifest(path, err)
	}

	var m Manifest
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = fmt.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, usage.AddonManifest(path, err)
	}

	m.Path = path
	if err := m.Validate(); err != nil {
		return nil, usage.AddonManifest(path, err)
	}
	return &m, nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\r\n\"$")
}

// Validate checks the manifest and fills in defaults.
func (m *Manifest) Validate() error {
	if !validName(m.Name) {
		return fmt.Errorf("invalid addon name %q", m.Name)
	}
	if len(m.Commands) == 0 && len(m.Conditions) == 0 {
		return fmt.Errorf("addon %s contributes nothing", m.Name)
	}

	seen := make(map[string]bool)
	for i := range m.Commands {
		c := &m.Commands[i]
		if c.Mode == "" {
			c.Mode = DefaultMode
		}
		if c.Kind == "" {
			c.Kind = KindAlias
		}
		if !validName(c.Name) {
			return fmt.Errorf("command %d: invalid name %q", i+1, c.Name)
		}
		key := c.Mode + "/" + c.Name
		if seen[key] {
			return fmt.Errorf("command %s declared twice", key)
		}
		seen[key] = true

		switch c.Kind {
		case KindAlias, KindScript:
		default:
			return fmt.Errorf("command %s: unknown kind %q", c.Name, c.Kind)
		}
		if strings.TrimSpace(c.Target) == "" {
			return fmt.Errorf("command %s: empty target", c.Name)
		}
		for _, a := range c.Args {
			if !validName(a.Name) {
				return fmt.Errorf("command %s: invalid argument name %q", c.Name, a.Name)
			}
		}
	}

	for i := range m.Conditions {
		c := &m.Conditions[i]
		if c.Kind == "" {
			c.Kind = KindAlias
		}
		if !validName(c.Name) {
			return fmt.Errorf("condition %d: invalid name %q", i+1, c.Name)
		}
		if c.Kind != KindAlias {
			return fmt.Errorf("condition %s: unknown kind %q", c.Name, c.Kind)
		}
		if c.Target == "" {
			return fmt.Errorf("condition %s: empty target", c.Name)
		}
		if c.Position < 0 || c.Arity < 0 {
			return fmt.Errorf("condition %s: negative position or arity", c.Name)
		}
	}
	return nil
}

// ScriptPath resolves a script target relative to the manifest directory.
func (m *Manifest) ScriptPath(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(m.Path), target)
}
