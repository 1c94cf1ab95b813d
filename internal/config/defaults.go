package config

import (
	"strconv"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/paths"
)

// dynamicDefaults holds defaults that depend on the environment.
var dynamicDefaults = map[string]func() string{
	"addon_dir": paths.AddonDir,
}

// Defaults maps every known key to its default value (in code, not persisted).
var Defaults = buildDefaults()

func buildDefaults() map[string]func() string {
	out := make(map[string]func() string, len(domain.ConfigKeys))
	for _, key := range domain.ConfigKeys {
		if fn, ok := dynamicDefaults[key.Name]; ok {
			out[key.Name] = fn
			continue
		}
		value := key.Default
		out[key.Name] = func() string { return value }
	}
	return out
}

func defaultOf(key string) (string, bool) {
	if fn, ok := Defaults[key]; ok {
		return fn(), true
	}
	return "", false
}

// Get returns the value for a config key.
// It checks the config file first, then falls back to the default.
func Get(key string) (string, bool) {
	lines, err := ReadLines()
	if err != nil {
		return defaultOf(key)
	}

	cfg, err := Parse(lines)
	if err != nil {
		return defaultOf(key)
	}

	if value, exists := cfg[key]; exists {
		return value, true
	}

	return defaultOf(key)
}

// GetAll returns all config values (user overrides merged with defaults).
func GetAll() (map[string]string, error) {
	result := make(map[string]string)

	for key, valueFn := range Defaults {
		result[key] = valueFn()
	}

	lines, err := ReadLines()
	if err != nil {
		return result, nil
	}

	cfg, err := Parse(lines)
	if err != nil {
		return result, nil
	}

	for key, value := range cfg {
		result[key] = value
	}

	return result, nil
}

// Bool interprets a config value as a boolean. Unparseable values yield def.
func Bool(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

// Int interprets a config value as an integer. Unparseable values yield def.
func Int(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}
