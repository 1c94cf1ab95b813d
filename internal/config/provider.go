package config

import (
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Provider wraps configuration operations and implements domain.ConfigProvider.
type Provider struct{}

// NewProvider creates a new configuration provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Get returns the value for a configuration key.
func (p *Provider) Get(key string) (string, bool) {
	return Get(key)
}

// GetAll returns all configuration values.
func (p *Provider) GetAll() (map[string]string, error) {
	return GetAll()
}

// Bool returns a key as a boolean, falling back to its default.
func (p *Provider) Bool(key string) bool {
	def, _ := defaultOf(key)
	value, _ := Get(key)
	return Bool(value, Bool(def, false))
}

// Int returns a key as an integer, falling back to its default.
func (p *Provider) Int(key string) int {
	def, _ := defaultOf(key)
	value, _ := Get(key)
	return Int(value, Int(def, 0))
}

// Set validates key and persists value under the rc file lock.
func (p *Provider) Set(key, value string) error {
	if !domain.IsValidConfigKey(key) {
		return usage.InvalidConfigKey(key)
	}

	return WithLock(func() error {
		lines, err := ReadLines()
		if err != nil {
			return err
		}

		lines, _ = Set(lines, key, value)
		if err := WriteLines(lines); err != nil {
			return err
		}
		log.Info("config: %s set", key)
		return nil
	})
}

// Unset removes a configuration value so its default applies again.
func (p *Provider) Unset(key string) error {
	if !domain.IsValidConfigKey(key) {
		return usage.InvalidConfigKey(key)
	}

	return WithLock(func() error {
		lines, err := ReadLines()
		if err != nil {
			return err
		}

		lines, removed := Unset(lines, key)
		if !removed {
			return nil
		}
		if err := WriteLines(lines); err != nil {
			return err
		}
		log.Info("config: %s unset", key)
		return nil
	})
}

var _ domain.ConfigProvider = (*Provider)(nil)
