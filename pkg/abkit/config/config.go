// Package config provides provider configuration loading and saving for abkit
package config

import (
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ProviderConfig holds the settings for a single provider. The Name field is
// the key of the provider's [providers.NAME] table and is filled in by Load.
type ProviderConfig struct {
	Name        string  `toml:"-" json:"-"`
	Enabled     bool    `toml:"enabled" json:"enabled"`
	APIKey      string  `toml:"api_key" json:"api_key"`
	Model       string  `toml:"model" json:"model"`
	Temperature float64 `toml:"temperature" json:"temperature"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens"`
	BaseURL     string  `toml:"base_url,omitempty" json:"base_url,omitempty"`
}

// Settings is the full parsed configuration file
type Settings struct {
	Providers map[string]ProviderConfig `toml:"providers" json:"providers"`
}

// Load reads a TOML configuration file
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	for name, cfg := range settings.Providers {
		cfg.Name = name
		settings.Providers[name] = cfg
	}

	return &settings, nil
}

// Save writes the settings back to a TOML file, creating parent directories
// as needed.
func Save(path string, settings *Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating config directory %s", dir)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing config %s", path)
	}

	return nil
}

// ProviderList returns the configured providers sorted by name
func (s *Settings) ProviderList() []ProviderConfig {
	result := make([]ProviderConfig, 0, len(s.Providers))
	for name, cfg := range s.Providers {
		cfg.Name = name
		result = append(result, cfg)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
