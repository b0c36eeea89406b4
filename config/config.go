// Package config loads and persists user configuration from a YAML
// file under the user's config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// envAPIKey is the environment variable holding the OpenRouter key.
const envAPIKey = "OPENROUTER_API_KEY"

// Config is the persisted user configuration.
type Config struct {
	// AutoCommit commits without the interactive review.
	AutoCommit bool `yaml:"auto_commit"`

	// CommitAfterBranch commits right after a branch is created.
	CommitAfterBranch bool `yaml:"commit_after_branch"`

	// Model overrides the default completion model.
	Model string `yaml:"model,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}
}

// Path returns the config file location, honoring XDG via
// os.UserConfigDir.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "commitflow", "config.yaml"), nil
}

// Load reads the config from the default path. A missing file yields
// the defaults, not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from path. A missing file yields the
// defaults.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the default path, creating parent
// directories as needed.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path.
func (c Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// APIKey returns the completion API key from the environment.
func APIKey() string {
	return os.Getenv(envAPIKey)
}
