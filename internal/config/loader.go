package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalPath is the project-local override file.
const LocalPath = "configs/b18print.yaml"

// Load builds the configuration for one invocation.
// The embedded defaults are decoded first; the first override found is then
// decoded on top of them, so only the keys it names change.
// Search order: customPath -> ~/.b18print/config.yaml -> ./configs/b18print.yaml
func Load(customPath string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return cfg, err
	}

	// Try custom path first; it must exist
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := overlay(&cfg, data); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("config.yaml"), LocalPath} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := overlay(&cfg, data); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		break
	}

	return cfg, cfg.Validate()
}

// Parse decodes data over the defaults without touching the filesystem.
func Parse(data []byte) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return cfg, err
	}
	if err := overlay(&cfg, data); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// defaults decodes the embedded YAML, falling back to the hardcoded values.
func defaults() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func overlay(cfg *Config, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".b18print", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
