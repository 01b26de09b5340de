package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file search path when set
const EnvConfigPath = "NAS_JANITOR_CONFIG"

// Default config file names to search for
var defaultConfigFiles = []string{
	".nas-janitor.yaml",
	".nas-janitor.yml",
	"nas-janitor.yaml",
	"nas-janitor.yml",
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg := fc.merge()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDefault searches for and loads configuration from default locations.
// Search order:
//  1. Current directory and parent directories (up to root)
//  2. User config directory (~/.config/nas-janitor/config.yaml)
//
// No config file found is not an error; built-in defaults apply.
func LoadDefault() (*Config, error) {
	if cfg, err := findInParents("."); err == nil {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".config", "nas-janitor", "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return Load(userConfigPath)
		}
	}

	return Default(), nil
}

// LoadFromEnv loads config from the path in NAS_JANITOR_CONFIG when set,
// otherwise from default locations
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}
	return LoadDefault()
}

// findInParents searches for a config file in the current directory and
// its parents
func findInParents(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, filename := range defaultConfigFiles {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return Load(configPath)
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return nil, fmt.Errorf("no config file found")
}
