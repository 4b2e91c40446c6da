// Package project persists player settings, GCode profiles, party templates
// and played games as JSON files under ~/.cakecut.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/CakeCut/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.cakecut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cakecut")
}

// DefaultConfigPath returns the default path for the player config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveConfig persists a PlayerConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveConfig(path string, config model.PlayerConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads a PlayerConfig from the given path. Fields missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultPlayerConfig with no error.
func LoadConfig(path string) (model.PlayerConfig, error) {
	config := model.DefaultPlayerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.PlayerConfig{}, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.PlayerConfig{}, err
	}
	config.Normalize()
	return config, nil
}
