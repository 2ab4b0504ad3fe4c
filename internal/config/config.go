// Package config loads the server's persistent configuration file. File
// settings are layered over the engine defaults; unset fields leave the
// default untouched.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
)

// Config holds the user's persistent configuration preferences. Pointer
// fields distinguish "unset" from an explicit zero value.
type Config struct {
	PythonImage    string   `json:"python_image,omitempty"`
	AlpineImage    string   `json:"alpine_image,omitempty"`
	MemoryLimit    string   `json:"memory_limit,omitempty"`
	CPULimit       *float64 `json:"cpu_limit,omitempty"`
	Timeout        *int     `json:"timeout,omitempty"`
	CommandTimeout *int     `json:"command_timeout,omitempty"`
	NetworkAccess  *bool    `json:"network_access,omitempty"`
	MaxOutputSize  *int     `json:"max_output_size,omitempty"`
	OutputEncoding string   `json:"output_encoding,omitempty"`
	NonRootUser    *bool    `json:"non_root_user,omitempty"`
	EnablePython   *bool    `json:"enable_python,omitempty"`
	EnableBash     *bool    `json:"enable_bash,omitempty"`
	LogLevel       string   `json:"log_level,omitempty"`
}

// Apply overlays the set fields onto a base engine configuration.
func (c *Config) Apply(base sandbox.Config) sandbox.Config {
	if c.PythonImage != "" {
		base.PythonImage = c.PythonImage
	}
	if c.AlpineImage != "" {
		base.AlpineImage = c.AlpineImage
	}
	if c.MemoryLimit != "" {
		base.MemoryLimit = c.MemoryLimit
	}
	if c.CPULimit != nil {
		base.CPULimit = *c.CPULimit
	}
	if c.Timeout != nil {
		base.Timeout = *c.Timeout
	}
	if c.CommandTimeout != nil {
		base.CommandTimeout = *c.CommandTimeout
	}
	if c.NetworkAccess != nil {
		base.NetworkAccess = *c.NetworkAccess
	}
	if c.MaxOutputSize != nil {
		base.MaxOutputSize = *c.MaxOutputSize
	}
	if c.OutputEncoding != "" {
		base.OutputEncoding = c.OutputEncoding
	}
	if c.NonRootUser != nil {
		base.NonRootUser = *c.NonRootUser
	}
	if c.EnablePython != nil {
		base.EnablePython = *c.EnablePython
	}
	if c.EnableBash != nil {
		base.EnableBash = *c.EnableBash
	}
	return base
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a configuration manager rooted at the user config dir.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{configDir: filepath.Join(configDir, "crucible")}, nil
}

// NewManagerAt creates a manager rooted at an explicit directory.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk. If the file does not exist, it
// returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}
