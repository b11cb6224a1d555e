package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings so the written
// YAML stays human-editable ("10s" rather than 10000000000).
type fileConfig struct {
	Version int `yaml:"version"`
	API     struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Auth      AuthConfig      `yaml:"auth,omitempty"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
}

// Marshal renders the config as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.API.BaseURL = cfg.API.BaseURL
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.Auth = cfg.Auth
	fc.Dashboard = cfg.Dashboard
	fc.Metrics = cfg.Metrics
	fc.Log = cfg.Log

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Write validates the config and writes it to path with owner-only permissions,
// since it may carry a bearer token.
func Write(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
