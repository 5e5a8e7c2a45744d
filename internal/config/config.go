// Package config provides configuration loading and structs for the Bunseki server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Usage    UsageConfig    `yaml:"usage"`
	OCR      OCRConfig      `yaml:"ocr"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ProviderConfig holds generation provider settings. The API key is
// read from the named environment variable, never from the file.
type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// APIKey returns the provider key from the configured environment variable.
func (p *ProviderConfig) APIKey() string {
	return os.Getenv(p.APIKeyEnv)
}

// UsageConfig holds the daily-usage database path.
type UsageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// OCRConfig holds optical character recognition settings.
type OCRConfig struct {
	Enabled   *bool    `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

// EnabledOrDefault returns whether OCR is enabled; defaults to true when unset.
func (o *OCRConfig) EnabledOrDefault() bool {
	if o.Enabled != nil {
		return *o.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Usage.DatabasePath = expandPath(cfg.Usage.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
