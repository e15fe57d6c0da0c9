// Package config resolves spacerep's directories and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const appDir = "spacerep"

// Config holds the CLI-level settings. The core pipeline takes these as
// parameters; nothing in it reads files or environment variables
// itself.
type Config struct {
	BaseURL        string            `yaml:"base_url"`
	HomepageURL    string            `yaml:"homepage_url"`
	UserAgent      string            `yaml:"user_agent"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	ChunkSizeBytes int               `yaml:"chunk_size_bytes"`
	Encoding       string            `yaml:"encoding"`
	Datasets       map[string]string `yaml:"datasets"`
}

// Default returns the GCAT-pointing defaults, including shortcuts for
// the dataset files the project ingests.
func Default() Config {
	return Config{
		BaseURL:        "https://planet4589.org/space/gcat/",
		HomepageURL:    "https://planet4589.org/space/gcat/",
		UserAgent:      "spacerep/1.0",
		TimeoutSeconds: 60,
		ChunkSizeBytes: 1 << 20,
		Encoding:       "utf-8",
		Datasets: map[string]string{
			"launch-vehicles": "tsv/tables/lv.tsv",
			"launch-catalog":  "tsv/cat/lcat.tsv",
		},
	}
}

// Load returns the defaults overlaid with config.yaml from the config
// directory, when present.
func Load() (Config, error) {
	cfg := Default()

	configDir, err := GetConfigDir()
	if err != nil {
		return cfg, err
	}
	path := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigDir returns the directory for spacerep's config file.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appDir), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	return filepath.Join(home, ".config", appDir), nil
}

// GetDataDir returns the directory for spacerep's local data (the
// SQLite destination database lives here).
func GetDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appDir), nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	return filepath.Join(home, ".local", "share", appDir), nil
}
