// Package config loads the application configuration from an optional
// config.yaml plus environment variables (including a .env file).
// Environment values override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the storage locations and presentation settings. Empty
// path fields are resolved to their defaults by pathutil.
type Config struct {
	// Home is the data directory; everything else defaults under it.
	Home string `yaml:"home"`
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// ReceiptsDir holds the copied receipt attachments.
	ReceiptsDir string `yaml:"receipts_dir"`
	// LegacyCSV is the flat-file store from the previous generation of
	// the tool, imported once on first use.
	LegacyCSV string `yaml:"legacy_csv"`
	// Currency is the symbol used when printing amounts.
	Currency string `yaml:"currency"`
}

// Load builds the configuration. envPath optionally names a .env file;
// when empty, a .env in the current directory is loaded if present.
// After that, {home}/config.yaml is read if it exists, and finally any
// PAGTO_* environment variables override the file values.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{Currency: "R$"}

	home := os.Getenv("PAGTO_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, ".pagto")
	}
	cfg.Home = home

	if err := loadYAML(filepath.Join(home, "config.yaml"), cfg); err != nil {
		return nil, err
	}

	// Env overrides win over the file.
	cfg.Home = home
	if v := os.Getenv("PAGTO_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PAGTO_RECEIPTS_DIR"); v != "" {
		cfg.ReceiptsDir = v
	}
	if v := os.Getenv("PAGTO_LEGACY_CSV"); v != "" {
		cfg.LegacyCSV = v
	}
	if v := os.Getenv("PAGTO_CURRENCY"); v != "" {
		cfg.Currency = v
	}

	return cfg, nil
}

// loadYAML merges an optional YAML config file into cfg. A missing
// file is not an error.
func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Currency == "" {
		cfg.Currency = "R$"
	}
	return nil
}
