package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// APIBaseURL is the root URL of the catalog service.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// DBPath is the location of the local SQLite database.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// StatePath is the location of the persisted app-state document.
	StatePath string `mapstructure:"state_path" yaml:"state_path"`

	// SyncIntervalHours is how often the background sync runs.
	SyncIntervalHours int `mapstructure:"sync_interval_hours" yaml:"sync_interval_hours"`

	// FetchTimeoutSec bounds a single catalog request.
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/collection-tracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "collection-tracker", "config.yaml")
}

// defaultDataDir returns the directory holding the database and state files.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "collection-tracker")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		APIBaseURL:        "https://catalog.collection-tracker.dev/api/v1",
		DBPath:            filepath.Join(dataDir, "catalog.db"),
		StatePath:         filepath.Join(dataDir, "app_state.json"),
		SyncIntervalHours: 24,
		FetchTimeoutSec:   30,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("api_base_url", defaults.APIBaseURL)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("state_path", defaults.StatePath)
	v.SetDefault("sync_interval_hours", defaults.SyncIntervalHours)
	v.SetDefault("fetch_timeout_sec", defaults.FetchTimeoutSec)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api_base_url", cfg.APIBaseURL)
	v.Set("db_path", cfg.DBPath)
	v.Set("state_path", cfg.StatePath)
	v.Set("sync_interval_hours", cfg.SyncIntervalHours)
	v.Set("fetch_timeout_sec", cfg.FetchTimeoutSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
