// ABOUTME: Lifelog configuration management with storage factory.
// ABOUTME: Handles settings, scan defaults, and config file persistence.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/storage"
)

// DefaultListenAddr is where the API server binds when unconfigured.
const DefaultListenAddr = ":8787"

// Config stores lifelog tool configuration.
type Config struct {
	// DataDir is the root directory for data storage; lifelog.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lifelog.
	DataDir string `json:"data_dir,omitempty"`

	// ListenAddr is the bind address for the API server.
	ListenAddr string `json:"listen_addr,omitempty"`

	// UserID identifies the local user for CLI operations. Defaults to "default".
	UserID string `json:"user_id,omitempty"`

	// MaxLagDays overrides the default lag window for correlation scans.
	MaxLagDays int `json:"max_lag_days,omitempty"`

	// MinSamples overrides the minimum aligned days required per pair.
	MinSamples int `json:"min_samples,omitempty"`

	// Workers overrides the scan worker count.
	Workers int `json:"workers,omitempty"`

	// AutoSync pushes curation changes to Charm Cloud after each update.
	AutoSync bool `json:"auto_sync,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListenAddr returns the configured bind address, defaulting to DefaultListenAddr.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// GetUserID returns the configured CLI user, defaulting to "default".
func (c *Config) GetUserID() string {
	if c.UserID == "" {
		return "default"
	}
	return c.UserID
}

// ScanOptions builds scan options from config overrides, leaving
// zero values for Normalize to fill with defaults. A zero-lag-only scan
// is requested per invocation (flag or API field), not from config.
func (c *Config) ScanOptions() models.ScanOptions {
	opts := models.ScanOptions{
		MinSampleSize: c.MinSamples,
		Workers:       c.Workers,
	}
	if c.MaxLagDays > 0 {
		opts.MaxLagDays = &c.MaxLagDays
	}
	return opts.Normalize()
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository under the configured data directory.
func (c *Config) OpenStorage() (storage.Repository, error) {
	dbPath := filepath.Join(c.GetDataDir(), "lifelog.db")
	return storage.Open(dbPath)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lifelog", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
