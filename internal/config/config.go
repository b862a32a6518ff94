// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Sync     SyncConfig     `toml:"sync"`
	Playback PlaybackConfig `toml:"playback"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig describes the Jellyfin server and how this client presents
// itself to it.
type ServerConfig struct {
	URL           string   `toml:"url"`
	DeviceName    string   `toml:"device_name"`
	DeviceID      string   `toml:"device_id"`
	ClientName    string   `toml:"client_name"`
	ClientVersion string   `toml:"client_version"`
	Timeout       Duration `toml:"timeout"`
	RetryAttempts uint     `toml:"retry_attempts"`
}

// AuthConfig selects credentials. Profile names a stored login; UserID and
// Token override it when both are set.
type AuthConfig struct {
	Profile string `toml:"profile"`
	UserID  string `toml:"user_id"`
	Token   string `toml:"token"`
}

type SyncConfig struct {
	Concurrency             int      `toml:"concurrency"`
	PageSize                int      `toml:"page_size"`
	ExcludedCollectionKinds []string `toml:"excluded_collection_kinds"`
}

type PlaybackConfig struct {
	ReportInterval Duration `toml:"report_interval"`
	MaxBitrate     int      `toml:"max_bitrate"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a configuration with every default applied and no server.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. Unresolved environment
// variables and validation failures are returned together as *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return &cfg, cerr
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.DeviceName == "" {
		c.Server.DeviceName = "stingray"
	}
	if c.Server.DeviceID == "" {
		c.Server.DeviceID = uuid.NewString()
	}
	if c.Server.ClientName == "" {
		c.Server.ClientName = "Stingray"
	}
	if c.Server.ClientVersion == "" {
		c.Server.ClientVersion = "1.0.0"
	}
	if c.Server.Timeout.Duration == 0 {
		c.Server.Timeout.Duration = 30 * time.Second
	}
	if c.Server.RetryAttempts == 0 {
		c.Server.RetryAttempts = 1
	}

	if c.Sync.Concurrency == 0 {
		c.Sync.Concurrency = 2
	}
	if c.Sync.PageSize == 0 {
		c.Sync.PageSize = 100
	}
	if c.Sync.ExcludedCollectionKinds == nil {
		c.Sync.ExcludedCollectionKinds = []string{"boxsets"}
	}

	if c.Playback.ReportInterval.Duration == 0 {
		c.Playback.ReportInterval.Duration = time.Second
	}

	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath()
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
}

// DefaultDatabasePath returns the XDG data location of the profile store.
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./stingray.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "stingray", "profiles.db")
}
