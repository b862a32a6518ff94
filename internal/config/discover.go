package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath names the environment variable that overrides discovery.
const EnvConfigPath = "STINGRAY_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./stingray.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "stingray", "config.toml")
}

// Discover finds the config file. Search order:
//  1. STINGRAY_CONFIG
//  2. ./stingray.toml
//  3. $XDG_CONFIG_HOME/stingray/config.toml
//  4. /etc/stingray/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./stingray.toml",
		DefaultPath(),
		"/etc/stingray/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
