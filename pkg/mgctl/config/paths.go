package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName = "mgctl"
	defaultConfigFile    = "config.yaml"
)

// DefaultConfigPath resolves where mgctl looks for its config file:
// MGCTL_CONFIG wins, then the user config dir, then ~/.mgctl.
func DefaultConfigPath() string {
	if env := os.Getenv("MGCTL_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mgctl", defaultConfigFile)
}
