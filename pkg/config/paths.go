package config

import (
	"os"
	"path/filepath"
)

const (
	configDirEnv   = "HUBCTL_CONFIG_DIR"
	configDirName  = "hubctl"
	configFileName = "config.yml"
	hostsFileName  = "hosts.yml"
)

// Dir returns the directory holding hubctl's configuration documents.
// HUBCTL_CONFIG_DIR overrides the platform default.
func Dir() string {
	if env := os.Getenv(configDirEnv); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, configDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+configDirName)
}

// ConfigFile returns the path of the global configuration document.
func ConfigFile() string {
	return filepath.Join(Dir(), configFileName)
}

// HostsFile returns the path of the per-host credential document.
func HostsFile() string {
	return filepath.Join(Dir(), hostsFileName)
}
