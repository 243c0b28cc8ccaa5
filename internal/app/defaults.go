package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"desksort/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DESKSORT_CONFIG_PATH: config file location (default: ~/.config/desksort.toml)
//   - DESKSORT_HOME: base directory for desksort data (default: ~/.local/share/desksort)
//   - DESKSORT_DESKTOP: desktop directory to organize (default: ~/Desktop)
func GetDefaults() (map[string]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	configPath := envOr("DESKSORT_CONFIG_PATH", filepath.Join(homeDir, ".config", "desksort.toml"))
	baseDir := envOr("DESKSORT_HOME", filepath.Join(homeDir, ".local", "share", "desksort"))
	desktopDir := envOr("DESKSORT_DESKTOP", filepath.Join(homeDir, "Desktop"))

	return map[string]string{
		"config_path":        configPath,
		"base_dir":           baseDir,
		"log_dir":            filepath.Join(baseDir, "log"),
		"desktop_dir":        desktopDir,
		"shared_desktop_dir": sharedDesktopDir(),
	}, nil
}

// DefaultConfig builds the config used when no config file exists.
func DefaultConfig(defaults map[string]string) *config.Config {
	cfg := config.NewConfig(defaults["base_dir"], defaults["desktop_dir"])
	cfg.SharedDesktopDir = defaults["shared_desktop_dir"]
	return cfg
}

// LoadConfig reads the config file named by defaults over DefaultConfig.
func LoadConfig(defaults map[string]string) (*config.Config, error) {
	return config.Load(defaults["config_path"], DefaultConfig(defaults))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sharedDesktopDir is the all-users desktop. Only Windows has one.
func sharedDesktopDir() string {
	if runtime.GOOS != "windows" {
		return ""
	}
	public := os.Getenv("PUBLIC")
	if public == "" {
		public = `C:\Users\Public`
	}
	return filepath.Join(public, "Desktop")
}
