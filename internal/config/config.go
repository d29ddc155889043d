package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port     int
	GinMode  string
	LogLevel string
	DataDir  string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. The .env file, if present, is loaded by the
// godotenv/autoload import in the server package before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     mustInt("PORT", 8484),
		GinMode:  mustEnv("GIN_MODE", "release"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),
		DataDir:  mustEnv("DBCHAT_DATA_DIR", ""),
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	return cfg, nil
}

// defaultDataDir resolves the per-user application data directory for
// the running platform.
func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "dbchat", "data"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "dbchat", "data"), nil
	default:
		return filepath.Join(home, ".config", "dbchat", "data"), nil
	}
}

func mustEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
