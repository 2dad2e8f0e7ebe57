// Package config reads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds everything the front ends need to wire up a session.
type Config struct {
	LogLevel  slog.Level
	RedisAddr string // empty means no redis; saves go to SaveDir
	SaveKey   string
	SaveDir   string
}

// Load reads configuration from MISHAP_* environment variables,
// falling back to local-play defaults.
func Load() *Config {
	return &Config{
		LogLevel:  parseLogLevel(getEnv("MISHAP_LOG_LEVEL", "warn")),
		RedisAddr: os.Getenv("MISHAP_REDIS_ADDR"),
		SaveKey:   getEnv("MISHAP_SAVE_KEY", "mishap_save"),
		SaveDir:   getEnv("MISHAP_SAVE_DIR", defaultSaveDir()),
	}
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "saves"
	}
	return filepath.Join(home, ".mishap", "saves")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
