package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort        string
	LogLevel       slog.Level
	LogFormat      string
	ModelBaseURL   string
	ModelAPIKey    string
	ModelName      string
	ProbeInterval  time.Duration
	DBPath         string
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:      getEnv("API_PORT", "8080"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		ModelBaseURL: getEnv("MODEL_BASE_URL", "http://localhost:8081"),
		ModelAPIKey:  getEnv("MODEL_API_KEY", "dummy-key"),
		ModelName:    getEnv("MODEL_NAME", "medassist-tinyllama-lora"),
		DBPath:       getEnv("DB_PATH", "./data/medassist.db"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	probeInterval, err := parseSeconds("MODEL_PROBE_INTERVAL_SECONDS", "5")
	if err != nil {
		return nil, err
	}
	cfg.ProbeInterval = probeInterval

	rateLimit, err := strconv.Atoi(getEnv("CHAT_RATE_LIMIT", "30"))
	if err != nil {
		return nil, fmt.Errorf("CHAT_RATE_LIMIT must be a valid integer: %w", err)
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("CHAT_RATE_LIMIT must be greater than 0")
	}
	cfg.ChatRateLimit = rateLimit

	rateWindow, err := parseSeconds("CHAT_RATE_WINDOW_SECONDS", "60")
	if err != nil {
		return nil, err
	}
	cfg.ChatRateWindow = rateWindow

	// Create ./data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel maps a level name to a slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", name)
	}
}

// parseSeconds reads an environment variable holding a positive whole number
// of seconds and returns it as a duration.
func parseSeconds(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return time.Duration(seconds) * time.Second, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
