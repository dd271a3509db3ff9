// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the ledger service.
type Config struct {
	LogLevel string
	DBPath   string

	MetricsAddr         string
	OverdueScanInterval time.Duration
}

// Load reads configuration from environment variables, honoring a local
// .env file when present, and applies defaults.
func Load() *Config {
	// Missing env files are fine; plain env vars still apply.
	_ = godotenv.Load(".env.local", ".env")

	return &Config{
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBPath:              getEnv("DB_PATH", "./data/ledger.db"),
		MetricsAddr:         getEnv("METRICS_ADDR", ":9090"),
		OverdueScanInterval: getDurationEnv("OVERDUE_SCAN_INTERVAL", time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
