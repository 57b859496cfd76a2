// Package config centralises configuration parsing for the exercise tracker.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the tracker.
type Config struct {
	HTTPAddress        string
	DatabaseURL        string // empty selects the in-memory repositories
	KafkaBrokers       []string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	StaticDir          string
}

// Load reads environment variables into Config, applying sensible defaults for
// local dev. PORT is honored as a bare port number when HTTP_ADDRESS is unset.
func Load() Config {
	cfg := Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		StaticDir:          getEnv("STATIC_DIR", "web"),
	}

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = ":" + getEnv("PORT", "3000")
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
