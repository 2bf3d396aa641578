// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port        int
	DBPath      string
	LogLevel    string
	Environment string

	// Timezone decides the daylight-saving cutoff of special time.
	Timezone string

	// StandardHours is the daily standard used when a request omits it.
	StandardHours float64

	CORSOrigins []string

	// RateReloadSpec is the cron spec for reloading stored rate schedules.
	// Empty disables the reload job.
	RateReloadSpec string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*Config, error) {
	// godotenv.Load does not override variables already set.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	standard, err := strconv.ParseFloat(getEnv("STANDARD_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_HOURS: %w", err)
	}
	if standard < 0 {
		return nil, fmt.Errorf("invalid STANDARD_HOURS: %v is negative", standard)
	}

	return &Config{
		Port:           port,
		DBPath:         getEnv("DB_PATH", "shiftpay.db"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:    strings.ToLower(getEnv("ENVIRONMENT", "development")),
		Timezone:       getEnv("TIMEZONE", "Asia/Jerusalem"),
		StandardHours:  standard,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		RateReloadSpec: getEnv("RATE_RELOAD_SPEC", "*/15 * * * *"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
