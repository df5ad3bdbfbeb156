// Package config provides environment-based configuration for the
// advisory backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultHTTPPort is the default port for the API server.
	DefaultHTTPPort = 8080

	// DefaultGeminiModel is the generative model used by the chat
	// assistant.
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultReminderAge is how old a pending escalation must be
	// before the reminder sweep re-notifies the assigned officer.
	DefaultReminderAge = 24 * time.Hour
)

// Config holds all runtime configuration.
type Config struct {
	HTTPPort int

	// Database
	DatabaseURL string
	MaxConns    int

	// Third-party APIs
	GeminiAPIKey      string
	GeminiModel       string
	OpenWeatherAPIKey string

	// Reminder sweep
	ReminderCronSpec string
	ReminderAge      time.Duration

	// CORS origins allowed to call the API (comma separated).
	AllowedOrigins []string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and an optional
// .env file. Existing env variables are never overridden by the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         DefaultHTTPPort,
		MaxConns:         10,
		GeminiModel:      DefaultGeminiModel,
		ReminderCronSpec: "0 * * * *",
		ReminderAge:      DefaultReminderAge,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is not set")
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_PORT: %w", err)
		}
		cfg.HTTPPort = port
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
		}
		cfg.MaxConns = n
	}

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	if v := os.Getenv("REMINDER_CRON_SPEC"); v != "" {
		cfg.ReminderCronSpec = v
	}

	if v := os.Getenv("REMINDER_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REMINDER_AGE: %w", err)
		}
		cfg.ReminderAge = d
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}
