package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Insights
	ReminderLeadDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	leadDays, err := getEnvInt("REMINDER_LEAD_DAYS", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                getEnv("ENV", "development"),
		RateLimitPerMinute: rateLimit,
		RateLimitBurst:     burst,
		ReminderLeadDays:   leadDays,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.ReminderLeadDays < 1 || c.ReminderLeadDays > 28 {
		return fmt.Errorf("REMINDER_LEAD_DAYS must be between 1 and 28")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
