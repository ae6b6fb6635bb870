package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development)
	// In deployment the variables are set directly
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("REDIS_URL") == "" {
		logrus.Warn("REDIS_URL not set - landing events are cached in process memory")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		logrus.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		logrus.Warn("ADMIN_URL not set")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns defaultValue when the variable is unset or not an integer.
func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses values like "30s" or "5m".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	LogFormat   string
	FrontendURL string
	AdminURL    string

	HorizontalAdSlots  int
	VerticalAdSlots    int
	LandingEventLimit  int
	LandingCacheTTL    time.Duration
	RateLimitPerMinute int
}

// Load reads the process environment. Call LoadEnv first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        GetEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		LogFormat:   GetEnv("LOG_FORMAT", "text"),
		FrontendURL: GetEnv("FRONTEND_URL", "http://localhost:3000"),
		AdminURL:    GetEnv("ADMIN_URL", "http://localhost:3001"),

		HorizontalAdSlots:  GetEnvInt("HORIZONTAL_AD_SLOTS", 2),
		VerticalAdSlots:    GetEnvInt("VERTICAL_AD_SLOTS", 3),
		LandingEventLimit:  GetEnvInt("LANDING_EVENT_LIMIT", 5),
		LandingCacheTTL:    GetEnvDuration("LANDING_CACHE_TTL", 30*time.Second),
		RateLimitPerMinute: GetEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	if cfg.HorizontalAdSlots < 1 || cfg.VerticalAdSlots < 1 {
		return nil, fmt.Errorf("ad slot counts must be positive, got horizontal=%d vertical=%d",
			cfg.HorizontalAdSlots, cfg.VerticalAdSlots)
	}
	if cfg.LandingEventLimit < 1 {
		return nil, fmt.Errorf("LANDING_EVENT_LIMIT must be positive, got %d", cfg.LandingEventLimit)
	}
	if cfg.RateLimitPerMinute < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}

	return cfg, nil
}
