package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultAppEnv             = "dev"
	defaultDBPath             = "./steelcalc.db"
	defaultPort               = "8080"
	defaultCurrency           = "USD"
	defaultQuietPeriod        = time.Second
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultRateLimit          = 20
	defaultRateBurst          = 40
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string
	DBPath        string
	Port          string
	SessionSecret string
	Currency      string

	// QuietPeriod is how long price edits must pause before the margin is re-solved.
	QuietPeriod        time.Duration
	SessionIdleTimeout time.Duration

	// RateLimit is requests per second per client on the JSON API.
	RateLimit float64
	RateBurst int
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: read .env: %v", err)
	}

	cfg := Config{
		AppEnv:        stringEnv("APP_ENV", defaultAppEnv),
		DBPath:        stringEnv("DB_PATH", defaultDBPath),
		Port:          stringEnv("PORT", defaultPort),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Currency:      stringEnv("CURRENCY", defaultCurrency),

		QuietPeriod:        durationEnv("QUIET_PERIOD", defaultQuietPeriod),
		SessionIdleTimeout: durationEnv("SESSION_IDLE_TIMEOUT", defaultSessionIdleTimeout),

		RateLimit: floatEnv("RATE_LIMIT", defaultRateLimit),
		RateBurst: intEnv("RATE_BURST", defaultRateBurst),
	}

	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("warning: %s=%q is not a positive duration, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func floatEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("warning: %s=%q is not a positive number, using %v", key, raw, fallback)
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("warning: %s=%q is not a positive integer, using %d", key, raw, fallback)
		return fallback
	}
	return v
}
