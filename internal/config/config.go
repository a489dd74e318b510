// Package config reads service settings from the environment.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	JWTSecret string
	TokenTTL  time.Duration

	BarcodeURL string
	RecipeURL  string

	// ExpiryHorizonDays is the look-ahead for expiring pantry items.
	ExpiryHorizonDays int

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
}

const devJWTSecret = "pantrypal-dev-secret-change-me"

// Load reads an optional .env file and then the PANTRYPAL_* environment.
// Unset or malformed values fall back to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	cfg := &Config{
		Port:              getEnv("PANTRYPAL_PORT", "8080"),
		DBPath:            getEnv("PANTRYPAL_DB_PATH", "pantrypal.db"),
		LogLevel:          getEnv("PANTRYPAL_LOG_LEVEL", "info"),
		LogFormat:         getEnv("PANTRYPAL_LOG_FORMAT", "text"),
		JWTSecret:         getEnv("PANTRYPAL_JWT_SECRET", devJWTSecret),
		TokenTTL:          getDuration("PANTRYPAL_TOKEN_TTL", 7*24*time.Hour),
		BarcodeURL:        getEnv("PANTRYPAL_BARCODE_URL", ""),
		RecipeURL:         getEnv("PANTRYPAL_RECIPE_URL", ""),
		ExpiryHorizonDays: getInt("PANTRYPAL_EXPIRY_HORIZON_DAYS", 7),
		VAPIDPublicKey:    getEnv("PANTRYPAL_VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:   getEnv("PANTRYPAL_VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:      getEnv("PANTRYPAL_VAPID_SUBJECT", "mailto:admin@pantrypal.local"),
	}
	if cfg.ExpiryHorizonDays < 0 {
		cfg.ExpiryHorizonDays = 7
	}
	return cfg
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// PushEnabled reports whether both VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("36h") and whole days ("7d").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n := len(raw); n > 1 && raw[n-1] == 'd' {
		if days, err := strconv.Atoi(raw[:n-1]); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return defaultValue
}
