package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PANTRYPAL_PORT", "PANTRYPAL_DB_PATH", "PANTRYPAL_TOKEN_TTL",
		"PANTRYPAL_EXPIRY_HORIZON_DAYS", "PANTRYPAL_JWT_SECRET",
		"PANTRYPAL_VAPID_PUBLIC_KEY", "PANTRYPAL_VAPID_PRIVATE_KEY",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pantrypal.db", cfg.DBPath)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 7, cfg.ExpiryHorizonDays)
	assert.True(t, cfg.UsesDevSecret())
	assert.False(t, cfg.PushEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PANTRYPAL_PORT", "9000")
	t.Setenv("PANTRYPAL_TOKEN_TTL", "3d")
	t.Setenv("PANTRYPAL_EXPIRY_HORIZON_DAYS", "3")
	t.Setenv("PANTRYPAL_JWT_SECRET", "s3cret")
	t.Setenv("PANTRYPAL_VAPID_PUBLIC_KEY", "pub")
	t.Setenv("PANTRYPAL_VAPID_PRIVATE_KEY", "priv")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 3, cfg.ExpiryHorizonDays)
	assert.False(t, cfg.UsesDevSecret())
	assert.True(t, cfg.PushEnabled())
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"90m", 90 * time.Minute},
		{"2d", 48 * time.Hour},
		{"soon", time.Hour},
		{"-5m", time.Hour},
		{"0d", time.Hour},
	}
	for _, tt := range tests {
		t.Setenv("PANTRYPAL_TEST_DURATION", tt.raw)
		assert.Equal(t, tt.want, getDuration("PANTRYPAL_TEST_DURATION", time.Hour), "raw %q", tt.raw)
	}
}
