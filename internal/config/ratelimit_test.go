package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
	assert.False(t, cfg.Debug)
}

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "-5")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s") // shorter than 5 refill intervals
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Minute, cfg.RefillInterval)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	assert.True(t, envBool("X_BOOL", false))
	t.Setenv("X_BOOL", "off")
	assert.False(t, envBool("X_BOOL", true))
	t.Setenv("X_BOOL", "maybe")
	assert.True(t, envBool("X_BOOL", true))
}
