package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, Post ,HEAD,,")
	assert.Equal(t, map[string]bool{"GET": true, "POST": true, "HEAD": true}, m)
}

func TestParseDurFallsBackOnGarbage(t *testing.T) {
	assert.Equal(t, 45*time.Second, parseDur("45s"))
	assert.Equal(t, time.Second, parseDur("soon"))
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "route_query", cfg.KeyStrategy)
	assert.Equal(t, "cache", cfg.Prefix)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_METHODS", "GET,HEAD")
	t.Setenv("CACHE_TTL", "2m")
	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.Methods["HEAD"])
	assert.Equal(t, 2*time.Minute, cfg.TTL)
}
