package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/unit"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, unit.Imperial, cfg.Engine.System())
	assert.True(t, cfg.Engine.SuggestYield)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.False(t, cfg.Nutrition.Enabled)
}

func TestLoadConfig_Env(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("MEASUREMENT_SYSTEM", "metric")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, unit.Metric, cfg.Engine.System())
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown system", func(c *Config) { c.Engine.DefaultSystem = "klingon" }},
		{"no line limit", func(c *Config) { c.Engine.MaxLines = 0 }},
		{"nutrition without url", func(c *Config) { c.Nutrition.Enabled = true; c.Nutrition.BaseURL = "" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis; c.Cache.Redis.Addr = "" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}

	assert.NoError(t, validateConfig(Default()))
}

func TestValidateConfig_DisabledCacheSkipsChecks(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = false
	cfg.Cache.Backend = "anything"

	assert.NoError(t, validateConfig(cfg))
}
