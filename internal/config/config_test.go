package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NOVA_CACHE_DIR", "")
	t.Setenv("NOVA_LOG_LEVEL", "")
	t.Setenv("NOVA_LISTEN_ADDR", "")
	t.Setenv("NOVA_SHARD_COUNT", "")
	t.Setenv("NOVA_COMPLETION_CAP", "")
	t.Setenv("NOVA_REQUIRE_MTLS", "")

	cfg := Load()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:7777", cfg.ListenAddr)
	assert.Equal(t, 64, cfg.ShardCount)
	assert.Equal(t, 50, cfg.CompletionCap)
	assert.False(t, cfg.RequireMTLS)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("NOVA_LOG_LEVEL", "debug")
	t.Setenv("NOVA_SHARD_COUNT", "128")
	t.Setenv("NOVA_COMPLETION_CAP", "25")
	t.Setenv("NOVA_REQUIRE_MTLS", "true")

	cfg := Load()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.ShardCount)
	assert.Equal(t, 25, cfg.CompletionCap)
	assert.True(t, cfg.RequireMTLS)
}

func TestLoadIgnoresInvalidIntOverride(t *testing.T) {
	t.Setenv("NOVA_SHARD_COUNT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 64, cfg.ShardCount)
}
