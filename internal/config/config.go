// Package config loads Nova's environment-driven configuration,
// following the NOVA_* variable convention used across cmd/nova and
// cmd/nova-worker.
package config

import (
	"os"
	"strconv"
)

// Config holds settings shared by the router, worker, and local IDE
// server processes.
type Config struct {
	CacheDir      string
	LogLevel      string
	ListenAddr    string
	ShardCount    int
	CompletionCap int
	TLSCertFile   string
	TLSKeyFile    string
	TLSClientCA   string
	RequireMTLS   bool
	AuthToken     string
}

// Load reads configuration from the environment, applying the same
// defaults-then-override shape as the rest of the pack's env loaders.
func Load() *Config {
	cfg := &Config{
		CacheDir:      os.Getenv("NOVA_CACHE_DIR"),
		LogLevel:      os.Getenv("NOVA_LOG_LEVEL"),
		ListenAddr:    os.Getenv("NOVA_LISTEN_ADDR"),
		ShardCount:    64,
		CompletionCap: 50,
		TLSCertFile:   os.Getenv("NOVA_TLS_CERT_FILE"),
		TLSKeyFile:    os.Getenv("NOVA_TLS_KEY_FILE"),
		TLSClientCA:   os.Getenv("NOVA_TLS_CLIENT_CA"),
		AuthToken:     os.Getenv("NOVA_AUTH_TOKEN"),
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:7777"
	}

	if shardCountStr := os.Getenv("NOVA_SHARD_COUNT"); shardCountStr != "" {
		if n, err := strconv.Atoi(shardCountStr); err == nil && n > 0 {
			cfg.ShardCount = n
		}
	}
	if capStr := os.Getenv("NOVA_COMPLETION_CAP"); capStr != "" {
		if n, err := strconv.Atoi(capStr); err == nil && n > 0 {
			cfg.CompletionCap = n
		}
	}
	if requireMTLSStr := os.Getenv("NOVA_REQUIRE_MTLS"); requireMTLSStr != "" {
		if b, err := strconv.ParseBool(requireMTLSStr); err == nil {
			cfg.RequireMTLS = b
		}
	}

	return cfg
}

func defaultCacheDir() string {
	if home, err := os.UserCacheDir(); err == nil {
		return home + "/nova"
	}
	return ".nova-cache"
}
