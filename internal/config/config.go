// Package config loads server configuration for coachtree serve.
//
// Configuration comes from an optional TOML file, overlaid with COACHTREE_*
// environment variables so containerized deployments can avoid a config file
// entirely. The CLI commands do not use this package; they are configured by
// flags alone.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the top-level server configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	Cache CacheConfig `toml:"cache"`
	Redis RedisConfig `toml:"redis"`
}

// CacheConfig selects the cache backend for the server.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir is the file backend's cache directory.
	Dir string `toml:"dir"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Cache backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8080",
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Load reads configuration: defaults, then the TOML file at path (skipped if
// path is empty), then COACHTREE_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// applyEnv overlays COACHTREE_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "COACHTREE_ADDR")
	setString(&cfg.Cache.Backend, "COACHTREE_CACHE_BACKEND")
	setString(&cfg.Cache.Dir, "COACHTREE_CACHE_DIR")
	setString(&cfg.Redis.Addr, "COACHTREE_REDIS_ADDR")
	setString(&cfg.Redis.Password, "COACHTREE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "COACHTREE_REDIS_DB")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
