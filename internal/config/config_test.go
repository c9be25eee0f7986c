package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coachtree.toml")
	content := `
addr = ":9090"

[cache]
backend = "redis"

[redis]
addr = "redis:6379"
db = 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COACHTREE_ADDR", ":7070")
	t.Setenv("COACHTREE_CACHE_BACKEND", "none")
	t.Setenv("COACHTREE_REDIS_DB", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("addr = %q, want :7070", cfg.Addr)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Redis.DB != 5 {
		t.Errorf("redis db = %d, want 5", cfg.Redis.DB)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("COACHTREE_CACHE_BACKEND", "memcached")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
