package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CORS_ORIGINS", "ROOM_EVICTION_GRACE_SECONDS", "ROOM_MAX_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 3001 {
		t.Fatalf("default port should be 3001, got %d", cfg.HTTP.Port)
	}
	if cfg.Rooms.EvictionGrace != 300*time.Second {
		t.Fatalf("default eviction grace should be 300s, got %v", cfg.Rooms.EvictionGrace)
	}
	if cfg.Rooms.MaxLimit != 50 {
		t.Fatalf("default max limit should be 50, got %d", cfg.Rooms.MaxLimit)
	}
	if cfg.RateLimiter.MaxRatePerSecond != 10 || cfg.RateLimiter.MaxBurst != 20 {
		t.Fatalf("bad rate limiter defaults: %+v", cfg.RateLimiter)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "*" {
		t.Fatalf("default origins should be wildcard, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ROOM_EVICTION_GRACE_SECONDS", "60")
	t.Setenv("ROOM_MAX_LIMIT", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Fatalf("PORT override not applied, got %d", cfg.HTTP.Port)
	}
	if cfg.Rooms.EvictionGrace != time.Minute {
		t.Fatalf("grace override not applied, got %v", cfg.Rooms.EvictionGrace)
	}
	if cfg.Rooms.MaxLimit != 12 {
		t.Fatalf("max limit override not applied, got %d", cfg.Rooms.MaxLimit)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("origins override not applied, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := []byte(`
http:
  port: 4000
rooms:
  max_limit: 16
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 4000 {
		t.Fatalf("file port not applied, got %d", cfg.HTTP.Port)
	}
	if cfg.Rooms.MaxLimit != 16 {
		t.Fatalf("file max limit not applied, got %d", cfg.Rooms.MaxLimit)
	}
	// Untouched keys still fall back to defaults.
	if cfg.Rooms.EvictionGrace != 300*time.Second {
		t.Fatalf("default grace lost, got %v", cfg.Rooms.EvictionGrace)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("an explicitly named but missing file must fail")
	}
}
