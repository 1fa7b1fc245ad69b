package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt")
	t.Setenv("ADMIN_SECRET", "test-admin")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.ServerPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.TaskCacheTTL != 30*time.Second {
		t.Errorf("expected 30s cache ttl, got %v", cfg.TaskCacheTTL)
	}
	if cfg.RedisURL != "" {
		t.Errorf("redis should be disabled by default")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected allow-all origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("ADMIN_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without ADMIN_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerPort != 8081 {
		t.Errorf("port override ignored: %d", cfg.ServerPort)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("ttl override ignored: %v", cfg.TokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}

	t.Setenv("SERVER_PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad port")
	}
}
