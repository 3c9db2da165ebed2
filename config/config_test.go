package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("access ttl = %v, want 15m", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v, want 168h", cfg.RefreshTTL)
	}
	if cfg.PasswordIterations != 100000 {
		t.Fatalf("iterations = %d, want 100000", cfg.PasswordIterations)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ISSUER", "issuer-x")
	t.Setenv("JWT_ACCESS_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ts := cfg.TokenSettings()
	if ts.Issuer != "issuer-x" || ts.AccessTTL != 2*time.Minute {
		t.Fatalf("token settings = %+v", ts)
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("origins = %v", origins)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	if got, want := c.PostgresDSN(), "postgres://u:p@h:1/d?sslmode=disable"; got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}
