package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.RateLimit.Requests != 120 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode")
	}
	if len(cfg.HTTP.AllowedOrigins) != 0 {
		t.Errorf("expected no origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoad_ProductionRequiresAdminHash(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("ADMIN_TOKEN_HASH", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ADMIN_TOKEN_HASH") {
		t.Fatalf("expected ADMIN_TOKEN_HASH error, got %v", err)
	}

	t.Setenv("ADMIN_TOKEN_HASH", "plaintext")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-bcrypt hash")
	}

	t.Setenv("ADMIN_TOKEN_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
}

func TestLoad_RejectsBadRateLimit(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero request budget")
	}
}

func TestLoad_Lists(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if len(cfg.HTTP.TrustedProxies) != 1 {
		t.Errorf("unexpected proxies: %v", cfg.HTTP.TrustedProxies)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p@ss:word", Name: "almanac"}
	dsn := d.DSN()
	if !strings.Contains(dsn, "tcp(db:3306)") {
		t.Errorf("expected default port in DSN, got %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime in DSN, got %q", dsn)
	}

	d.dsnOverride = "custom"
	if d.DSN() != "custom" {
		t.Errorf("expected override DSN, got %q", d.DSN())
	}
}
