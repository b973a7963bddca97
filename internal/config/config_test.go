package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste-com-32-caracteres!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080 got %d", cfg.Port)
	}
	if cfg.Congregation.Name != "Sul Pelotas" || cfg.Congregation.TerritoryCount != 25 {
		t.Fatalf("unexpected congregation defaults: %+v", cfg.Congregation)
	}
	if cfg.Summary.Timeout != 15*time.Second {
		t.Fatalf("expected default summary timeout 15s got %s", cfg.Summary.Timeout)
	}
	if cfg.JWTAccessTTL != 12*time.Hour {
		t.Fatalf("expected default access TTL 12h got %s", cfg.JWTAccessTTL)
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "curto")

	if _, err := Load(); err == nil {
		t.Fatal("short JWT_SECRET must be rejected")
	}
}

func TestLoadRejectsInvalidTerritoryCount(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste-com-32-caracteres!!")
	t.Setenv("CONG_TERRITORIES", "-3")

	if _, err := Load(); err == nil {
		t.Fatal("negative CONG_TERRITORIES must be rejected")
	}
}

func TestLoadParsesOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste-com-32-caracteres!!")
	t.Setenv("ALLOW_ORIGINS", "https://app.example, https://admin.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.AllowOrigins) != 2 {
		t.Fatalf("expected 2 origins got %v", cfg.AllowOrigins)
	}
}
