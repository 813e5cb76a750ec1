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
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Addr)
	}
	if cfg.TokenTTL != 8760*time.Hour {
		t.Fatalf("unexpected default token ttl: %s", cfg.TokenTTL)
	}
	if cfg.SMTPPort != 465 {
		t.Fatalf("unexpected default smtp port: %d", cfg.SMTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALIVE_ADDR", ":9090")
	t.Setenv("ALIVE_TOKEN_TTL", "15m")
	t.Setenv("ALIVE_RATE_BURST", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr override not applied: %s", cfg.Addr)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("token ttl override not applied: %s", cfg.TokenTTL)
	}
	if cfg.RateBurst != 5 {
		t.Fatalf("rate burst override not applied: %d", cfg.RateBurst)
	}
}
