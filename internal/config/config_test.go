package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StorePath != "." {
		t.Errorf("got store path %q, want %q", cfg.StorePath, ".")
	}
	if cfg.Edition != "community" {
		t.Errorf("got edition %q, want %q", cfg.Edition, "community")
	}
	if cfg.Port != 8080 || cfg.AdminPort != 8383 {
		t.Errorf("got ports %d/%d, want 8080/8383", cfg.Port, cfg.AdminPort)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("got shutdown timeout %s, want 15s", cfg.ShutdownTimeout)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Errorf("got session ttl %s, want 720h", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOBCMS_EDITION", "pro")
	t.Setenv("GOOBCMS_BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Edition != "pro" {
		t.Errorf("got edition %q, want %q", cfg.Edition, "pro")
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("got bcrypt cost %d, want 4", cfg.BcryptCost)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("GOOBCMS_PORT", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
