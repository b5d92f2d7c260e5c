package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("Locale = %v, want en-US", cfg.Locale)
	}
	if cfg.Scaling.TagConcurrency != 4 {
		t.Errorf("Scaling.TagConcurrency = %v, want 4", cfg.Scaling.TagConcurrency)
	}
	if cfg.Capabilities.CacheTTL != 15*time.Minute {
		t.Errorf("Capabilities.CacheTTL = %v, want 15m", cfg.Capabilities.CacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestGetReturnsDefaultIfNotLoaded(t *testing.T) {
	globalConfig = nil
	configOnce = sync.Once{}

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Scaling.TagConcurrency < 1 {
		t.Errorf("Scaling.TagConcurrency = %v, want >= 1", cfg.Scaling.TagConcurrency)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compute.yaml")
	data := []byte(`
logging:
  level: debug
locale: de-DE
scaling:
  tag_concurrency: 8
capabilities:
  cache_ttl: 1m
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %v, want default console", cfg.Logging.Format)
	}
	if cfg.Locale != "de-DE" {
		t.Errorf("Locale = %v, want de-DE", cfg.Locale)
	}
	if cfg.Scaling.TagConcurrency != 8 {
		t.Errorf("Scaling.TagConcurrency = %v, want 8", cfg.Scaling.TagConcurrency)
	}
	if cfg.Capabilities.CacheTTL != time.Minute {
		t.Errorf("Capabilities.CacheTTL = %v, want 1m", cfg.Capabilities.CacheTTL)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compute.yaml")
	if err := os.WriteFile(path, []byte("scaling:\n  tag_concurrency: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should reject tag_concurrency 0")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COMPUTE_LOG_LEVEL", "warn")
	t.Setenv("COMPUTE_TAG_CONCURRENCY", "2")
	t.Setenv("COMPUTE_CAPABILITY_TTL", "30s")
	t.Setenv("COMPUTE_LOCALE", "fr")

	cfg := DefaultConfig()
	loadEnvOverrides(cfg)

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %v, want warn", cfg.Logging.Level)
	}
	if cfg.Scaling.TagConcurrency != 2 {
		t.Errorf("Scaling.TagConcurrency = %v, want 2", cfg.Scaling.TagConcurrency)
	}
	if cfg.Capabilities.CacheTTL != 30*time.Second {
		t.Errorf("Capabilities.CacheTTL = %v, want 30s", cfg.Capabilities.CacheTTL)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %v, want fr", cfg.Locale)
	}
}
