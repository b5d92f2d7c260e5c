// Package config provides centralized configuration for the compute
// abstraction. It supports loading from YAML files and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all library and CLI configuration
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Locale       string             `yaml:"locale"`
	Scaling      ScalingConfig      `yaml:"scaling"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	Development bool   `yaml:"development"`
}

// ScalingConfig holds auto-scaling helper settings
type ScalingConfig struct {
	// TagConcurrency bounds how many scaling groups are reconciled at once.
	TagConcurrency int `yaml:"tag_concurrency"`
}

// CapabilitiesConfig holds capability lookup settings
type CapabilitiesConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Locale: "en-US",
		Scaling: ScalingConfig{
			TagConcurrency: 4,
		},
		Capabilities: CapabilitiesConfig{
			CacheTTL: 15 * time.Minute,
		},
	}
}

// Get returns the global configuration (singleton)
func Get() *Config {
	configOnce.Do(func() {
		cfg := DefaultConfig()
		loadConfigFile(cfg)
		loadEnvOverrides(cfg)
		configMu.Lock()
		globalConfig = cfg
		configMu.Unlock()
	})
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg := DefaultConfig()
	loadConfigFile(cfg)
	loadEnvOverrides(cfg)
	Set(cfg)
	return nil
}

// Set replaces the global configuration.
func Set(cfg *Config) {
	configOnce.Do(func() {})
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}

// LoadFile reads a YAML file on top of the defaults and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	loadEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no sensible zero value.
func (c *Config) Validate() error {
	if c.Scaling.TagConcurrency < 1 {
		return fmt.Errorf("scaling.tag_concurrency must be at least 1, got %d", c.Scaling.TagConcurrency)
	}
	if c.Capabilities.CacheTTL < 0 {
		return fmt.Errorf("capabilities.cache_ttl must not be negative, got %s", c.Capabilities.CacheTTL)
	}
	return nil
}

// loadConfigFile loads configuration from compute.yaml
func loadConfigFile(cfg *Config) {
	paths := []string{
		"compute.yaml",
		"compute.yml",
		filepath.Join(getExecutableDir(), "compute.yaml"),
		filepath.Join(getExecutableDir(), "compute.yml"),
	}
	if p := os.Getenv("COMPUTE_CONFIG"); p != "" {
		paths = append([]string{p}, paths...)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		candidate := *cfg
		if err := yaml.Unmarshal(data, &candidate); err != nil {
			continue
		}
		if candidate.Validate() != nil {
			continue
		}
		*cfg = candidate
		break
	}
}

// loadEnvOverrides applies environment variable overrides
func loadEnvOverrides(cfg *Config) {
	if level := os.Getenv("COMPUTE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if locale := os.Getenv("COMPUTE_LOCALE"); locale != "" {
		cfg.Locale = locale
	}

	if n := os.Getenv("COMPUTE_TAG_CONCURRENCY"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.Scaling.TagConcurrency = v
		}
	}

	if ttl := os.Getenv("COMPUTE_CAPABILITY_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d >= 0 {
			cfg.Capabilities.CacheTTL = d
		}
	}
}

// getExecutableDir returns the directory containing the executable
func getExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
