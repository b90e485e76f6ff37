// Package models defines data structures shared by the ranker, its exporters
// and its CLI/HTTP surfaces.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath   = "wordrank.yaml"
	DefaultN            = 10
	DefaultLogDir       = "logs"
	DefaultLogLevel     = "info"
	DefaultOutputDir    = "output"
	DefaultServerAddr   = ":8000"
	DefaultServerMaxN   = 100
	DefaultMaxBodyBytes = 1 << 20
	DefaultCacheTTL     = "24h"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are then overridden by CLI flags.
type Config struct {
	DefaultN    int          `yaml:"default_n"`
	LogDir      string       `yaml:"log_dir"`
	LogLevel    string       `yaml:"log_level"`
	JournalPath string       `yaml:"journal_path"`
	OutputDir   string       `yaml:"output_dir"`
	CacheDir    string       `yaml:"cache_dir"` // page cache for --url; empty disables it
	CacheTTL    string       `yaml:"cache_ttl"`
	Server      ServerConfig `yaml:"server"`
}

// ServerConfig configures `wordrank serve`.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxN         int    `yaml:"max_n"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		DefaultN:  DefaultN,
		LogDir:    DefaultLogDir,
		LogLevel:  DefaultLogLevel,
		OutputDir: DefaultOutputDir,
		CacheTTL:  DefaultCacheTTL,
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			MaxN:         DefaultServerMaxN,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// A missing file is only an error when required is true.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	c.CacheTTL = strings.TrimSpace(c.CacheTTL)
	if c.CacheTTL == "" {
		c.CacheTTL = DefaultCacheTTL
	}
}

// CacheTTLDuration parses CacheTTL. Validate has already rejected bad values.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.DefaultN < 1 {
		return errors.New("default_n must be greater than 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	if d, err := time.ParseDuration(c.CacheTTL); err != nil || d <= 0 {
		return fmt.Errorf("cache_ttl: invalid duration %q", c.CacheTTL)
	}
	if c.Server.MaxN < 1 {
		return errors.New("server.max_n must be greater than 0")
	}
	if c.Server.MaxBodyBytes < 1 {
		return errors.New("server.max_body_bytes must be greater than 0")
	}
	return nil
}
