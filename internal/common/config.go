// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Series      SeriesConfig  `toml:"series"`
	Niche       NicheConfig   `toml:"niche"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SeriesConfig controls where the portfolio returns CSV comes from.
type SeriesConfig struct {
	Source          string `toml:"source"`           // file path (relative to the data dir) or http(s) URL
	DataDir         string `toml:"data_dir"`         // base path for file sources
	CacheTTL        string `toml:"cache_ttl"`        // duration string, default "10m"
	RefreshSchedule string `toml:"refresh_schedule"` // cron spec, empty disables the scheduler
}

// GetCacheTTL parses and returns the raw CSV cache lifetime.
func (c *SeriesConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// IsRemote reports whether the series source is an HTTP URL.
func (c *SeriesConfig) IsRemote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// NicheConfig holds the niche projects catalog location.
type NicheConfig struct {
	Catalog string `toml:"catalog"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Feed FeedConfig `toml:"feed"`
}

// FeedConfig holds configuration for the remote CSV feed client
type FeedConfig struct {
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FeedConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production") || strings.EqualFold(c.Environment, "prod")
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Series: SeriesConfig{
			Source:          "portfolio-returns.csv",
			DataDir:         "data",
			CacheTTL:        "10m",
			RefreshSchedule: "@every 15m",
		},
		Niche: NicheConfig{
			Catalog: "niche/projects.json",
		},
		Clients: ClientsConfig{
			Feed: FeedConfig{
				RateLimit: 2,
				Timeout:   "15s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if src := os.Getenv("FOLIO_SERIES_SOURCE"); src != "" {
		config.Series.Source = src
	}

	if dir := os.Getenv("FOLIO_DATA_DIR"); dir != "" {
		config.Series.DataDir = dir
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
