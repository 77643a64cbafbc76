// Package common provides shared utilities for market-mcp.
package common

import (
	"os"
	"time"
)

// AlphaVantageConfig holds Alpha Vantage API configuration.
type AlphaVantageConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResolveAPIKey resolves the Alpha Vantage API key.
// Priority: ALPHAVANTAGE_API_KEY env > MARKET_ALPHAVANTAGE_API_KEY env > config file.
// An empty result is not an error at load time — handlers fail the
// individual invocation instead, so the server can start without a key.
func (c *AlphaVantageConfig) ResolveAPIKey() string {
	for _, name := range []string{"ALPHAVANTAGE_API_KEY", "MARKET_ALPHAVANTAGE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return c.APIKey
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}
