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
	Environment string          `toml:"environment"`
	Symbols     []string        `toml:"symbols"` // default dashboard symbols, pre-warmed at startup
	Server      ServerConfig    `toml:"server"`
	Warehouse   WarehouseConfig `toml:"warehouse"`
	Quote       QuoteConfig     `toml:"quote"`
	Portfolio   PortfolioConfig `toml:"portfolio"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// WarehouseConfig holds the analytical warehouse connection configuration.
// The credential itself is never read from file — see ResolveWarehouseToken.
type WarehouseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	SSLMode  string `toml:"ssl_mode"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses and returns the per-query timeout duration
func (c *WarehouseConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// QuoteConfig holds live quote provider configuration
type QuoteConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuoteConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// PortfolioConfig holds aggregation limits and cache TTL overrides
type PortfolioConfig struct {
	MaxHoldings     int    `toml:"max_holdings"`
	HistoricalTTL   string `toml:"historical_ttl"`
	LivePriceTTL    string `toml:"live_price_ttl"`
	BenchmarkSymbol string `toml:"benchmark_symbol"`
}

// GetHistoricalTTL parses the historical-facts cache TTL
func (c *PortfolioConfig) GetHistoricalTTL() time.Duration {
	d, err := time.ParseDuration(c.HistoricalTTL)
	if err != nil {
		return FreshnessHistoricalFacts
	}
	return d
}

// GetLivePriceTTL parses the live-price cache TTL
func (c *PortfolioConfig) GetLivePriceTTL() time.Duration {
	d, err := time.ParseDuration(c.LivePriceTTL)
	if err != nil {
		return FreshnessLivePrice
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Warehouse: WarehouseConfig{
			Host:     "warehouse.internal",
			Port:     5432,
			Database: "prod_eod",
			User:     "folio",
			SSLMode:  "require",
			Timeout:  "15s",
		},
		Quote: QuoteConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			RateLimit: 5,
			Timeout:   "10s",
		},
		Portfolio: PortfolioConfig{
			MaxHoldings:     30,
			HistoricalTTL:   "24h",
			LivePriceTTL:    "5m",
			BenchmarkSymbol: "SPY",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
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

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if host := os.Getenv("FOLIO_WAREHOUSE_HOST"); host != "" {
		config.Warehouse.Host = host
	}

	if db := os.Getenv("FOLIO_WAREHOUSE_DATABASE"); db != "" {
		config.Warehouse.Database = db
	}

	if symbols := os.Getenv("FOLIO_SYMBOLS"); symbols != "" {
		parts := strings.Split(symbols, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		config.Symbols = parts
	}
}

// ResolveWarehouseToken reads the warehouse credential from the process
// environment. The token is required at cold-start: without it every
// historical lookup would fail, so a missing token is a startup error
// rather than a per-request one.
func ResolveWarehouseToken() (string, error) {
	for _, name := range []string{"WAREHOUSE_TOKEN", "FOLIO_WAREHOUSE_TOKEN"} {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("WAREHOUSE_TOKEN not set in environment")
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
