// Package config provides configuration for store-desk.
//
// Configuration is file-based (store-desk.yaml) with environment variable
// overrides under the STORE_DESK_ prefix. Everything has a working
// default: with no config file at all, the CLI talks to the public demo
// API and keeps its session under ~/.store-desk.
package config

import (
	"time"

	"github.com/Store-Desk/Storedesk/internal/adapter/outbound/localstore"
)

// Config is the top-level configuration for store-desk.
type Config struct {
	// API configures the remote demo-catalog API client.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Catalog configures catalog paging behavior.
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`

	// Storage configures the durable local session storage.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// LogLevel controls slog verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// DevMode enables development features (forces debug logging).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// APIConfig configures the outbound API client.
type APIConfig struct {
	// BaseURL is the remote API root, e.g. "https://dummyjson.com".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,api_url"`

	// Timeout is the per-request timeout, e.g. "15s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// CacheTTL is the read-cache time-to-live, e.g. "30s". "0" disables
	// the cache.
	CacheTTL string `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"omitempty,duration"`

	// CacheMaxSize bounds the read cache entry count.
	CacheMaxSize int `yaml:"cache_max_size" mapstructure:"cache_max_size" validate:"gte=0"`
}

// CatalogConfig configures catalog paging.
type CatalogConfig struct {
	// PageSize is the default number of products per page.
	PageSize int `yaml:"page_size" mapstructure:"page_size" validate:"gte=1,lte=100"`
}

// StorageConfig configures durable local storage.
type StorageConfig struct {
	// Dir is the data directory holding the session record and token
	// mirror. Defaults to ~/.store-desk.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// SetDefaults fills in defaults for unset fields.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://dummyjson.com"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "15s"
	}
	if c.API.CacheTTL == "" {
		c.API.CacheTTL = "30s"
	}
	if c.API.CacheMaxSize == 0 {
		c.API.CacheMaxSize = 500
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = 10
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = localstore.DefaultDir()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// TimeoutDuration returns the parsed request timeout.
// Fields are validated before use, so a parse failure falls back to 15s.
func (c *Config) TimeoutDuration() time.Duration {
	return parseDuration(c.API.Timeout, 15*time.Second)
}

// CacheTTLDuration returns the parsed read-cache TTL.
func (c *Config) CacheTTLDuration() time.Duration {
	return parseDuration(c.API.CacheTTL, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
