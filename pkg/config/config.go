package config

import "time"

// Config is the root configuration structure for Minerva.
// It contains all configuration sections for the activation engine, module
// catalogs, reasoner dispatch, the verdict cache, and telemetry.
type Config struct {
	// Engine contains configuration for local rule evaluation.
	Engine EngineConfig `yaml:"engine"`

	// Catalog contains configuration for module catalog loading.
	Catalog CatalogConfig `yaml:"catalog"`

	// Dispatch contains configuration for reasoner dispatch.
	Dispatch DispatchConfig `yaml:"dispatch"`

	// Cache contains configuration for the verdict cache.
	Cache CacheConfig `yaml:"cache"`

	// Reasoner contains configuration for the external reasoner.
	Reasoner ReasonerConfig `yaml:"reasoner"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig contains configuration for local rule evaluation.
type EngineConfig struct {
	// MaxRuleDepth bounds rule-tree nesting. Trees beyond the bound reject
	// the module as misconfigured, never the request.
	// Default: 32
	MaxRuleDepth int `yaml:"max_rule_depth"`
}

// CatalogConfig contains configuration for module catalog loading.
type CatalogConfig struct {
	// Path is the path to the catalog YAML file.
	// Default: "./catalog.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reloading when the catalog file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// DispatchConfig contains configuration for reasoner dispatch.
type DispatchConfig struct {
	// Timeout bounds one reasoner call end to end. In-flight calls run to
	// this deadline even when the initiating request is cancelled.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig contains configuration for the verdict cache.
type CacheConfig struct {
	// Backend selects the cache backend: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// TTL is how long cached verdict sets are served. Expiry is the only
	// invalidation.
	// Default: 60m
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend.
	// Default: 10000
	MaxEntries int `yaml:"max_entries"`

	// SQLitePath is the database path for the sqlite backend.
	// Default: "data/verdicts.db"
	SQLitePath string `yaml:"sqlite_path"`

	// PurgeSchedule is the cron expression for sweeping expired rows out
	// of the sqlite backend. Empty disables scheduled purging.
	// Default: "0 3 * * *"
	PurgeSchedule string `yaml:"purge_schedule"`
}

// ReasonerConfig contains configuration for the external reasoner.
type ReasonerConfig struct {
	// Provider selects the reasoner implementation. Only "openai" (and
	// OpenAI-compatible endpoints via BaseURL) is supported.
	// Default: "openai"
	Provider string `yaml:"provider"`

	// APIKey authenticates against the provider. Prefer setting this via
	// the MINERVA_REASONER_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string `yaml:"base_url"`

	// Model is the chat model to use.
	// Default: "gpt-4o-mini"
	Model string `yaml:"model"`

	// Temperature controls sampling. Zero for reproducible verdicts.
	// Default: 0
	Temperature float32 `yaml:"temperature"`

	// MaxTokens bounds the response size.
	// Default: 1024
	MaxTokens int `yaml:"max_tokens"`
}

// TelemetryConfig contains configuration for logging and metrics.
type TelemetryConfig struct {
	// LogLevel sets the minimum log level: debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log output format: "json" or "text".
	// Default: "json"
	LogFormat string `yaml:"log_format"`

	// MetricsEnabled controls whether Prometheus collectors are registered.
	// Default: true
	MetricsEnabled bool `yaml:"metrics_enabled"`
}
