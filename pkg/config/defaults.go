package config

import "time"

// Default values for configuration fields.
const (
	// Engine defaults
	DefaultMaxRuleDepth = 32

	// Catalog defaults
	DefaultCatalogPath  = "./catalog.yaml"
	DefaultCatalogWatch = false

	// Dispatch defaults
	DefaultDispatchTimeout = 30 * time.Second

	// Cache defaults
	DefaultCacheBackend       = "memory"
	DefaultCacheTTL           = 60 * time.Minute
	DefaultCacheMaxEntries    = 10000
	DefaultCacheSQLitePath    = "data/verdicts.db"
	DefaultCachePurgeSchedule = "0 3 * * *"

	// Reasoner defaults
	DefaultReasonerProvider  = "openai"
	DefaultReasonerModel     = "gpt-4o-mini"
	DefaultReasonerMaxTokens = 1024

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultMetricsEnabled = true
)

// DefaultConfig returns a configuration populated with every default value.
// LoadConfig unmarshals the YAML file over this base, so fields absent from
// the file keep their defaults (boolean fields included).
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.MetricsEnabled = DefaultMetricsEnabled
	return cfg
}

// ApplyDefaults fills zero-valued fields with default values. Boolean
// fields are left alone, since a zero bool is indistinguishable from an
// explicit false; use DefaultConfig as the unmarshal base to default those.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.MaxRuleDepth == 0 {
		cfg.Engine.MaxRuleDepth = DefaultMaxRuleDepth
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}

	if cfg.Dispatch.Timeout == 0 {
		cfg.Dispatch.Timeout = DefaultDispatchTimeout
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = DefaultCacheSQLitePath
	}
	if cfg.Cache.PurgeSchedule == "" {
		cfg.Cache.PurgeSchedule = DefaultCachePurgeSchedule
	}

	if cfg.Reasoner.Provider == "" {
		cfg.Reasoner.Provider = DefaultReasonerProvider
	}
	if cfg.Reasoner.Model == "" {
		cfg.Reasoner.Model = DefaultReasonerModel
	}
	if cfg.Reasoner.MaxTokens == 0 {
		cfg.Reasoner.MaxTokens = DefaultReasonerMaxTokens
	}

	if cfg.Telemetry.LogLevel == "" {
		cfg.Telemetry.LogLevel = DefaultLogLevel
	}
	if cfg.Telemetry.LogFormat == "" {
		cfg.Telemetry.LogFormat = DefaultLogFormat
	}
}
