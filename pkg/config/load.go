package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is unmarshaled over a fully defaulted configuration, so omitted
// fields keep their defaults. The result is validated before being
// returned. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Fill anything an explicit empty value may have cleared.
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention MINERVA_SECTION_FIELD (e.g., MINERVA_DISPATCH_TIMEOUT)
// and always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file over defaults
//  2. Apply environment variable overrides
//  3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// MINERVA_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Engine overrides
	if val := os.Getenv("MINERVA_ENGINE_MAX_RULE_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Engine.MaxRuleDepth = i
		}
	}

	// Catalog overrides
	if val := os.Getenv("MINERVA_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}
	if val := os.Getenv("MINERVA_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}

	// Dispatch overrides
	if val := os.Getenv("MINERVA_DISPATCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Dispatch.Timeout = d
		}
	}

	// Cache overrides
	if val := os.Getenv("MINERVA_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("MINERVA_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("MINERVA_CACHE_MAX_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.MaxEntries = i
		}
	}
	if val := os.Getenv("MINERVA_CACHE_SQLITE_PATH"); val != "" {
		cfg.Cache.SQLitePath = val
	}
	if val := os.Getenv("MINERVA_CACHE_PURGE_SCHEDULE"); val != "" {
		cfg.Cache.PurgeSchedule = val
	}

	// Reasoner overrides
	if val := os.Getenv("MINERVA_REASONER_PROVIDER"); val != "" {
		cfg.Reasoner.Provider = val
	}
	if val := os.Getenv("MINERVA_REASONER_API_KEY"); val != "" {
		cfg.Reasoner.APIKey = val
	}
	if val := os.Getenv("MINERVA_REASONER_BASE_URL"); val != "" {
		cfg.Reasoner.BaseURL = val
	}
	if val := os.Getenv("MINERVA_REASONER_MODEL"); val != "" {
		cfg.Reasoner.Model = val
	}
	if val := os.Getenv("MINERVA_REASONER_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Reasoner.MaxTokens = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("MINERVA_TELEMETRY_LOG_LEVEL"); val != "" {
		cfg.Telemetry.LogLevel = val
	}
	if val := os.Getenv("MINERVA_TELEMETRY_LOG_FORMAT"); val != "" {
		cfg.Telemetry.LogFormat = val
	}
	if val := os.Getenv("MINERVA_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.MetricsEnabled = b
		}
	}
}
