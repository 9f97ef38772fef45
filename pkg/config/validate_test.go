package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return DefaultConfig()
}

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Validate(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero rule depth",
			mutate:    func(c *Config) { c.Engine.MaxRuleDepth = 0 },
			wantField: "engine.max_rule_depth",
		},
		{
			name:      "empty catalog path",
			mutate:    func(c *Config) { c.Catalog.Path = "" },
			wantField: "catalog.path",
		},
		{
			name:      "negative dispatch timeout",
			mutate:    func(c *Config) { c.Dispatch.Timeout = -time.Second },
			wantField: "dispatch.timeout",
		},
		{
			name:      "unknown cache backend",
			mutate:    func(c *Config) { c.Cache.Backend = "redis" },
			wantField: "cache.backend",
		},
		{
			name:      "zero cache ttl",
			mutate:    func(c *Config) { c.Cache.TTL = 0 },
			wantField: "cache.ttl",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.Cache.Backend = "sqlite"
				c.Cache.SQLitePath = ""
			},
			wantField: "cache.sqlite_path",
		},
		{
			name:      "bad purge schedule",
			mutate:    func(c *Config) { c.Cache.PurgeSchedule = "not a cron" },
			wantField: "cache.purge_schedule",
		},
		{
			name:      "unknown reasoner provider",
			mutate:    func(c *Config) { c.Reasoner.Provider = "oracle" },
			wantField: "reasoner.provider",
		},
		{
			name:      "temperature out of range",
			mutate:    func(c *Config) { c.Reasoner.Temperature = 3.5 },
			wantField: "reasoner.temperature",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Telemetry.LogLevel = "verbose" },
			wantField: "telemetry.log_level",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *Config) { c.Telemetry.LogFormat = "xml" },
			wantField: "telemetry.log_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention field %q", err, tt.wantField)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.MaxRuleDepth = -1
	cfg.Cache.Backend = "redis"
	cfg.Telemetry.LogLevel = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(verr.Errors), verr)
	}
}
