package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minerva.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Engine.MaxRuleDepth != DefaultMaxRuleDepth {
		t.Errorf("MaxRuleDepth = %d, want %d", cfg.Engine.MaxRuleDepth, DefaultMaxRuleDepth)
	}
	if cfg.Dispatch.Timeout != DefaultDispatchTimeout {
		t.Errorf("Dispatch.Timeout = %v, want %v", cfg.Dispatch.Timeout, DefaultDispatchTimeout)
	}
	if cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
	if cfg.Cache.Backend != DefaultCacheBackend {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, DefaultCacheBackend)
	}
	if !cfg.Telemetry.MetricsEnabled {
		t.Error("MetricsEnabled = false, want default true")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  max_rule_depth: 16
dispatch:
  timeout: 10s
cache:
  backend: sqlite
  ttl: 30m
telemetry:
  metrics_enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Engine.MaxRuleDepth != 16 {
		t.Errorf("MaxRuleDepth = %d, want 16", cfg.Engine.MaxRuleDepth)
	}
	if cfg.Dispatch.Timeout != 10*time.Second {
		t.Errorf("Dispatch.Timeout = %v, want 10s", cfg.Dispatch.Timeout)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("Cache.Backend = %q, want sqlite", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
	}
	if cfg.Telemetry.MetricsEnabled {
		t.Error("explicit metrics_enabled: false was overridden")
	}
	// Untouched sections keep their defaults.
	if cfg.Reasoner.Model != DefaultReasonerModel {
		t.Errorf("Reasoner.Model = %q, want default", cfg.Reasoner.Model)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "engine: [broken\n")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeConfigFile(t, `
cache:
  backend: redis
`)
		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "cache.backend") {
			t.Errorf("error %q does not name the offending field", err)
		}
	})
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
dispatch:
  timeout: 10s
`)

	t.Setenv("MINERVA_DISPATCH_TIMEOUT", "45s")
	t.Setenv("MINERVA_CACHE_TTL", "2h")
	t.Setenv("MINERVA_REASONER_API_KEY", "sk-from-env")
	t.Setenv("MINERVA_CATALOG_WATCH", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Dispatch.Timeout != 45*time.Second {
		t.Errorf("Dispatch.Timeout = %v, want env override 45s", cfg.Dispatch.Timeout)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache.TTL = %v, want env override 2h", cfg.Cache.TTL)
	}
	if cfg.Reasoner.APIKey != "sk-from-env" {
		t.Errorf("Reasoner.APIKey = %q, want env override", cfg.Reasoner.APIKey)
	}
	if !cfg.Catalog.Watch {
		t.Error("Catalog.Watch = false, want env override true")
	}
}
