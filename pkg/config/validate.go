package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "dispatch.timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateDispatch(&cfg.Dispatch)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateReasoner(&cfg.Reasoner)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError
	if cfg.MaxRuleDepth <= 0 {
		errs = append(errs, FieldError{
			Field:   "engine.max_rule_depth",
			Message: "must be positive",
		})
	}
	return errs
}

func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.path",
			Message: "cannot be empty",
		})
	}
	return errs
}

func validateDispatch(cfg *DispatchConfig) []FieldError {
	var errs []FieldError
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "dispatch.timeout",
			Message: "must be positive",
		})
	}
	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("must be one of [memory, sqlite], got %q", cfg.Backend),
		})
	}

	if cfg.TTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "must be positive",
		})
	}
	if cfg.MaxEntries <= 0 {
		errs = append(errs, FieldError{
			Field:   "cache.max_entries",
			Message: "must be positive",
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "cache.sqlite_path",
			Message: "cannot be empty when backend is sqlite",
		})
	}
	if cfg.PurgeSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PurgeSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "cache.purge_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateReasoner(cfg *ReasonerConfig) []FieldError {
	var errs []FieldError

	if cfg.Provider != "openai" {
		errs = append(errs, FieldError{
			Field:   "reasoner.provider",
			Message: fmt.Sprintf("must be \"openai\", got %q", cfg.Provider),
		})
	}
	if cfg.Model == "" {
		errs = append(errs, FieldError{
			Field:   "reasoner.model",
			Message: "cannot be empty",
		})
	}
	if cfg.MaxTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "reasoner.max_tokens",
			Message: "must be positive",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "reasoner.temperature",
			Message: "must be between 0 and 2",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.log_level",
			Message: fmt.Sprintf("must be one of [debug, info, warn, error], got %q", cfg.LogLevel),
		})
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.log_format",
			Message: fmt.Sprintf("must be one of [json, text], got %q", cfg.LogFormat),
		})
	}

	return errs
}
