package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"peticia-hq/minerva/pkg/config"
)

// New creates a slog.Logger from the telemetry configuration. The writer
// defaults to os.Stdout when nil.
func New(cfg config.TelemetryConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.LogFormat {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json", "":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	return slog.New(handler), nil
}

// Setup creates a logger from the telemetry configuration and installs it
// as the process default. Intended for the CLI entry points.
func Setup(cfg config.TelemetryConfig) (*slog.Logger, error) {
	logger, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
