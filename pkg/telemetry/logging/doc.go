// Package logging configures structured logging for minerva.
//
// It builds a log/slog logger from the telemetry configuration (level and
// json/text format) and provides context helpers for carrying per-request
// fields like the plan request ID through the call stack.
package logging
