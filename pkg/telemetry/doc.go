// Package telemetry contains observability infrastructure for minerva.
//
// Subpackages:
//   - logging: structured slog setup and context-scoped log fields
//
// Prometheus collectors live next to the code they instrument (see the
// Metrics types in pkg/activation and pkg/dispatch); this package only
// carries the cross-cutting pieces.
package telemetry
