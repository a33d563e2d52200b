// Package infrastructure carries the cross-cutting runtime of the panel
// tools: the JSON slog logger with trace_id injection, trace id context
// helpers, and OpenTelemetry tracing and metrics exposed through a
// Prometheus registry.
package infrastructure
