// Package observe carries the service's telemetry: structured logs,
// OpenTelemetry traces and metrics.
//
// NewObserver builds the providers from Config. Logs are JSON on stderr
// and, when log export is enabled, are also fanned out through the
// otelslog bridge. Middleware wraps a unit of work (a render, a cache
// store) with a span, duration metrics and a log line.
package observe
