// Package observability groups the logging, metrics and tracing packages.
//
// Subpackages:
//   - logging: slog JSON logger, DSN masking, request-scoped loggers
//   - metrics: Prometheus collectors for HTTP and the news pipeline
//   - tracing: OpenTelemetry provider setup and HTTP span middleware
package observability
