// Package tracing wires OpenTelemetry into the process.
//
// Init installs an SDK tracer provider so that every request gets a real
// trace id, which the HTTP middleware returns in X-Trace-Id and the request
// logger records. No exporter is configured; spans stay in-process.
//
//	shutdown := tracing.Init("newsboard")
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "ingest.refresh")
//	defer span.End()
package tracing
