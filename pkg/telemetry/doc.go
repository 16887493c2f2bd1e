// Package telemetry groups the observability packages of the story service.
//
// # Components
//
//   - logging: slog-based structured logging with request-scoped fields and
//     PII redaction
//   - metrics: Prometheus collectors for HTTP, admission, provider and story
//     outcomes
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//
// # Usage
//
//	logger, _ := logging.New(logging.Config{Level: "info", Format: "json", RedactPII: true})
//	slog.SetDefault(logger.Slog())
//
//	collector := metrics.NewCollector(nil)
//	collector.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
//
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//	ctx, span := tracer.Start(ctx, "story.generate")
//	defer span.End()
//
// # PII Protection
//
// With redaction on, client keys and credentials never reach the logs:
//
//   - API keys: sk-abc123... → sk-***
//   - Bearer tokens: Bearer eyJ... → Bearer ***
//   - IPv4 client keys: 203.0.113.7 → 203.*.*.*
//   - IPv6 client keys keep their first group only
package telemetry
