// Package tracing provides OpenTelemetry tracing for the story service.
//
// # Spans
//
// A story request produces up to three spans:
//
//	story.admit        admission decision for the client key
//	story.generate     prompt, completion and parsing
//	provider.complete  the upstream chat completion call
//
// Spans carry the attributes defined in attributes.go under the
// "mairchen." namespace.
//
// # Export
//
// When enabled, spans are batched and exported over OTLP/gRPC. Incoming W3C
// traceparent headers are honoured by HTTPMiddleware so the service joins
// traces started by a reverse proxy or the frontend.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "story.generate")
//	defer span.End()
//
// When disabled, New returns a tracer backed by a noop provider.
package tracing
