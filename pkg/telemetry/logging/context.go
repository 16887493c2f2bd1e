package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ClientKeyKey is the context key for the rate-limit client key.
	ClientKeyKey contextKey = "client_key"

	// TierKey is the context key for the provider tier.
	TierKey contextKey = "tier"

	// ModelKey is the context key for the model name.
	ModelKey contextKey = "model"

	// TraceIDKey is the context key for an externally supplied trace ID.
	TraceIDKey contextKey = "trace_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithClientKey adds the client key to the context.
func WithClientKey(ctx context.Context, clientKey string) context.Context {
	return context.WithValue(ctx, ClientKeyKey, clientKey)
}

// GetClientKey retrieves the client key from context.
func GetClientKey(ctx context.Context) string {
	return stringValue(ctx, ClientKeyKey)
}

// WithTier adds the provider tier to the context.
func WithTier(ctx context.Context, tier string) context.Context {
	return context.WithValue(ctx, TierKey, tier)
}

// GetTier retrieves the provider tier from context.
func GetTier(ctx context.Context) string {
	return stringValue(ctx, TierKey)
}

// WithModel adds the model name to the context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

// GetModel retrieves the model name from context.
func GetModel(ctx context.Context) string {
	return stringValue(ctx, ModelKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID from context. An active OpenTelemetry span
// takes precedence over a value set with WithTraceID.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return stringValue(ctx, TraceIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if clientKey := GetClientKey(ctx); clientKey != "" {
		fields = append(fields, string(ClientKeyKey), clientKey)
	}
	if tier := GetTier(ctx); tier != "" {
		fields = append(fields, string(TierKey), tier)
	}
	if model := GetModel(ctx); model != "" {
		fields = append(fields, string(ModelKey), model)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, string(TraceIDKey), traceID)
	}

	return fields
}
