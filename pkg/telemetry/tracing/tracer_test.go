package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sebastiansucker/mAIrchen/pkg/config"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return newWithProvider(&config.TracingConfig{Enabled: true}, tp), rec
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{
			name: "invalid sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Endpoint: "localhost:4317",
			},
			wantErr: true,
		},
		{
			name: "enabled",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				ServiceName: "mairchen-test",
				Insecure:    true,
				Timeout:     time.Second,
			},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = tracer.Shutdown(ctx)
			}()

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}

			_, span := tracer.Start(context.Background(), "story.generate")
			span.End()
		})
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.25, false},
		{SamplerRatio, 1.0, false},
		{SamplerRatio, -0.1, true},
		{SamplerRatio, 1.5, true},
		{"", 0.5, true},
	}

	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}

func TestAttributes(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "story.admit")
	SetRequestAttributes(span, "req-1", "")
	SetAdmissionAttributes(span, false, "rate_limited", 90*time.Second)
	SetProviderAttributes(span, "openai", "gpt-4")
	SetStoryAttributes(span, "34", 5, 850)
	SetTokenAttributes(span, 1200, 800, 2000)
	SetCostAttribute(span, 0.002)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	attrs := attrMap(spans[0].Attributes())

	if _, ok := attrs[AttrClientKey]; ok {
		t.Error("empty client key should not be recorded")
	}
	checks := map[string]attribute.Value{
		AttrRequestID:   attribute.StringValue("req-1"),
		AttrAdmitted:    attribute.BoolValue(false),
		AttrReason:      attribute.StringValue("rate_limited"),
		AttrRetryAfter:  attribute.Int64Value(90),
		AttrTier:        attribute.StringValue("openai"),
		AttrMaxTokens:   attribute.IntValue(850),
		AttrTokensTotal: attribute.IntValue(2000),
		AttrCost:        attribute.Float64Value(0.002),
	}
	for key, want := range checks {
		if got, ok := attrs[key]; !ok || got != want {
			t.Errorf("attribute %s = %v, want %v", key, got.Emit(), want.Emit())
		}
	}
}

func TestSetErrorAndStatus(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "provider.complete")
	err := errors.New("upstream failed")
	SetError(span, err)
	SetStatus(span, err)
	span.End()

	_, ok := tracer.Start(context.Background(), "ok")
	SetError(ok, nil)
	SetStatus(ok, nil)
	ok.End()

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	if spans[0].Status().Code != codes.Error || spans[0].Status().Description != "upstream failed" {
		t.Errorf("status = %+v, want error", spans[0].Status())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("events = %d, want 1 recorded exception", len(spans[0].Events()))
	}
	if spans[1].Status().Code != codes.Ok {
		t.Errorf("status = %+v, want ok", spans[1].Status())
	}
}

func TestHTTPMiddleware(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Extract uses the global propagator.
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", traceparent)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-ID"); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("X-Trace-ID = %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := rec.Header().Get("X-Trace-ID"); got != "" {
		t.Errorf("X-Trace-ID = %q without traceparent, want empty", got)
	}
}
