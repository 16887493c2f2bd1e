package logging

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	ctx = WithClientKey(ctx, "203.0.113.7")
	ctx = WithTier(ctx, "openai")
	ctx = WithModel(ctx, "gpt-4o-mini")
	ctx = WithTraceID(ctx, "trace-abc")

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"request id", GetRequestID(ctx), "req-123"},
		{"client key", GetClientKey(ctx), "203.0.113.7"},
		{"tier", GetTier(ctx), "openai"},
		{"model", GetModel(ctx), "gpt-4o-mini"},
		{"trace id", GetTraceID(ctx), "trace-abc"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetClientKey(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("empty context should yield empty values")
	}
	if fields := extractContextFields(ctx); len(fields) != 0 {
		t.Errorf("extractContextFields(empty) = %v, want none", fields)
	}
}

func TestGetTraceID_PrefersSpanContext(t *testing.T) {
	traceID := trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
	})

	ctx := WithTraceID(context.Background(), "manual")
	ctx = trace.ContextWithSpanContext(ctx, sc)

	if got := GetTraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("GetTraceID() = %q, want span trace ID", got)
	}
}

func TestExtractContextFields_Order(t *testing.T) {
	ctx := WithModel(WithRequestID(context.Background(), "r1"), "m1")

	fields := extractContextFields(ctx)
	want := []any{"request_id", "r1", "model", "m1"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %v, want %v", i, fields[i], want[i])
		}
	}
}
