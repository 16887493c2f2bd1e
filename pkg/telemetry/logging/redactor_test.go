package logging

import (
	"log/slog"
	"testing"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ipv4", "client 203.0.113.7 rejected", "client 203.*.*.* rejected"},
		{"ipv4 with port", "10.1.2.3:8000", "10.*.*.*:8000"},
		{"ipv6", "peer 2001:db8::1", "peer 2001:****"},
		{"clock time untouched", "reset at 12:30:45", "reset at 12:30:45"},
		{"version untouched", "v1.2.3", "v1.2.3"},
		{"bearer", "Authorization: Bearer abc123.def", "Authorization: Bearer ***"},
		{"api key", "key sk-proj-abcdef123456 used", "key sk-*** used"},
		{"german text untouched", "Es war einmal ein kleiner Fuchs.", "Es war einmal ein kleiner Fuchs."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor()
	args := []any{"password", "hunter2", "client_key", "192.0.2.1", "tokens", 42, "odd"}

	got := r.RedactArgs(args...)

	want := []any{"password", "hun***", "client_key", "192.*.*.*", "tokens", 42, "odd"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %v, want %v", i, got[i], want[i])
		}
	}
	if args[1] != "hunter2" {
		t.Error("RedactArgs modified its input")
	}
}

func TestRedactor_RedactAttrGroup(t *testing.T) {
	r := NewRedactor()

	a := r.RedactAttr(slog.Group("upstream", slog.String("authorization", "Bearer xyz"), slog.Int("status", 500)))

	attrs := a.Value.Group()
	if len(attrs) != 2 {
		t.Fatalf("group has %d attrs, want 2", len(attrs))
	}
	if attrs[0].Value.String() != "Bea***" {
		t.Errorf("authorization = %q, want Bea***", attrs[0].Value.String())
	}
	if attrs[1].Value.Int64() != 500 {
		t.Errorf("status = %v, want 500", attrs[1].Value)
	}
}

func TestRedactClientKey(t *testing.T) {
	tests := map[string]string{
		"203.0.113.7": "203.*.*.*",
		"2001:db8::1": "2001:****",
		"::1":         "****",
		"unknown":     "unknown",
		"":            "",
	}
	for in, want := range tests {
		if got := RedactClientKey(in); got != want {
			t.Errorf("RedactClientKey(%q) = %q, want %q", in, got, want)
		}
	}
}
