package logging

import (
	"log/slog"
	"net"
	"regexp"
	"strings"
)

// Redactor redacts PII (Personally Identifiable Information) from log fields.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern pairs a compiled regex with a replacement function.
type redactPattern struct {
	name    string
	regex   *regexp.Regexp
	replace func(string) string
}

// PII pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAPIKey      = "api_key"
	PatternIPv6        = "ipv6"
	PatternIPv4        = "ipv4"
)

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	// Order matters: tokens are masked before address patterns can split them.
	return &Redactor{patterns: []*redactPattern{
		{
			name:    PatternBearerToken,
			regex:   regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
			replace: func(string) string { return "Bearer ***" },
		},
		{
			name:    PatternAPIKey,
			regex:   regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{6,}`),
			replace: func(string) string { return "sk-***" },
		},
		{
			name:    PatternIPv6,
			regex:   regexp.MustCompile(`\b[0-9a-fA-F]{1,4}(?::[0-9a-fA-F]{0,4}){2,7}\b`),
			replace: redactIPv6,
		},
		{
			name:    PatternIPv4,
			regex:   regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			replace: redactIPv4,
		},
	}}
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllStringFunc(value, p.replace)
	}
	return value
}

// RedactArgs redacts slog-style key/value pairs.
func (r *Redactor) RedactArgs(args ...any) []any {
	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if s, ok := out[i+1].(string); ok {
			out[i+1] = r.redactValue(key, s)
		}
	}
	return out
}

// RedactAttr redacts a single attribute, descending into groups.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.redactValue(a.Key, a.Value.String()))
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]any, len(attrs))
		for i, ga := range attrs {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	default:
		return a
	}
}

func (r *Redactor) redactValue(key, value string) string {
	if isSensitiveKey(key) {
		return maskSecret(value)
	}
	return r.RedactString(value)
}

// isSensitiveKey reports whether a field name always carries a secret.
func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range []string{"password", "secret", "token", "api_key", "apikey", "authorization"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// maskSecret keeps the first three characters.
func maskSecret(s string) string {
	if len(s) <= 3 {
		return "***"
	}
	return s[:3] + "***"
}

// RedactClientKey masks an IP-based client key for logs and traces.
// Keys that are not IP addresses are returned unchanged.
func RedactClientKey(key string) string {
	ip := net.ParseIP(key)
	switch {
	case ip == nil:
		return key
	case ip.To4() != nil:
		return redactIPv4(key)
	default:
		return redactIPv6(key)
	}
}

func redactIPv4(s string) string {
	if net.ParseIP(s) == nil {
		return s
	}
	first, _, _ := strings.Cut(s, ".")
	return first + ".*.*.*"
}

func redactIPv6(s string) string {
	// Clock times like 12:30:45 match the pattern but are not addresses.
	if net.ParseIP(s) == nil {
		return s
	}
	first, _, _ := strings.Cut(s, ":")
	if first == "" {
		return "****"
	}
	return first + ":****"
}
