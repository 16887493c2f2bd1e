// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The package wraps log/slog with:
//   - JSON and text output
//   - Redaction of client IP addresses, bearer tokens and API keys
//   - Request-scoped fields taken from the context (request ID, client key,
//     provider tier, model, trace ID)
//   - A level that can be changed at runtime
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithClientKey(ctx, "203.0.113.7")
//	slog.InfoContext(ctx, "story generated", "tokens", 812)
//	// {"msg":"story generated","tokens":812,"request_id":"req-123","client_key":"203.*.*.*"}
//
// Redaction and context fields are applied in the slog.Handler, so they also
// cover packages that log through slog.Default.
//
// # PII Redaction
//
//   - IPv4: 203.0.113.7 → 203.*.*.*
//   - IPv6: 2001:db8::1 → 2001:****
//   - Bearer tokens: Bearer abc.def → Bearer ***
//   - API keys: sk-abc123xyz → sk-***
//
// Values stored under sensitive keys (api_key, token, secret, password,
// authorization) are masked regardless of their shape.
package logging
