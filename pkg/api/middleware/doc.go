// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server wraps the route mux in this order (innermost to outermost):
//
//	handler = Recovery(Logging(RequestID(ClientKey(CORS(cfg)(Timeout(d)(MaxBody(n)(mux)))))))
//
//  1. MaxBody: Cap request body size
//  2. Timeout: Attach a deadline to the request context
//  3. CORS: Add Cross-Origin Resource Sharing headers, answer preflights
//  4. ClientKey: Derive the admission key from X-Forwarded-For or RemoteAddr
//  5. RequestID: Generate or accept X-Request-ID
//  6. Logging: Log one line per request with status and latency
//  7. Recovery: Turn panics into 500 responses
//
// Route-level instrumentation is added per route with Instrument, because
// only the route registration knows the pattern used as metric label.
//
// # Context Values
//
// The request ID and client key are stored with the logging package's
// context helpers, so every *Context log call made while serving the request
// carries them:
//
//	logging.GetRequestID(r.Context())
//	logging.GetClientKey(r.Context())
//
// # Timeout
//
// Timeout only sets a context deadline. The handler keeps ownership of the
// ResponseWriter; a story generation that runs past the deadline fails with
// a provider timeout and the handler writes the error itself.
package middleware
