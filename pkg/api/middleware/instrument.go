package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per served request.
// *metrics.Collector satisfies it.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Instrument records method, status and latency for a route under a fixed
// route label. A nil recorder returns next unchanged.
func Instrument(rec HTTPRecorder, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)
			rec.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
