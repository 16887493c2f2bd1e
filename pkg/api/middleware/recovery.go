package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/sebastiansucker/mAIrchen/pkg/api/types"
)

// Recovery recovers from panics in handlers and answers 500. The stack trace
// is logged, never sent to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", w.Header().Get(RequestIDHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				types.WriteError(w, http.StatusInternalServerError, "Interner Serverfehler")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
