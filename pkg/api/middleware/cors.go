package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/sebastiansucker/mAIrchen/pkg/config"
)

// CORS adds Cross-Origin Resource Sharing headers for the configured origins
// and answers preflight OPTIONS requests with 204.
//
// A request whose Origin is not allowed gets no CORS headers; the browser
// then blocks the response. Preflights from disallowed origins are still
// answered with 204 so the handler never sees them.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(withOptions(cfg.AllowedMethods), ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	wildcard := slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")

			if origin != "" && (wildcard || slices.Contains(cfg.AllowedOrigins, origin)) {
				// Credentials cannot be combined with a literal "*".
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposed != "" {
					h.Set("Access-Control-Expose-Headers", exposed)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if methods != "" {
					h.Set("Access-Control-Allow-Methods", methods)
				}
				if headers != "" {
					h.Set("Access-Control-Allow-Headers", headers)
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func withOptions(methods []string) []string {
	if slices.Contains(methods, http.MethodOptions) {
		return methods
	}
	return append(slices.Clone(methods), http.MethodOptions)
}
