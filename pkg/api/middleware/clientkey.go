package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/logging"
)

// ForwardedForHeader is the proxy header carrying the original client address.
const ForwardedForHeader = "X-Forwarded-For"

// ClientKey stores the admission key of the caller in the request context.
func ClientKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithClientKey(r.Context(), ClientKeyFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientKeyFromRequest returns the first X-Forwarded-For entry, trimmed, or
// the host part of RemoteAddr when the header is absent or its first entry is
// empty. The value is not validated; the service trusts the fronting proxy.
func ClientKeyFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get(ForwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if key := strings.TrimSpace(first); key != "" {
			return key
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
