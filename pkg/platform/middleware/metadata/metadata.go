package metadata

import (
	"net/http"
	"strings"

	"riskclient/pkg/requestcontext"
)

// ClientIDCookie is the cookie set by the browser-side fingerprinting script.
const ClientIDCookie = "__cid"

// ClientIDHeader carries the client id for requests that do not send cookies.
const ClientIDHeader = "X-Client-Id"

// ClientMetadata extracts client IP address, User-Agent and client id from the
// request and adds them to the context, so code without access to the
// *http.Request can still build an event context.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		if cid := ClientIDFromRequest(r); cid != "" {
			ctx = requestcontext.WithClientID(ctx, cid)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIDFromRequest returns the client id from the header, falling back to the cookie.
func ClientIDFromRequest(r *http.Request) string {
	if cid := strings.TrimSpace(r.Header.Get(ClientIDHeader)); cid != "" {
		return cid
	}
	if c, err := r.Cookie(ClientIDCookie); err == nil {
		return c.Value
	}
	return ""
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port"; IPv6 comes as "[::1]:port"
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
