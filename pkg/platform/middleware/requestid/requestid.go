// Package requestid propagates a request id from inbound HTTP requests to
// outbound risk API calls. Every call made while handling one request carries
// the same X-Request-Id, which lets the two sides' logs be joined.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"riskclient/pkg/requestcontext"
)

// Header is read from inbound requests and echoed on the response.
const Header = "X-Request-Id"

const maxLength = 128

// Middleware stores the inbound request id in the context, generating one
// when the header is missing or unreasonably long.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromRequest(r)
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromRequest returns the inbound request id or a new one.
func FromRequest(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(Header))
	if id == "" || len(id) > maxLength {
		return uuid.NewString()
	}
	return id
}
