package testutil

import (
	"net/http"
	"net/http/httptest"

	"riskclient/pkg/platform/middleware/metadata"
)

// NewInboundRequest builds an inbound request as a web app would see it.
// userAgent and clientID are only set when non-empty.
func NewInboundRequest(remoteAddr, userAgent, clientID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if clientID != "" {
		req.AddCookie(&http.Cookie{Name: metadata.ClientIDCookie, Value: clientID})
	}
	return req
}

// WithClientMetadata runs req through the metadata middleware and returns the
// request the next handler would receive.
func WithClientMetadata(req *http.Request) *http.Request {
	var out *http.Request
	metadata.ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		out = r
	})).ServeHTTP(httptest.NewRecorder(), req)
	return out
}
