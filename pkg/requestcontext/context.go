// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware (or any other entry point such as a gRPC interceptor) stores the values; the
// event context builder and the transport read them. Keeping this package free of net/http
// lets non-HTTP callers populate the same values.
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithClientMetadata(ctx, ip, userAgent)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in the client (read values):
//
//	requestID := requestcontext.RequestID(ctx)
package requestcontext

import "context"

// Context key types (unexported for encapsulation).
type (
	clientIPKey  struct{}
	userAgentKey struct{}
	clientIDKey  struct{}
	requestIDKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyClientIP  = clientIPKey{}
	ContextKeyUserAgent = userAgentKey{}
	ContextKeyClientID  = clientIDKey{}
	ContextKeyRequestID = requestIDKey{}
)

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent, client id)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
}

// ClientID retrieves the browser client identifier (fingerprint cookie) from the context.
func ClientID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyClientID).(string); ok {
		return id
	}
	return ""
}

// WithClientID injects a browser client identifier into a context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ContextKeyClientID, clientID)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
