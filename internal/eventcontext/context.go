// Package eventcontext builds the "context" object sent with every event:
// whether the user is active, where the request came from and which library
// produced it.
package eventcontext

import (
	"context"
	"net"
	"net/http"
	"strings"

	"riskclient/pkg/platform/middleware/metadata"
	platformstrings "riskclient/pkg/platform/strings"
	"riskclient/pkg/requestcontext"
)

const (
	LibraryName = "riskclient-go"

	// RemoteAddrHeader carries the socket peer address in the forwarded headers.
	RemoteAddrHeader = "REMOTE_ADDR"
)

// Version is stamped into the library block and the User-Agent header.
var Version = "0.1.0"

// UserAgent is the User-Agent sent on outbound API calls.
func UserAgent() string {
	return LibraryName + "/" + Version
}

// DefaultDeniedHeaders are never forwarded.
var DefaultDeniedHeaders = []string{"Cookie", "Authorization"}

type Library struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Context is the event context payload. Field order is the wire order.
type Context struct {
	Active    bool              `json:"active"`
	IP        string            `json:"ip,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	ClientID  string            `json:"client_id,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Device    *Device           `json:"device,omitempty"`
	Library   Library           `json:"library"`
}

// Default is an active context with only the library block.
func Default() Context {
	return Context{
		Active:  true,
		Library: Library{Name: LibraryName, Version: Version},
	}
}

// WithActive returns a copy with the active flag replaced.
func (c Context) WithActive(active bool) Context {
	c.Active = active
	if c.Headers != nil {
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			headers[k] = v
		}
		c.Headers = headers
	}
	return c
}

// Builder extracts contexts from inbound requests. An empty allow list
// forwards every header that is not denied.
type Builder struct {
	allowed map[string]struct{}
	denied  map[string]struct{}
}

func NewBuilder(allowed, denied []string) *Builder {
	if denied == nil {
		denied = DefaultDeniedHeaders
	}
	return &Builder{
		allowed: headerSet(allowed),
		denied:  headerSet(denied),
	}
}

func headerSet(names []string) map[string]struct{} {
	names = platformstrings.DedupeAndTrim(names)
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[http.CanonicalHeaderKey(n)] = struct{}{}
	}
	return set
}

// FromRequest builds the context of an inbound HTTP request.
func (b *Builder) FromRequest(r *http.Request) Context {
	c := Default()
	if ip := metadata.ClientIPFromRequest(r); ip != "unknown" {
		c.IP = ip
	}
	c.Headers = b.headers(r)
	c.ClientID = metadata.ClientIDFromRequest(r)
	c.UserAgent = r.UserAgent()
	c.Device = ParseDevice(c.UserAgent)
	return c
}

// FromContext builds a context from values stored by the metadata middleware.
// No headers are available on this path.
func (b *Builder) FromContext(ctx context.Context) Context {
	c := Default()
	if ip := requestcontext.ClientIP(ctx); ip != "unknown" {
		c.IP = ip
	}
	c.ClientID = requestcontext.ClientID(ctx)
	c.UserAgent = requestcontext.UserAgent(ctx)
	c.Device = ParseDevice(c.UserAgent)
	return c
}

func (b *Builder) headers(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		key := http.CanonicalHeaderKey(name)
		if _, deny := b.denied[key]; deny {
			continue
		}
		if len(b.allowed) > 0 {
			if _, ok := b.allowed[key]; !ok {
				continue
			}
		}
		out[key] = strings.Join(values, ",")
	}
	if addr := remoteHost(r.RemoteAddr); addr != "" {
		out[RemoteAddrHeader] = addr
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func remoteHost(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
