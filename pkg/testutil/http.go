// Package testutil provides a fake risk API and request helpers for tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// Route patterns served by FakeAPI.
const (
	RouteTrack        = "POST /v1/track"
	RouteAuthenticate = "POST /v1/authenticate"
	RouteIdentify     = "POST /v1/identify"
	RouteReview       = "GET /v1/reviews/{reviewID}"
)

// RecordedRequest is one request received by FakeAPI.
type RecordedRequest struct {
	Method   string
	Path     string
	Route    string
	ReviewID string
	Header   http.Header
	Body     []byte
}

// FakeAPI is an httptest server speaking the risk API routes. Every route
// answers 200 with an empty object until overridden.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
	received chan RecordedRequest
	release  chan struct{}
}

// NewFakeAPI starts the server and closes it when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		handlers: make(map[string]http.HandlerFunc),
		received: make(chan RecordedRequest, 64),
		release:  make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Post("/v1/track", f.serve)
	r.Post("/v1/authenticate", f.serve)
	r.Post("/v1/identify", f.serve)
	r.Get("/v1/reviews/{reviewID}", f.serve)

	f.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		close(f.release)
		f.Server.Close()
	})
	return f
}

// URL is the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Handle overrides the handler of a route ("POST /v1/track", ...).
func (f *FakeAPI) Handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[route] = h
}

// Respond makes route answer with a fixed status and JSON body.
func (f *FakeAPI) Respond(route string, status int, body string) {
	f.Handle(route, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Hang makes route never answer while the test runs.
func (f *FakeAPI) Hang(route string) {
	f.Handle(route, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-f.release:
		case <-r.Context().Done():
		}
	})
}

// TakeRequest waits for the next recorded request.
func (f *FakeAPI) TakeRequest(t *testing.T, timeout time.Duration) RecordedRequest {
	t.Helper()
	select {
	case req := <-f.received:
		return req
	case <-time.After(timeout):
		require.FailNow(t, "no request received", "waited %s", timeout)
		return RecordedRequest{}
	}
}

// Requests returns everything recorded so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	route := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
	rec := RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		Route:    route,
		ReviewID: chi.URLParam(r, "reviewID"),
		Header:   r.Header.Clone(),
		Body:     body,
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	h := f.handlers[route]
	f.mu.Unlock()

	select {
	case f.received <- rec:
	default:
	}

	if h != nil {
		h(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, "{}")
}
