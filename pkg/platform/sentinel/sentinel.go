package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches and transports return
// these (optionally wrapped) so the backend can decide how to react.
//
// These represent factual states, not validation failures:
// - ErrNotFound: entry does not exist in a cache
// - ErrUnavailable: remote service or store temporarily unavailable
// - ErrClosed: the owning client has been closed
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrClosed      = errors.New("closed")
)
