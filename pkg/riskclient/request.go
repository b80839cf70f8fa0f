package riskclient

import (
	"context"

	"riskclient/internal/backend"
	"riskclient/pkg/nullable"
)

// Request carries the event context of one inbound request.
type Request struct {
	client *Client
	ec     Context
}

// EventOption sets optional event fields.
type EventOption func(*backend.Event)

// WithUserID sets the user of a tracked event. Without it user_id is sent as null.
func WithUserID(userID string) EventOption {
	return func(ev *backend.Event) {
		ev.UserID = userID
	}
}

func WithProperties(properties any) EventOption {
	return func(ev *backend.Event) {
		ev.Properties = properties
	}
}

func WithTraits(traits any) EventOption {
	return func(ev *backend.Event) {
		ev.Traits = traits
	}
}

// WithReviewID links a tracked event to a review.
func WithReviewID(reviewID string) EventOption {
	return func(ev *backend.Event) {
		ev.ReviewID = nullable.Of(reviewID)
	}
}

// Context returns the event context sent with every call.
func (r *Request) Context() Context {
	return r.ec
}

func (r *Request) event(name string, opts []EventOption) backend.Event {
	ev := backend.Event{Name: name, Context: r.ec}
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

// Track records an event without waiting. The future may be ignored.
func (r *Request) Track(ctx context.Context, name string, opts ...EventOption) *Future[bool] {
	return r.client.backend.Track(ctx, r.event(name, opts))
}

// Authenticate blocks until a verdict is known.
func (r *Request) Authenticate(ctx context.Context, name, userID string, opts ...EventOption) (Verdict, error) {
	ev := r.event(name, opts)
	ev.UserID = userID
	return r.client.backend.Authenticate(ctx, ev)
}

// AuthenticateAsync returns immediately; the future carries the same outcome
// Authenticate would have returned.
func (r *Request) AuthenticateAsync(ctx context.Context, name, userID string, opts ...EventOption) *Future[Verdict] {
	ev := r.event(name, opts)
	ev.UserID = userID
	return r.client.backend.AuthenticateAsync(ctx, ev)
}

// Identify updates the traits of a user. Failures are only logged.
func (r *Request) Identify(ctx context.Context, userID string, active bool, traits any) *Future[struct{}] {
	return r.client.backend.Identify(ctx, userID, r.ec, active, traits)
}
