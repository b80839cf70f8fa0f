package backend

import (
	"context"

	"riskclient/internal/async"
	"riskclient/internal/transport"
	"riskclient/pkg/nullable"
)

// Track records an event. The future reports whether the API answered 2xx; it
// fails only when the request could not be built or sent. Callers that do not
// care about delivery may drop the future: failures are logged.
func (b *Backend) Track(ctx context.Context, ev Event) *async.Future[bool] {
	if ev.Name == "" {
		return async.Resolved[bool](false, newFatal(ErrorInvalidRequest, "track requires an event name", nil))
	}

	userID := nullable.Null[string]()
	if ev.UserID != "" {
		userID = nullable.Of(ev.UserID)
	}
	req, err := b.postRequest(EndpointTrack, trackPath, trackPayload{
		Name:       ev.Name,
		UserID:     userID,
		ReviewID:   ev.ReviewID,
		Context:    ev.Context,
		Properties: optional(ev.Properties),
		Trait:      optional(ev.Traits),
	})
	if err != nil {
		return async.Resolved(false, err)
	}

	ctx = context.WithoutCancel(ctx)
	return dispatch(ctx, b, req, func(resp *transport.Response, err error) (bool, error) {
		if err != nil {
			b.logger.ErrorContext(ctx, "track request failed", "event", ev.Name, "error", err)
			return false, err
		}
		if !resp.IsSuccess() {
			b.logger.WarnContext(ctx, "track request rejected", "event", ev.Name, "status", resp.StatusCode)
			return false, nil
		}
		return true, nil
	})
}
