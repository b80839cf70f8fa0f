package backend

import (
	"context"

	"riskclient/internal/async"
	"riskclient/internal/eventcontext"
	"riskclient/internal/transport"
)

// Identify associates traits with a user. It is fire-and-forget: the outcome
// is only logged. The returned future completes once that has happened and
// exists so callers and tests can wait for delivery.
func (b *Backend) Identify(ctx context.Context, userID string, ec eventcontext.Context, active bool, traits any) *async.Future[struct{}] {
	if userID == "" {
		b.logger.ErrorContext(ctx, "identify requires a user id")
		return async.Resolved(struct{}{}, nil)
	}
	req, err := b.postRequest(EndpointIdentify, identifyPath, identifyPayload{
		UserID:  userID,
		Context: ec.WithActive(active),
		Traits:  optional(traits),
	})
	if err != nil {
		b.logger.ErrorContext(ctx, "identify request not sent", "user_id", userID, "error", err)
		return async.Resolved(struct{}{}, nil)
	}

	ctx = context.WithoutCancel(ctx)
	return dispatch(ctx, b, req, func(resp *transport.Response, err error) (struct{}, error) {
		switch {
		case err != nil:
			b.logger.ErrorContext(ctx, "identify request failed", "user_id", userID, "error", err)
		case !resp.IsSuccess():
			b.logger.WarnContext(ctx, "identify request rejected", "user_id", userID, "status", resp.StatusCode)
		default:
			b.logger.DebugContext(ctx, "identify request completed", "user_id", userID, "status", resp.StatusCode)
		}
		return struct{}{}, nil
	})
}
