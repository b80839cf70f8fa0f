package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"riskclient/internal/async"
	"riskclient/internal/transport"
	"riskclient/internal/verdict"
	"riskclient/pkg/platform/sentinel"
)

// Review fetches a review by id. Unlike authenticate there is no degraded
// mode: transport failures, non-2xx statuses and bad bodies are all returned.
// Concurrent lookups of the same id share one request. Cancelling ctx does not
// abort a dispatched request; the transport timeouts bound it.
func (b *Backend) Review(ctx context.Context, reviewID string) (Review, error) {
	if reviewID == "" {
		return Review{}, newFatal(ErrorInvalidRequest, "review requires an id", nil)
	}

	// the shared fetch must not inherit one caller's cancellation
	ctx = context.WithoutCancel(ctx)

	if b.cache != nil {
		cached, err := b.cache.Get(ctx, reviewID)
		switch {
		case err == nil:
			b.metrics.IncrementReviewCache("hit")
			return cached, nil
		case errors.Is(err, sentinel.ErrNotFound):
			b.metrics.IncrementReviewCache("miss")
		default:
			b.metrics.IncrementReviewCache("error")
			b.logger.WarnContext(ctx, "review cache lookup failed", "review_id", reviewID, "error", err)
		}
	}

	v, err, _ := b.reviews.Do(reviewID, func() (any, error) {
		return b.fetchReview(ctx, reviewID)
	})
	if err != nil {
		return Review{}, err
	}
	review := v.(Review)

	if b.cache != nil {
		if err := b.cache.Set(ctx, review); err != nil {
			b.logger.WarnContext(ctx, "review cache store failed", "review_id", reviewID, "error", err)
		}
	}
	return review, nil
}

// ReviewAsync runs Review on a backend-owned goroutine.
func (b *Backend) ReviewAsync(ctx context.Context, reviewID string) *async.Future[Review] {
	ctx = context.WithoutCancel(ctx)
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return async.Resolved(Review{}, closedError(http.MethodGet, b.url(reviewsPath+url.PathEscape(reviewID))))
	}
	return async.Go(&b.inflight, func() (Review, error) {
		return b.Review(ctx, reviewID)
	})
}

func (b *Backend) fetchReview(ctx context.Context, reviewID string) (Review, error) {
	resp, err := b.transport.Execute(ctx, transport.Request{
		Endpoint: EndpointReview,
		Method:   http.MethodGet,
		URL:      b.url(reviewsPath + url.PathEscape(reviewID)),
	})
	if err != nil {
		return Review{}, err
	}
	if !resp.IsSuccess() {
		return Review{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return decodeReview(resp.Body)
}

func decodeReview(body []byte) (Review, error) {
	var r Review
	if err := json.Unmarshal(body, &r); err != nil {
		return Review{}, &verdict.DecodeError{Reason: verdict.ReasonIllegalJSON, Err: err}
	}
	if r.ReviewID == "" {
		return Review{}, &verdict.DecodeError{Reason: verdict.ReasonIllegalJSON, Err: errors.New("missing review_id")}
	}
	return r, nil
}
