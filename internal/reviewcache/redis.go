package reviewcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"riskclient/internal/backend"
	"riskclient/pkg/platform/sentinel"
)

const keyPrefix = "riskclient:review:"

// Redis shares cached reviews between processes. Connection failures wrap
// sentinel.ErrUnavailable.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(reviewID string) string {
	return keyPrefix + reviewID
}

func (r *Redis) Get(ctx context.Context, reviewID string) (backend.Review, error) {
	data, err := r.client.Get(ctx, key(reviewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return backend.Review{}, sentinel.ErrNotFound
	}
	if err != nil {
		return backend.Review{}, fmt.Errorf("reading review %s: %w: %w", reviewID, sentinel.ErrUnavailable, err)
	}
	var review backend.Review
	if err := json.Unmarshal(data, &review); err != nil {
		return backend.Review{}, fmt.Errorf("decoding cached review %s: %w", reviewID, err)
	}
	return review, nil
}

func (r *Redis) Set(ctx context.Context, review backend.Review) error {
	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("encoding review %s: %w", review.ReviewID, err)
	}
	if err := r.client.Set(ctx, key(review.ReviewID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing review %s: %w: %w", review.ReviewID, sentinel.ErrUnavailable, err)
	}
	return nil
}
