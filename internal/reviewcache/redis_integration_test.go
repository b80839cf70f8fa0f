//go:build integration

package reviewcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"riskclient/internal/backend"
	"riskclient/pkg/platform/sentinel"
	"riskclient/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.Redis
	cache *Redis
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.cache = NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	_, err := s.cache.Get(ctx, "rev-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	review := backend.Review{
		ReviewID:  "rev-1",
		UserID:    "12345",
		Action:    "deny",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Context:   backend.ReviewContext{IP: "203.0.113.9"},
	}
	s.Require().NoError(s.cache.Set(ctx, review))

	got, err := s.cache.Get(ctx, "rev-1")
	s.Require().NoError(err)
	s.Equal(review, got)

	ttl, err := s.redis.Client.TTL(ctx, key("rev-1")).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisCacheSuite) TestCorruptEntry() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, key("rev-2"), "not json", time.Minute).Err())

	_, err := s.cache.Get(ctx, "rev-2")
	s.Error(err)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}
