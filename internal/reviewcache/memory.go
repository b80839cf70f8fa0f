// Package reviewcache keeps fetched reviews for a short time so repeated
// lookups skip the network. Reviews do not change once resolved, which makes
// a TTL cache safe.
package reviewcache

import (
	"context"
	"sync"
	"time"

	"riskclient/internal/backend"
	"riskclient/pkg/platform/sentinel"
)

type entry struct {
	review    backend.Review
	expiresAt time.Time
}

// Memory is a process-local cache.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, reviewID string) (backend.Review, error) {
	m.mu.RLock()
	e, ok := m.entries[reviewID]
	m.mu.RUnlock()
	if !ok {
		return backend.Review{}, sentinel.ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[reviewID]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, reviewID)
		}
		m.mu.Unlock()
		return backend.Review{}, sentinel.ErrNotFound
	}
	return e.review, nil
}

func (m *Memory) Set(_ context.Context, review backend.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[review.ReviewID] = entry{review: review, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Len counts entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
