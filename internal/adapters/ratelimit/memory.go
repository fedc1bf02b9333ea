// Package ratelimit implements domain.RateLimitStore as a sliding window log,
// either in process memory or in Redis sorted sets.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"campusevents/internal/domain"
)

// MemoryStore keeps one timestamp log per key. It is not shared between
// processes; use RedisStore when running more than one instance.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

type slidingWindow struct {
	hits   []time.Time
	window time.Duration
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

// Allow records a hit for key unless limit hits already fall inside window.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*domain.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sw := s.windows[key]
	if sw == nil {
		sw = &slidingWindow{window: window}
		s.windows[key] = sw
	}
	sw.window = window
	sw.trim(now)

	res := &domain.RateLimitResult{Limit: limit}
	if len(sw.hits) < limit {
		sw.hits = append(sw.hits, now)
		res.Allowed = true
	}
	res.Remaining = max(limit-len(sw.hits), 0)
	res.ResetAt = now.Add(window)
	if len(sw.hits) > 0 {
		res.ResetAt = sw.hits[0].Add(window)
	}
	return res, nil
}

// Sweep drops keys whose windows have fully expired and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, sw := range s.windows {
		sw.trim(now)
		if len(sw.hits) == 0 {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// trim drops hits at or before now-window. hits are kept in arrival order.
func (sw *slidingWindow) trim(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.hits) && !sw.hits[i].After(cutoff) {
		i++
	}
	sw.hits = sw.hits[i:]
}
