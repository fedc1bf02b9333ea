package domain

import (
	"context"
	"time"
)

// RateLimitResult is the outcome of one increment-and-check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitStore counts requests per key in a sliding window. Allow must be
// atomic for concurrent callers sharing a key.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
}
