package outbound

import (
	"context"
	"time"
)

// RateLimiterPort defines sliding-window rate limiting operations.
type RateLimiterPort interface {
	// Allow records one hit for key and reports whether it is within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns the hits left in the current window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
