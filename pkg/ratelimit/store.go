package ratelimit

import (
	"context"
	"time"
)

// Store is a sliding-window counter backend.
type Store interface {
	// Take checks whether one more request is allowed for key within the
	// trailing window and, if so, records it. Take must be atomic with
	// respect to concurrent callers on the same key: after an allowed Take,
	// the number of recorded timestamps inside the window never exceeds
	// limit.
	Take(ctx context.Context, key string, limit int, window time.Duration) (Result, error)

	// Reset clears rate-limit state for the given key.
	Reset(ctx context.Context, key string) error
}
