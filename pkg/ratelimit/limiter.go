package ratelimit

import (
	"context"
	"time"
)

// Limiter is the tier-aware service the pipeline consults. It prefers the
// distributed backend when one is configured and fails toward the
// in-process fallback when that backend errors or exceeds its bounded
// timeout. A Redis outage degrades to per-instance counting instead of
// either letting all traffic through or blocking everything.
type Limiter struct {
	tiers          Tiers
	primary        Store
	fallback       Store
	primaryTimeout time.Duration
	onFallback     func(err error)
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithPrimary sets the distributed backend.
func WithPrimary(store Store) LimiterOption {
	return func(l *Limiter) {
		l.primary = store
	}
}

// WithPrimaryTimeout bounds each call to the distributed backend.
func WithPrimaryTimeout(d time.Duration) LimiterOption {
	return func(l *Limiter) {
		if d > 0 {
			l.primaryTimeout = d
		}
	}
}

// WithFallbackHook registers a callback invoked with the backend error each
// time a check fails over to the in-process store. Used for logging; the
// hook must not block.
func WithFallbackHook(hook func(err error)) LimiterOption {
	return func(l *Limiter) {
		l.onFallback = hook
	}
}

// NewLimiter creates a Limiter over the given tier table and fallback
// store. The fallback is required; the primary is optional.
func NewLimiter(tiers Tiers, fallback Store, opts ...LimiterOption) (*Limiter, error) {
	if fallback == nil {
		return nil, ErrStoreRequired
	}

	l := &Limiter{
		tiers:          tiers,
		fallback:       fallback,
		primaryTimeout: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Tiers returns the limiter's tier table.
func (l *Limiter) Tiers() Tiers {
	return l.tiers
}

// Check runs the sliding-window decision for the tier matching the request
// path. The identifier is the caller-composed "clientIP:path" key.
func (l *Limiter) Check(ctx context.Context, tier Tier, identifier string) (Result, error) {
	key := Key(tier, identifier)

	if l.primary != nil {
		pctx, cancel := context.WithTimeout(ctx, l.primaryTimeout)
		res, err := l.primary.Take(pctx, key, tier.MaxRequests, tier.Window)
		cancel()
		if err == nil {
			return res, nil
		}
		if l.onFallback != nil {
			l.onFallback(err)
		}
	}

	return l.fallback.Take(ctx, key, tier.MaxRequests, tier.Window)
}
