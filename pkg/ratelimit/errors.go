package ratelimit

import "errors"

var (
	// ErrInvalidLimit indicates a tier with a non-positive request quota.
	ErrInvalidLimit = errors.New("ratelimit.invalid_limit")

	// ErrInvalidWindow indicates a tier with a non-positive window.
	ErrInvalidWindow = errors.New("ratelimit.invalid_window")

	// ErrKeyRequired indicates an empty storage key.
	ErrKeyRequired = errors.New("ratelimit.key_required")

	// ErrStoreRequired indicates a limiter constructed without a fallback store.
	ErrStoreRequired = errors.New("ratelimit.store_required")

	// ErrBackendUnavailable indicates the distributed backend failed or timed out.
	ErrBackendUnavailable = errors.New("ratelimit.backend_unavailable")
)
