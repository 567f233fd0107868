package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process sliding-window fallback. Each identifier
// owns a growable timestamp slice behind its own mutex; the top-level map
// lock is only held for lookups and inserts, never across a full scan.
//
// State is created lazily on first request for an identifier, pruned lazily
// on each check, and garbage-collected by a periodic sweep that drops
// identifiers with no timestamp inside the largest configured window.
//
// Counters live in one process only. When several instances run behind a
// load balancer each counts independently, so the effective limit is
// multiplied by the instance count. That is a known degradation of the
// fallback path, not an equivalent of the Redis backend.
type MemoryStore struct {
	mu      sync.RWMutex
	windows map[string]*window

	sweepInterval time.Duration
	maxWindow     time.Duration
	stopSweep     chan struct{}
	sweepOnce     sync.Once
}

type window struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often the background sweep runs.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithMaxWindow sets the retention horizon for the sweep. Identifiers whose
// newest timestamp is older than this are dropped. It should be the largest
// window of any tier sharing the store.
func WithMaxWindow(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.maxWindow = d
		}
	}
}

// NewMemoryStore creates an in-process store and starts its sweep goroutine.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:       make(map[string]*window),
		sweepInterval: time.Minute,
		maxWindow:     24 * time.Hour,
		stopSweep:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.sweepLoop()

	return s
}

// Take implements Store.
func (s *MemoryStore) Take(ctx context.Context, key string, limit int, windowDur time.Duration) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}
	if limit <= 0 {
		return Result{}, ErrInvalidLimit
	}
	if windowDur <= 0 {
		return Result{}, ErrInvalidWindow
	}

	s.mu.Lock()
	w, exists := s.windows[key]
	if !exists {
		w = &window{}
		s.windows[key] = w
	}
	s.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-windowDur)

	// Prune lazily while counting; timestamps are appended in order so the
	// valid suffix starts at the first entry after the cutoff.
	start := 0
	for start < len(w.timestamps) && !w.timestamps[start].After(cutoff) {
		start++
	}
	if start > 0 {
		w.timestamps = append(w.timestamps[:0], w.timestamps[start:]...)
	}

	count := len(w.timestamps)
	if count >= limit {
		// Capacity frees up when the oldest in-window timestamp expires.
		return Result{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   w.timestamps[0].Add(windowDur),
		}, nil
	}

	w.timestamps = append(w.timestamps, now)

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count - 1,
		ResetAt:   w.timestamps[0].Add(windowDur),
	}, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Len returns the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.windows)
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

// sweep drops identifiers that cannot influence any further decision. It
// snapshots the key set first and then visits entries one at a time, so
// live traffic is never blocked behind a scan of the whole map.
func (s *MemoryStore) sweep() {
	s.mu.RLock()
	keys := make([]string, 0, len(s.windows))
	for key := range s.windows {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	cutoff := time.Now().Add(-s.maxWindow)

	for _, key := range keys {
		s.mu.RLock()
		w, exists := s.windows[key]
		s.mu.RUnlock()
		if !exists {
			continue
		}

		w.mu.Lock()
		stale := len(w.timestamps) == 0 || !w.timestamps[len(w.timestamps)-1].After(cutoff)
		w.mu.Unlock()

		if stale {
			s.mu.Lock()
			delete(s.windows, key)
			s.mu.Unlock()
		}
	}
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (s *MemoryStore) Close() error {
	s.sweepOnce.Do(func() {
		close(s.stopSweep)
	})
	return nil
}
