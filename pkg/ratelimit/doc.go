// Package ratelimit implements sliding-window rate limiting across named
// tiers with a distributed Redis backend and an in-process fallback.
//
// A request at time T is allowed iff the number of previously allowed
// requests for the same identifier with a timestamp inside the trailing
// window is below the tier's limit; on allow the new timestamp is recorded.
// Counters are keyed by "tier:identifier" where the identifier is the
// client IP joined with the request path.
//
// Two Store implementations are provided:
//
//   - RedisStore keeps each window as a sorted set and is authoritative
//     across all process instances.
//
//   - MemoryStore keeps per-identifier timestamp slices guarded by a mutex,
//     pruned lazily on each check and by a periodic background sweep. It is
//     NOT correct across multiple processes; each instance counts
//     independently. This is a documented degradation, not an equivalent.
//
// Limiter composes the two: the Redis call runs under a bounded timeout and
// any failure (including timeout) fails toward the in-process fallback,
// never toward an unconditional allow or block.
package ratelimit
