// Package secevent records security events emitted by the request
// governance pipeline.
//
// Events are write-once values: one per pipeline traversal, never updated
// or deleted. Logging is strictly a side effect: Log never returns an
// error, never panics outward and, in async mode, never blocks the request
// path (events are dropped when the buffer is full rather than applying
// backpressure). A logging failure must never change a pass/block decision.
//
// Suspicious events are escalated to the error level under a distinct
// message so alerting can key on it.
package secevent
