// Package billing consumes Paddle subscription webhooks and applies
// the resulting role and subscription-tier transitions to the user
// store. Every applied transition invalidates the authorizer's cached
// grant so the next permission check sees the new tier immediately.
package billing
