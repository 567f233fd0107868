package rbac

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// maxCacheTTL bounds how stale a cached role may be. Payment webhooks call
// Invalidate for immediate effect; the TTL only covers transitions applied
// outside this process.
const maxCacheTTL = 15 * time.Minute

// Authorizer resolves a user's grant through a TTL cache and answers
// permission, role-level and feature-flag queries for handlers.
type Authorizer struct {
	store RoleStore
	cache *gocache.Cache
	ttl   time.Duration
}

// AuthorizerOption configures an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithCacheTTL sets how long a fetched grant may be served from cache.
// Values above the hard bound are clamped to it.
func WithCacheTTL(ttl time.Duration) AuthorizerOption {
	return func(a *Authorizer) {
		if ttl > 0 {
			a.ttl = min(ttl, maxCacheTTL)
		}
	}
}

// NewAuthorizer creates an Authorizer over the given store. The default
// cache TTL is five minutes.
func NewAuthorizer(store RoleStore, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{
		store: store,
		ttl:   5 * time.Minute,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.cache = gocache.New(a.ttl, 2*a.ttl)

	return a
}

// Grant returns the user's role/subscription pair, cache-refreshed within
// the bounded TTL.
func (a *Authorizer) Grant(ctx context.Context, userID string) (Grant, error) {
	if cached, ok := a.cache.Get(userID); ok {
		return cached.(Grant), nil
	}

	grant, err := a.store.Get(ctx, userID)
	if err != nil {
		return Grant{}, err
	}

	a.cache.SetDefault(userID, grant)
	return grant, nil
}

// Can reports whether the user holds the permission. Store failures
// propagate as errors, never as a default allow.
func (a *Authorizer) Can(ctx context.Context, userID string, p Permission) (bool, error) {
	grant, err := a.Grant(ctx, userID)
	if err != nil {
		return false, err
	}
	return HasPermission(grant.Role, p), nil
}

// Authorize asserts the user holds the permission and returns ErrForbidden
// otherwise.
func (a *Authorizer) Authorize(ctx context.Context, userID string, p Permission) error {
	allowed, err := a.Can(ctx, userID, p)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: user %s lacks permission %s", ErrForbidden, userID, p)
	}
	return nil
}

// RequireRole asserts the user's role is at least the required level.
func (a *Authorizer) RequireRole(ctx context.Context, userID string, required Role) error {
	grant, err := a.Grant(ctx, userID)
	if err != nil {
		return err
	}
	if !grant.Role.AtLeast(required) {
		return fmt.Errorf("%w: requires at least %s role", ErrForbidden, required)
	}
	return nil
}

// FeatureFlags derives the user's flag bundle from their current grant.
func (a *Authorizer) FeatureFlags(ctx context.Context, userID string) (FeatureFlags, error) {
	grant, err := a.Grant(ctx, userID)
	if err != nil {
		return FeatureFlags{}, err
	}
	return FlagsFor(grant.Role, grant.Subscription), nil
}

// Invalidate drops the cached grant so the next lookup hits the store.
// Called by the billing webhook after a role/subscription transition.
func (a *Authorizer) Invalidate(userID string) {
	a.cache.Delete(userID)
}
