package rbac

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Grant is the pair fetched per user from the persistence collaborator.
type Grant struct {
	Role         Role
	Subscription string
}

// RoleStore fetches the role/subscription pair by user id. Implementations
// must bound their own I/O; callers add a timeout on top.
type RoleStore interface {
	Get(ctx context.Context, userID string) (Grant, error)
}

// RoleWriter applies role/subscription transitions asserted by payment
// webhooks.
type RoleWriter interface {
	Set(ctx context.Context, userID string, grant Grant) error
}

// MemoryRoleStore is an in-process RoleStore/RoleWriter used in tests and
// single-node deployments without a user database.
type MemoryRoleStore struct {
	mu     sync.RWMutex
	grants map[string]Grant
}

// NewMemoryRoleStore creates an empty in-process store.
func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{grants: make(map[string]Grant)}
}

// Get implements RoleStore.
func (s *MemoryRoleStore) Get(ctx context.Context, userID string) (Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant, ok := s.grants[userID]
	if !ok {
		return Grant{}, ErrUserNotFound
	}
	return grant, nil
}

// Set implements RoleWriter.
func (s *MemoryRoleStore) Set(ctx context.Context, userID string, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grants[userID] = grant
	return nil
}

// PGRoleStore reads and writes the role/subscription pair in the users
// table. The relational store is consulted only for this lookup; all other
// persistence concerns live elsewhere.
type PGRoleStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPGRoleStore creates a store backed by the given pool.
func NewPGRoleStore(pool *pgxpool.Pool) *PGRoleStore {
	return &PGRoleStore{pool: pool, timeout: 3 * time.Second}
}

// Get implements RoleStore.
func (s *PGRoleStore) Get(ctx context.Context, userID string) (Grant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var role, subscription string
	err := s.pool.QueryRow(ctx,
		`SELECT role, subscription_tier FROM users WHERE id = $1`,
		userID,
	).Scan(&role, &subscription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Grant{}, ErrUserNotFound
		}
		return Grant{}, errors.Join(ErrStoreUnavailable, err)
	}

	return Grant{Role: ParseRole(role), Subscription: subscription}, nil
}

// Set implements RoleWriter.
func (s *PGRoleStore) Set(ctx context.Context, userID string, grant Grant) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET role = $2, subscription_tier = $3, updated_at = now() WHERE id = $1`,
		userID, string(grant.Role), grant.Subscription,
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
