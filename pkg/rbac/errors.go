package rbac

import "errors"

var (
	// ErrForbidden is returned when a permission or role requirement is not met.
	ErrForbidden = errors.New("rbac.forbidden")

	// ErrUserNotFound is returned when the role store has no record for the user.
	ErrUserNotFound = errors.New("rbac.user_not_found")

	// ErrStoreUnavailable is returned when the role store cannot be reached.
	// Callers must treat it as a failure, never as an allow.
	ErrStoreUnavailable = errors.New("rbac.store_unavailable")

	// ErrInvariantViolated is returned when a role table does not satisfy
	// monotonic permission inheritance.
	ErrInvariantViolated = errors.New("rbac.invariant_violated")
)
