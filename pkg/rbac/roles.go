package rbac

// Role is a named level in the fixed hierarchy.
type Role string

const (
	RoleUser      Role = "user"
	RolePremium   Role = "premium"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// roleOrder defines the total order used for "at least" comparisons.
var roleOrder = []Role{RoleUser, RolePremium, RoleModerator, RoleAdmin}

// ParseRole maps a stored role string to a Role, defaulting unknown values
// to the least-privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RolePremium, RoleModerator, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// Valid reports whether the role is one of the known hierarchy levels.
func (r Role) Valid() bool {
	return r.index() >= 0
}

// AtLeast reports whether the role sits at or above required in the
// hierarchy. Unknown roles never satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	ri, qi := r.index(), required.index()
	if ri < 0 || qi < 0 {
		return false
	}
	return ri >= qi
}

func (r Role) index() int {
	for i, role := range roleOrder {
		if r == role {
			return i
		}
	}
	return -1
}

// AllRoles returns the hierarchy from least to most privileged.
func AllRoles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}
