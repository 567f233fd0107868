package rbac

// Permission is an opaque capability token from the fixed catalogue.
// Permissions never expire and are not request-scoped.
type Permission string

const (
	// Product catalogue
	PermReadProducts   Permission = "read:products"
	PermCreateProducts Permission = "create:products"
	PermUpdateProducts Permission = "update:products"
	PermDeleteProducts Permission = "delete:products"

	// Carbon footprints
	PermReadFootprints   Permission = "read:footprints"
	PermCreateFootprints Permission = "create:footprints"
	PermUpdateFootprints Permission = "update:footprints"
	PermVerifyFootprints Permission = "verify:footprints"

	// Scans
	PermCreateScan   Permission = "create:scan"
	PermReadOwnScans Permission = "read:own-scans"
	PermReadAllScans Permission = "read:all-scans"

	// User data
	PermReadOwnData   Permission = "read:own-data"
	PermUpdateOwnData Permission = "update:own-data"
	PermDeleteOwnData Permission = "delete:own-data"
	PermExportOwnData Permission = "export:own-data"

	// Analytics
	PermReadOwnAnalytics Permission = "read:own-analytics"
	PermReadAllAnalytics Permission = "read:all-analytics"
	PermExportAnalytics  Permission = "export:analytics"

	// API surface
	PermAPIAccess Permission = "api:access"
	PermAPIWrite  Permission = "api:write"

	// Administration
	PermManageUsers   Permission = "manage:users"
	PermManageRoles   Permission = "manage:roles"
	PermManageSystem  Permission = "manage:system"
	PermViewAuditLogs Permission = "view:audit-logs"

	// Moderation
	PermModerateContent Permission = "moderate:content"
	PermBanUsers        Permission = "ban:users"
)

// PermissionSet is a read-only membership set.
type PermissionSet map[Permission]struct{}

// Has reports set membership.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// roleAdditions lists only the permissions each role adds on top of the
// role directly below it. The full table is composed from these at init,
// which makes the monotonic-superset invariant hold by construction.
var roleAdditions = map[Role][]Permission{
	RoleUser: {
		PermReadProducts,
		PermReadFootprints,
		PermCreateScan,
		PermReadOwnScans,
		PermReadOwnData,
		PermUpdateOwnData,
		PermDeleteOwnData,
		PermExportOwnData,
		PermReadOwnAnalytics,
	},
	RolePremium: {
		PermExportAnalytics,
		PermAPIAccess,
	},
	RoleModerator: {
		PermCreateProducts,
		PermUpdateProducts,
		PermCreateFootprints,
		PermUpdateFootprints,
		PermVerifyFootprints,
		PermReadAllScans,
		PermModerateContent,
		PermReadAllAnalytics,
	},
	RoleAdmin: {
		PermDeleteProducts,
		PermAPIWrite,
		PermManageUsers,
		PermManageRoles,
		PermManageSystem,
		PermViewAuditLogs,
		PermBanUsers,
	},
}

// rolePermissions is the composed, immutable table.
var rolePermissions = buildRolePermissions(roleAdditions)

// buildRolePermissions folds additions down the hierarchy so every role
// inherits everything below it.
func buildRolePermissions(additions map[Role][]Permission) map[Role]PermissionSet {
	table := make(map[Role]PermissionSet, len(roleOrder))
	inherited := PermissionSet{}

	for _, role := range roleOrder {
		for _, p := range additions[role] {
			inherited[p] = struct{}{}
		}
		set := make(PermissionSet, len(inherited))
		for p := range inherited {
			set[p] = struct{}{}
		}
		table[role] = set
	}

	return table
}

// HasPermission reports whether the role's composed permission set contains
// the given permission.
func HasPermission(role Role, p Permission) bool {
	return rolePermissions[role].Has(p)
}

// HasAnyPermission reports whether the role holds at least one of the
// given permissions.
func HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every given permission.
func HasAllPermissions(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// PermissionsFor returns a copy of the role's composed permission set.
func PermissionsFor(role Role) PermissionSet {
	src := rolePermissions[role]
	out := make(PermissionSet, len(src))
	for p := range src {
		out[p] = struct{}{}
	}
	return out
}
