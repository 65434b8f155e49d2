package auth

// RBAC roles and permissions.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Permissions per role.
var Permissions = map[string][]string{
	RoleAdmin: {
		"users:read",
		"users:write",
		"notifications:send",
		"notifications:templates",
		"subscriptions:approve",
		"courses:write",
		"settings:write",
		"reports:read",
	},
	RoleStudent: {
		"users:read:self",
		"users:write:self",
		"courses:read",
		"courses:enroll",
		"subscriptions:request",
	},
}

// HasPermission reports whether a role carries the given permission.
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
