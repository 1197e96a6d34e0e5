package models

import "strings"

// Permission matching resolves in a fixed precedence order: exact match first,
// then a resource wildcard ("resource:*"), then the global wildcard ("*").
// Absence after all three checks means denied.

// Permission is a "resource:action" grant string, possibly wildcarded.
type Permission string

// Resource returns the segment before the first colon.
func (p Permission) Resource() string {
	res, _, _ := strings.Cut(string(p), ":")
	return res
}

// DefaultPermissions maps each role to its granted permission set.
// Order within a set is not significant; precedence lives in Matches.
var DefaultPermissions = map[UserRole][]Permission{
	RoleAdmin: {
		"users:*",
		"inspections:*",
		"reports:*",
		"settings:*",
		"organizations:*",
		"admin:*",
	},
	RoleInspector: {
		"inspections:create",
		"inspections:read",
		"inspections:update",
		"inspections:delete:own",
		"defects:*",
		"files:upload",
		"files:read",
		"reports:read",
		"reports:generate:own",
		"profile:update:own",
	},
	RoleViewer: {
		"inspections:read",
		"defects:read",
		"files:read",
		"reports:read",
		"profile:read:own",
	},
}

// Matches reports whether the requested permission is covered by the granted
// set: exact grant, then "resource:*", then "*", first match wins.
func Matches(granted []Permission, requested string) bool {
	req := Permission(requested)
	for _, g := range granted {
		if g == req {
			return true
		}
	}
	resourceWildcard := Permission(req.Resource() + ":*")
	for _, g := range granted {
		if g == resourceWildcard {
			return true
		}
	}
	for _, g := range granted {
		if g == "*" {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user's role grants the requested
// permission. A nil user always denies.
func HasPermission(user *User, permission string) bool {
	if user == nil {
		return false
	}
	return Matches(DefaultPermissions[user.Role], permission)
}

// HasRole reports whether the user's role is among the required roles.
// A nil user or an empty role list always denies.
func HasRole(user *User, roles ...UserRole) bool {
	if user == nil {
		return false
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}
