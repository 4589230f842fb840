package api

import "context"

// Role is the access level granted to an authenticated caller.
// Roles are ordered: support < moderator < admin.
type Role int

const (
	RoleNone Role = iota
	RoleSupport
	RoleModerator
	RoleAdmin
)

// String returns the lowercase role name used in logs.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleSupport:
		return "support"
	default:
		return "none"
	}
}

// Allows reports whether the role grants at least the required level.
func (r Role) Allows(required Role) bool {
	return r >= required
}

// roleContextKey is the context key for the authenticated role.
type roleContextKey struct{}

// WithRole returns a new context with the role attached.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleContextKey{}, role)
}

// RoleFromContext extracts the role from the context.
// Returns RoleNone if not present.
func RoleFromContext(ctx context.Context) Role {
	role, ok := ctx.Value(roleContextKey{}).(Role)
	if !ok {
		return RoleNone
	}
	return role
}
