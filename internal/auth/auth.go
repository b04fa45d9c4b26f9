package auth

import (
	"context"
	"slices"
	"strings"

	"boardinghouse/internal/apperr"
)

// Role is one of the three kinds of account.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleLandlord
	RoleTenant
)

var roleNames = map[Role]string{
	RoleAdmin:    "ADMIN",
	RoleLandlord: "LANDLORD",
	RoleTenant:   "TENANT",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseRole accepts the persisted role names only.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == strings.TrimSpace(s) {
			return role, nil
		}
	}
	return 0, apperr.Validation("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Principal is the signed-in caller of an operation.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// Require is the gate every operation runs first.
func Require(p Principal, allowed ...Role) error {
	if p.UserID == "" {
		return apperr.Unauthorized("not signed in")
	}
	if !slices.Contains(allowed, p.Role) {
		return apperr.Forbidden("role %s may not perform this operation", p.Role)
	}
	return nil
}

type contextKey struct{}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the caller stored by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok && p.UserID != ""
}
