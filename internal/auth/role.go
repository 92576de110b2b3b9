package auth

import (
	"context"
	"fmt"
	"strings"
)

// Role is a caller's coarse-grained permission level
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts a role name in any case, with or without the ROLE_ prefix
func ParseRole(s string) (Role, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
	switch Role(name) {
	case RoleUser, RoleAdmin:
		return Role(name), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated caller of a request
type Principal struct {
	Subject string
	Roles   []Role
}

// HasAnyRole reports whether the principal holds at least one of roles
func (p *Principal) HasAnyRole(roles ...Role) bool {
	for _, held := range p.Roles {
		for _, role := range roles {
			if held == role {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
