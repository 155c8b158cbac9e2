package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// Principal is the authenticated caller. It is built once from the access
// token and handed to services explicitly.
type Principal struct {
	UserID     string
	Email      string
	Role       user.Role
	ClientID   string // empty for SUPER_ADMIN
	EmployeeID string // empty when the user has no employee profile
}

func (p Principal) IsSuperAdmin() bool {
	return p.Role == user.RoleSuperAdmin
}

func (p Principal) Can(permission user.Permission) bool {
	return user.HasPermission(p.Role, permission)
}

// Require returns ErrForbidden unless p holds permission.
func (p Principal) Require(permission user.Permission) error {
	if !p.Can(permission) {
		return ErrForbidden
	}
	return nil
}

// CanAccessClient reports whether p may read or write data owned by clientID.
func (p Principal) CanAccessClient(clientID string) bool {
	return p.IsSuperAdmin() || (p.ClientID != "" && p.ClientID == clientID)
}

// ScopeClient resolves the client a query should be restricted to. A super
// admin may ask for any client, or none ("" means every client). Everybody
// else is pinned to their own client.
func (p Principal) ScopeClient(requested string) (string, error) {
	if p.IsSuperAdmin() {
		return requested, nil
	}
	if p.ClientID == "" {
		return "", user.ErrClientIDRequired
	}
	if requested != "" && requested != p.ClientID {
		return "", ErrForbidden
	}
	return p.ClientID, nil
}

// RequireEmployee returns the caller's employee id.
func (p Principal) RequireEmployee() (string, error) {
	if p.EmployeeID == "" {
		return "", ErrNoEmployeeProfile
	}
	return p.EmployeeID, nil
}

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
