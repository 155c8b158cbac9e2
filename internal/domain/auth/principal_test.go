package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_ScopeClient(t *testing.T) {
	admin := Principal{UserID: "u1", Role: user.RoleClientAdmin, ClientID: "c1"}
	super := Principal{UserID: "u0", Role: user.RoleSuperAdmin}
	orphan := Principal{UserID: "u2", Role: user.RoleManager}

	got, err := admin.ScopeClient("")
	require.NoError(t, err)
	assert.Equal(t, "c1", got)

	got, err = admin.ScopeClient("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got)

	_, err = admin.ScopeClient("c2")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err = super.ScopeClient("c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", got)

	got, err = super.ScopeClient("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = orphan.ScopeClient("")
	assert.ErrorIs(t, err, user.ErrClientIDRequired)
}

func TestPrincipal_CanAccessClient(t *testing.T) {
	admin := Principal{Role: user.RoleClientAdmin, ClientID: "c1"}
	assert.True(t, admin.CanAccessClient("c1"))
	assert.False(t, admin.CanAccessClient("c2"))
	assert.True(t, Principal{Role: user.RoleSuperAdmin}.CanAccessClient("anything"))
	assert.False(t, Principal{Role: user.RoleEmployee}.CanAccessClient(""))
}

func TestPrincipal_RequireEmployee(t *testing.T) {
	_, err := Principal{Role: user.RoleClientAdmin}.RequireEmployee()
	assert.ErrorIs(t, err, ErrNoEmployeeProfile)

	id, err := Principal{Role: user.RoleEmployee, EmployeeID: "e1"}.RequireEmployee()
	require.NoError(t, err)
	assert.Equal(t, "e1", id)
}

func TestPrincipal_Context(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	p := Principal{UserID: "u1", Role: user.RoleEmployee}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Equal(t, p, got)
}
