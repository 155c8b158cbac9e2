package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)

	svc := NewAuthService(memory.NewTransactor(), memory.NewUserRepository(store), memory.NewClientRepository(store), jwtService).(*AuthServiceImpl)
	svc.passwordCost = bcrypt.MinCost
	return svc, store
}

func registerTestClient(t *testing.T, svc *AuthServiceImpl, email string) auth.TokenResponse {
	t.Helper()

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		ClientName: "Acme " + email,
		Name:       "Admin",
		Email:      email,
		Password:   "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	resp := registerTestClient(t, svc, "admin@acme.test")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	token, err := svc.Service.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	principal, err := jwt.PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.RoleClientAdmin, principal.Role)
	assert.NotEmpty(t, principal.ClientID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestClient(t, svc, "admin@acme.test")

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		ClientName: "Other",
		Name:       "Admin",
		Email:      "ADMIN@acme.test",
		Password:   "password123",
	})

	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestClient(t, svc, "admin@acme.test")
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@acme.test", Password: "password123"})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@acme.test", Password: "wrongpassword"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@acme.test", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _ := newTestAuthService(t)
	resp := registerTestClient(t, svc, "admin@acme.test")
	ctx := context.Background()

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_EnsureSuperAdmin_Idempotent(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx, "Root", "root@platform.test", "password123"))
	require.NoError(t, svc.EnsureSuperAdmin(ctx, "Root", "root@platform.test", "password123"))

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "root@platform.test", Password: "password123"})
	require.NoError(t, err)

	token, err := svc.Service.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	principal, err := jwt.PrincipalFromClaims(claims)
	require.NoError(t, err)

	assert.True(t, principal.IsSuperAdmin())
	assert.Empty(t, principal.ClientID)

	me, err := svc.Me(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "root@platform.test", me.Email)
}
