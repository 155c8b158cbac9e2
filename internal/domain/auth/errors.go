package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("access to this resource is not allowed")
	ErrNoEmployeeProfile   = errors.New("no employee profile is linked to this account")
)
