package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypeBearer = "Bearer"

type AuthServiceImpl struct {
	database.Transactor
	user.UserRepository
	client.ClientRepository
	jwt.Service
	passwordCost int
}

func NewAuthService(transactor database.Transactor, userRepository user.UserRepository, clientRepository client.ClientRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		Transactor:       transactor,
		UserRepository:   userRepository,
		ClientRepository: clientRepository,
		Service:          jwtService,
		passwordCost:     bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// principalOf builds the token identity of u.
func principalOf(u user.User) auth.Principal {
	p := auth.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
	if u.ClientID != nil {
		p.ClientID = *u.ClientID
	}
	if u.EmployeeID != nil {
		p.EmployeeID = *u.EmployeeID
	}
	return p
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	var (
		resp auth.TokenResponse
		err  error
	)

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(principalOf(u))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	resp.TokenType = tokenTypeBearer
	return resp, nil
}

// Register implements auth.AuthService. The client and its first admin are
// created together or not at all.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	err = a.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := a.UserRepository.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.ErrUserEmailExists
		}

		newClient, err := a.ClientRepository.Create(txCtx, client.Client{
			Name:     strings.TrimSpace(req.ClientName),
			Timezone: req.Timezone,
		})
		if err != nil {
			return err
		}

		created, err = a.UserRepository.Create(txCtx, user.User{
			ClientID:     &newClient.ID,
			Name:         strings.TrimSpace(req.Name),
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         user.RoleClientAdmin,
		})
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return a.issueTokens(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(userData)
}

// RefreshToken implements auth.AuthService. The user is reloaded so a
// changed role or employee link shows up in the new access token.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(principalOf(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		TokenType:            tokenTypeBearer,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	if _, err := a.Service.ParseRefreshToken(refreshToken); err != nil {
		return err
	}
	a.Service.RevokeToken(refreshToken)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, principal auth.Principal) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, auth.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.NewUserResponse(userData), nil
}

// EnsureSuperAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureSuperAdmin(ctx context.Context, name, email, password string) error {
	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = a.UserRepository.Create(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         user.RoleSuperAdmin,
	})
	if errors.Is(err, user.ErrUserEmailExists) {
		return nil
	}
	return err
}
