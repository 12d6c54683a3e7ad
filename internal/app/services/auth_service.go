package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/auth"
	"github.com/academix/portal/internal/pkg/logger"
)

// UserStore is the account surface the auth service needs
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenStore persists opaque refresh tokens
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// AuthService handles sign-up, login and token refresh. Registration never
// assigns a role: every new account starts unallocated and waits for an
// instructor to enroll it.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	users      UserStore
	tokens     TokenStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service instance
func NewAuthService(users UserStore, tokens TokenStore, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
	}
}

// Register creates a new unallocated account
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUnallocated,
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Info().Int64("userID", id).Str("email", email).Msg("Account registered with unallocated role")
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token for a new pair. The old token is
// revoked even when it was still valid.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokens.GetUserIDByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke rotated refresh token")
	}

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token pair")
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokens.StoreRefreshToken(ctx, user.ID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
