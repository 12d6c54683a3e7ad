package auth

import (
	"context"
	"errors"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/logger"
)

// UserGetter resolves user records for authorization checks
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService handles authorization decisions. The identity store
// is the single source of truth: role claims carried in tokens are never
// trusted for the instructor gate.
type AuthorizationService struct {
	users UserGetter
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserGetter) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// IsInstructor checks if the user currently holds the instructor role
func (s *AuthorizationService) IsInstructor(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in IsInstructor")
		return false, err
	}
	return user.Role == models.RoleInstructor, nil
}

// ValidateInstructor returns ErrPermissionDenied unless the user is an
// instructor. An unknown caller is indistinguishable from an unauthorized
// one.
func (s *AuthorizationService) ValidateInstructor(ctx context.Context, userID int64) error {
	isInstructor, err := s.IsInstructor(ctx, userID)
	if err != nil {
		return err
	}

	if !isInstructor {
		return apperrors.NewForbiddenError("This operation requires the instructor role")
	}

	return nil
}
