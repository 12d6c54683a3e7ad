package services

import (
	"context"

	"github.com/academix/portal/internal/app/models"
)

// MemberLister lists every registered account
type MemberLister interface {
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// UserService exposes the member directory and the caller's own profile
type UserService interface {
	GetAllMembers(ctx context.Context) ([]*models.User, error)
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users MemberLister
}

// NewUserService creates a new user service instance
func NewUserService(users MemberLister) UserService {
	return &userServiceImpl{users: users}
}

// GetAllMembers returns every account regardless of role. Instructors use
// this list to find unallocated accounts to enroll.
func (s *userServiceImpl) GetAllMembers(ctx context.Context) ([]*models.User, error) {
	members, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []*models.User{}
	}
	return members, nil
}

// GetCurrentUser returns the authenticated caller's profile
func (s *userServiceImpl) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
