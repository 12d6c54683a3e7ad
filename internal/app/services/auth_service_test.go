package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/auth"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeTokenStore struct {
	tokens map[string]int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64)}
}

func (s *fakeTokenStore) StoreRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (s *fakeTokenStore) RevokeRefreshToken(ctx context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func newAuthServiceForTest(users *fakeUserStore, tokens *fakeTokenStore) AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "academix.test",
	})
	return NewAuthService(users, tokens, jwtService)
}

func TestRegisterCreatesUnallocatedAccount(t *testing.T) {
	users := newFakeUserStore()
	service := newAuthServiceForTest(users, newFakeTokenStore())

	user, err := service.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "Jane@Academix.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUnallocated, user.Role)
	assert.Equal(t, "jane@academix.com", user.Email)
	assert.NotEqual(t, "s3cretpass", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "s3cretpass"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	service := newAuthServiceForTest(users, newFakeTokenStore())

	req := &dto.RegisterRequest{Name: "Jane", Email: "jane@academix.com", Password: "s3cretpass"}
	_, err := service.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	service := newAuthServiceForTest(users, tokens)

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Name: "Jane", Email: "jane@academix.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	pair, err := service.Login(context.Background(), &dto.LoginRequest{
		Email: "jane@academix.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Contains(t, tokens.tokens, pair.RefreshToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserStore()
	service := newAuthServiceForTest(users, newFakeTokenStore())

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Name: "Jane", Email: "jane@academix.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &dto.LoginRequest{Email: "jane@academix.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), &dto.LoginRequest{Email: "nobody@academix.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	service := newAuthServiceForTest(users, tokens)

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Name: "Jane", Email: "jane@academix.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	pair, err := service.Login(context.Background(), &dto.LoginRequest{
		Email: "jane@academix.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.NotContains(t, tokens.tokens, pair.RefreshToken)
	assert.Contains(t, tokens.tokens, rotated.RefreshToken)

	// The old token is gone
	_, err = service.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
