package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academix/portal/internal/app/models"
)

func testJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "academix.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	service := testJWTService(time.Hour)
	user := &models.User{ID: 7, Email: "jane@academix.com", Role: models.RoleInstructor}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := service.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "jane@academix.com", claims.Email)
	assert.Equal(t, string(models.RoleInstructor), claims.Role)
	assert.Equal(t, "academix.test", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := testJWTService(-time.Minute)
	user := &models.User{ID: 7, Email: "jane@academix.com", Role: models.RoleStudent}

	accessToken, _, _, _, err := service.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := testJWTService(time.Hour)
	user := &models.User{ID: 7, Email: "jane@academix.com", Role: models.RoleStudent}

	accessToken, _, _, _, err := service.GenerateTokenPair(user)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "academix.test",
	})
	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateAndExtractClaimsRejectsEmptyToken(t *testing.T) {
	service := testJWTService(time.Hour)
	_, err := service.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "wrongpass"))
}
