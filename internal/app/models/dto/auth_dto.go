package dto

// RegisterRequest is the payload for account sign-up. New accounts always
// start with the unallocated role.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@academix.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cretpass"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@academix.com"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RefreshTokenRequest is the payload for refreshing an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries the issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}
