package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to the standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		handleMappedError(c, err, customErr.Message)
		return
	}
	handleMappedError(c, err, "")
}

func handleMappedError(c *gin.Context, err error, message string) {
	withDefault := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrInstructorNotFound,
		apperrors.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, withDefault("Resource not found"))))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, withDefault("Permission denied"))))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, withDefault("Invalid credentials"))))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, withDefault("Token expired"))))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, withDefault("Invalid token"))))
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, withDefault("Validation failed"))))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, withDefault("Email already exists"))))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceConflict, withDefault("Conflicting concurrent update"))))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
