package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/middleware"
)

// UserController handles the member directory and the caller's profile
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetMembers lists every registered account
// @Summary List members
// @Description Returns every registered account with its current role, ordered by registration time
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Members"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /members [get]
func (c *UserController) GetMembers(ctx *gin.Context) {
	members, err := c.userService.GetAllMembers(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list members")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Members", members))
}

// GetCurrentUser returns the authenticated caller's profile
// @Summary Get current user
// @Description Returns the caller's own account including its current role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.User} "Current user"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Account no longer exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (c *UserController) GetCurrentUser(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.GetCurrentUser(ctx.Request.Context(), callerID)
	if err != nil {
		c.logger.Error().Err(err).Int64("callerID", callerID).Msg("Failed to load current user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Current user", user))
}
