package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/middleware"
)

// ClaimController handles student claims
type ClaimController struct {
	claimService services.ClaimService
	logger       zerolog.Logger
}

// NewClaimController creates a new ClaimController
func NewClaimController(claimService services.ClaimService, logger zerolog.Logger) *ClaimController {
	return &ClaimController{
		claimService: claimService,
		logger:       logger,
	}
}

// CreateClaim records a claim addressed to an instructor profile
// @Summary Raise a claim
// @Description Creates a claim from the caller's student enrollment to the given instructor profile
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClaimRequest true "Claim information"
// @Success 201 {object} dto.APIResponse{data=models.Claim} "Claim created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Caller has no enrollment or instructor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /claims [post]
func (c *ClaimController) CreateClaim(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	claim, err := c.claimService.Create(ctx.Request.Context(), callerID, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("callerID", callerID).Msg("Failed to create claim")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse("Claim created", claim))
}
