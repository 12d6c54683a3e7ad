package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/middleware"
	"github.com/academix/portal/internal/pkg/apperrors"
)

// InstructorController handles the instructor dashboard and assessments
type InstructorController struct {
	instructorService services.InstructorService
	assessmentService services.AssessmentService
	logger            zerolog.Logger
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService, assessmentService services.AssessmentService, logger zerolog.Logger) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
		assessmentService: assessmentService,
		logger:            logger,
	}
}

// GetConcerns returns the instructor dashboard
// @Summary Get instructor concerns
// @Description Returns the caller's courses, students, exams, quizzes, notifications and claims. An instructor with no course links gets empty lists.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstructorConcerns} "Dashboard data"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors/concerns [get]
func (c *InstructorController) GetConcerns(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	concerns, err := c.instructorService.GetConcerns(ctx.Request.Context(), callerID)
	if err != nil {
		c.logger.Error().Err(err).Int64("callerID", callerID).Msg("Failed to build instructor concerns")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Instructor concerns", concerns))
}

// CreateAssessment records a new exam or quiz
// @Summary Create an assessment
// @Description Creates an exam or quiz owned by the caller's instructor profile
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssessmentRequest true "Assessment information"
// @Success 201 {object} dto.APIResponse{data=models.Assessment} "Assessment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments [post]
func (c *InstructorController) CreateAssessment(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	assessment, err := c.assessmentService.Create(ctx.Request.Context(), callerID, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("callerID", callerID).Str("kind", req.Kind).Msg("Failed to create assessment")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse("Assessment created", assessment))
}

// ListAssessments returns the caller's assessments of one kind
// @Summary List assessments
// @Description Returns the caller's exams or quizzes depending on the kind query parameter
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param kind query string true "Assessment kind" Enums(exam, quiz)
// @Success 200 {object} dto.APIResponse{data=[]models.Assessment} "Assessments"
// @Failure 400 {object} dto.ErrorResponse "Unknown assessment kind"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments [get]
func (c *InstructorController) ListAssessments(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	kind := models.AssessmentKind(ctx.Query("kind"))
	if kind != models.AssessmentExam && kind != models.AssessmentQuiz {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("kind must be exam or quiz"))
		return
	}

	assessments, err := c.assessmentService.List(ctx.Request.Context(), callerID, kind)
	if err != nil {
		c.logger.Error().Err(err).Int64("callerID", callerID).Msg("Failed to list assessments")
		middleware.HandleAPIError(ctx, err)
		return
	}
	if assessments == nil {
		assessments = []*models.Assessment{}
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Assessments", assessments))
}
