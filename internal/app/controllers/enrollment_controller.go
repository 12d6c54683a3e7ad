package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/middleware"
)

// EnrollmentController handles role assignment requests
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// EnrollInstructor promotes an unallocated account to instructor
// @Summary Enroll an account as instructor
// @Description Assigns the instructor role to an unallocated account, creates or reuses the named course, links the new instructor to it and schedules the approval email. Re-enrolling an already allocated account is a no-op.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollInstructorRequest true "Enrollment information"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResult} "Role assigned or already allocated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 404 {object} dto.ErrorResponse "Enrollee not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent enrollment conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/instructor [post]
func (c *EnrollmentController) EnrollInstructor(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.EnrollInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.enrollmentService.EnrollInstructor(ctx.Request.Context(), callerID, req.EnrolleeID, req.CourseName, req.CourseCode)
	if err != nil {
		c.logger.Error().Err(err).
			Int64("callerID", callerID).
			Int64("enrolleeID", req.EnrolleeID).
			Msg("Instructor enrollment failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result.Message, result))
}

// EnrollStudent promotes an unallocated account to student
// @Summary Enroll an account as student
// @Description Assigns the student role to an unallocated account and enrolls it in the given course. Re-enrolling an already allocated account is a no-op.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollStudentRequest true "Enrollment information"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResult} "Role assigned or already allocated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent enrollment conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/student [post]
func (c *EnrollmentController) EnrollStudent(ctx *gin.Context) {
	callerID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.enrollmentService.EnrollStudent(ctx.Request.Context(), callerID, req.StudentID, req.CourseID)
	if err != nil {
		c.logger.Error().Err(err).
			Int64("callerID", callerID).
			Int64("studentID", req.StudentID).
			Int64("courseID", req.CourseID).
			Msg("Student enrollment failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result.Message, result))
}
