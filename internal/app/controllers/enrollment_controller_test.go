package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/middleware"
	"github.com/academix/portal/internal/pkg/apperrors"
)

type stubEnrollmentService struct {
	result *dto.EnrollmentResult
	err    error

	callerID int64
	courseID int64
}

func (s *stubEnrollmentService) EnrollInstructor(ctx context.Context, callerID, enrolleeID int64, courseName, courseCode string) (*dto.EnrollmentResult, error) {
	s.callerID = callerID
	return s.result, s.err
}

func (s *stubEnrollmentService) EnrollStudent(ctx context.Context, callerID, studentID, courseID int64) (*dto.EnrollmentResult, error) {
	s.callerID = callerID
	s.courseID = courseID
	return s.result, s.err
}

func enrollmentTestRouter(service *stubEnrollmentService, callerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewEnrollmentController(service, zerolog.Nop())

	authed := router.Group("", func(c *gin.Context) {
		if callerID > 0 {
			c.Set(middleware.ContextUserID, callerID)
		}
		c.Next()
	})
	authed.POST("/enrollments/instructor", controller.EnrollInstructor)
	authed.POST("/enrollments/student", controller.EnrollStudent)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEnrollInstructorEndpointSuccess(t *testing.T) {
	service := &stubEnrollmentService{
		result: &dto.EnrollmentResult{Success: true, Message: "Approval email scheduled for Jane Doe"},
	}
	router := enrollmentTestRouter(service, 1)

	rec := postJSON(t, router, "/enrollments/instructor", dto.EnrollInstructorRequest{
		EnrolleeID: 2,
		CourseName: "Mathematics",
		CourseCode: "MTH101",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), service.callerID)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "Jane Doe")
}

func TestEnrollInstructorEndpointRejectsBadPayload(t *testing.T) {
	router := enrollmentTestRouter(&stubEnrollmentService{}, 1)

	rec := postJSON(t, router, "/enrollments/instructor", map[string]any{"enrolleeId": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
}

func TestEnrollInstructorEndpointForbidden(t *testing.T) {
	service := &stubEnrollmentService{err: apperrors.ErrPermissionDenied}
	router := enrollmentTestRouter(service, 1)

	rec := postJSON(t, router, "/enrollments/instructor", dto.EnrollInstructorRequest{
		EnrolleeID: 2,
		CourseName: "Mathematics",
		CourseCode: "MTH101",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEnrollStudentEndpointNotFound(t *testing.T) {
	service := &stubEnrollmentService{err: apperrors.ErrCourseNotFound}
	router := enrollmentTestRouter(service, 1)

	rec := postJSON(t, router, "/enrollments/student", dto.EnrollStudentRequest{StudentID: 2, CourseID: 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(99), service.courseID)
}

func TestEnrollStudentEndpointConflict(t *testing.T) {
	service := &stubEnrollmentService{err: apperrors.ErrConflict}
	router := enrollmentTestRouter(service, 1)

	rec := postJSON(t, router, "/enrollments/student", dto.EnrollStudentRequest{StudentID: 2, CourseID: 7})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEnrollmentEndpointsRequireIdentity(t *testing.T) {
	router := enrollmentTestRouter(&stubEnrollmentService{}, 0)

	rec := postJSON(t, router, "/enrollments/instructor", dto.EnrollInstructorRequest{
		EnrolleeID: 2,
		CourseName: "Mathematics",
		CourseCode: "MTH101",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
