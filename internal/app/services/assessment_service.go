package services

import (
	"context"
	"fmt"
	"time"

	appauth "github.com/academix/portal/internal/app/auth"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/pkg/apperrors"
)

// AssessmentWriter persists exams and quizzes
type AssessmentWriter interface {
	CreateAssessment(ctx context.Context, assessment *models.Assessment) (int64, error)
	GetByInstructor(ctx context.Context, instructorID int64, kind models.AssessmentKind) ([]*models.Assessment, error)
}

// AssessmentService manages instructor-owned exams and quizzes
type AssessmentService interface {
	Create(ctx context.Context, callerID int64, req *dto.CreateAssessmentRequest) (*models.Assessment, error)
	List(ctx context.Context, callerID int64, kind models.AssessmentKind) ([]*models.Assessment, error)
}

// assessmentServiceImpl implements the AssessmentService interface
type assessmentServiceImpl struct {
	authz       *appauth.AuthorizationService
	profiles    InstructorProfileStore
	assessments AssessmentWriter
}

// NewAssessmentService creates a new assessment service instance
func NewAssessmentService(authz *appauth.AuthorizationService, profiles InstructorProfileStore, assessments AssessmentWriter) AssessmentService {
	return &assessmentServiceImpl{
		authz:       authz,
		profiles:    profiles,
		assessments: assessments,
	}
}

// Create records a new assessment owned by the caller's instructor profile
func (s *assessmentServiceImpl) Create(ctx context.Context, callerID int64, req *dto.CreateAssessmentRequest) (*models.Assessment, error) {
	if err := s.authz.ValidateInstructor(ctx, callerID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetInstructorByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	kind := models.AssessmentKind(req.Kind)
	if kind != models.AssessmentExam && kind != models.AssessmentQuiz {
		return nil, fmt.Errorf("%w: kind must be exam or quiz", apperrors.ErrValidationFailed)
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: dueDate must be RFC 3339", apperrors.ErrValidationFailed)
	}

	assessment := &models.Assessment{
		InstructorID: profile.ID,
		Kind:         kind,
		Title:        req.Title,
		Description:  req.Description,
		Written:      req.Written,
		DueDate:      dueDate,
	}
	if req.Attachment != "" {
		assessment.Attachment = &req.Attachment
	}

	id, err := s.assessments.CreateAssessment(ctx, assessment)
	if err != nil {
		return nil, err
	}
	assessment.ID = id

	return assessment, nil
}

// List returns the caller's assessments of the given kind
func (s *assessmentServiceImpl) List(ctx context.Context, callerID int64, kind models.AssessmentKind) ([]*models.Assessment, error) {
	if err := s.authz.ValidateInstructor(ctx, callerID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetInstructorByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return s.assessments.GetByInstructor(ctx, profile.ID, kind)
}
