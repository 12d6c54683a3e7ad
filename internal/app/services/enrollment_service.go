package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/academix/portal/internal/app/auth"
	"github.com/academix/portal/internal/app/dispatch"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/dberrors"
	"github.com/academix/portal/internal/pkg/email"
)

// MessageAlreadyAllocated is returned when the target's role is already set.
// Re-submitting an enrollment form is a benign race, not a failure.
const MessageAlreadyAllocated = "Role is already allocated"

// EnrollmentTx is the write surface available inside the role-assignment
// transaction. Every mutation here becomes durable together or not at all.
type EnrollmentTx interface {
	// AssignRole flips the user out of the unallocated state; assigned is
	// false when another caller already did.
	AssignRole(ctx context.Context, userID int64, role models.RoleType) (assigned bool, err error)
	// EnsureInstructor creates the instructor profile if absent and returns its ID
	EnsureInstructor(ctx context.Context, userID int64) (int64, error)
	// UpsertCourseByCode inserts or reuses a course row keyed by code
	UpsertCourseByCode(ctx context.Context, code, name string) (int64, error)
	// LinkInstructorCourse records the teaching assignment, at most once per pair
	LinkInstructorCourse(ctx context.Context, instructorID, courseID int64) error
	// CreateStudentEnrollment records a student joining a course
	CreateStudentEnrollment(ctx context.Context, userID, courseID int64) (int64, error)
	// CreateNotification records the in-portal approval notification
	CreateNotification(ctx context.Context, senderID, recipientID int64, description string) error
}

// EnrollmentStore is the persistence seam for the role-assignment engine
type EnrollmentStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error
}

// EnrollmentService is the only writer of the role field. It moves accounts
// out of the unallocated state, creates the enrollment relationship and
// schedules the approval notification.
type EnrollmentService interface {
	EnrollInstructor(ctx context.Context, callerID, enrolleeID int64, courseName, courseCode string) (*dto.EnrollmentResult, error)
	EnrollStudent(ctx context.Context, callerID, studentID, courseID int64) (*dto.EnrollmentResult, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	store      EnrollmentStore
	authz      *appauth.AuthorizationService
	dispatcher dispatch.Dispatcher
	baseURL    string
	logger     zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	store EnrollmentStore,
	authz *appauth.AuthorizationService,
	dispatcher dispatch.Dispatcher,
	baseURL string,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		store:      store,
		authz:      authz,
		dispatcher: dispatcher,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// resolveTarget authorizes the caller and loads the enrollment target.
// already is true when the target's role is no longer unallocated.
func (s *enrollmentServiceImpl) resolveTarget(ctx context.Context, callerID, targetID int64) (target *models.User, already bool, err error) {
	if err := s.authz.ValidateInstructor(ctx, callerID); err != nil {
		return nil, false, err
	}

	target, err = s.store.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, false, err
	}

	return target, target.Role.Allocated(), nil
}

// runAssignment executes fn inside a transaction, retrying once when a
// unique-constraint race slipped past the upsert guards. A second failure
// surfaces as a conflict.
func (s *enrollmentServiceImpl) runAssignment(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error {
	err := s.store.InTransaction(ctx, fn)
	if err == nil || !dberrors.IsUniqueViolation(err) {
		return err
	}

	s.logger.Warn().Err(err).Msg("Unique constraint race during role assignment, retrying once")
	err = s.store.InTransaction(ctx, fn)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("role assignment conflicted with a concurrent request")
		}
		return err
	}
	return nil
}

// scheduleApproval enqueues the approval email. Best-effort only: by the
// time this runs the role assignment has committed and must not be rolled
// back for a delivery problem.
func (s *enrollmentServiceImpl) scheduleApproval(target *models.User, role models.RoleType, courseName, courseCode string) {
	body := email.RenderApprovalBody(email.ApprovalMessage{
		Name:       target.Name,
		Role:       string(role),
		UserID:     target.ID,
		CourseName: courseName,
		CourseCode: courseCode,
		BaseURL:    s.baseURL,
	})

	accepted := s.dispatcher.Enqueue(dispatch.Job{
		To:      target.Email,
		Subject: email.ApprovalSubject,
		Body:    body,
	})
	if !accepted {
		s.logger.Error().Int64("userID", target.ID).Str("email", target.Email).Msg("Approval notification not accepted by dispatcher")
	}
}

// EnrollInstructor promotes an unallocated account to instructor, assigns it
// the given course and schedules the approval email.
func (s *enrollmentServiceImpl) EnrollInstructor(ctx context.Context, callerID, enrolleeID int64, courseName, courseCode string) (*dto.EnrollmentResult, error) {
	courseName = strings.TrimSpace(courseName)
	courseCode = strings.TrimSpace(courseCode)
	if courseName == "" || courseCode == "" {
		return nil, fmt.Errorf("%w: course name and code are required", apperrors.ErrValidationFailed)
	}

	target, already, err := s.resolveTarget(ctx, callerID, enrolleeID)
	if err != nil {
		return nil, err
	}
	if already {
		return &dto.EnrollmentResult{Success: true, Message: MessageAlreadyAllocated}, nil
	}

	var lostRace bool
	err = s.runAssignment(ctx, func(ctx context.Context, tx EnrollmentTx) error {
		lostRace = false

		assigned, err := tx.AssignRole(ctx, target.ID, models.RoleInstructor)
		if err != nil {
			return err
		}
		if !assigned {
			// A concurrent assignment won; nothing else may be written.
			lostRace = true
			return nil
		}

		instructorID, err := tx.EnsureInstructor(ctx, target.ID)
		if err != nil {
			return err
		}

		courseID, err := tx.UpsertCourseByCode(ctx, courseCode, courseName)
		if err != nil {
			return err
		}

		if err := tx.LinkInstructorCourse(ctx, instructorID, courseID); err != nil {
			return err
		}

		description := fmt.Sprintf("Your instructor account has been approved for %s (%s)", courseName, courseCode)
		return tx.CreateNotification(ctx, callerID, target.ID, description)
	})
	if err != nil {
		return nil, err
	}

	if lostRace {
		s.logger.Info().Int64("targetID", target.ID).Msg("Concurrent role assignment won the race, returning already-allocated")
		return &dto.EnrollmentResult{Success: true, Message: MessageAlreadyAllocated}, nil
	}

	s.scheduleApproval(target, models.RoleInstructor, courseName, courseCode)

	s.logger.Info().
		Int64("callerID", callerID).
		Int64("targetID", target.ID).
		Str("courseCode", courseCode).
		Msg("Instructor role assigned")

	return &dto.EnrollmentResult{
		Success: true,
		Message: fmt.Sprintf("Approval email scheduled for %s", target.Name),
	}, nil
}

// EnrollStudent promotes an unallocated account to student and enrolls it in
// the given course.
func (s *enrollmentServiceImpl) EnrollStudent(ctx context.Context, callerID, studentID, courseID int64) (*dto.EnrollmentResult, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: course ID is required", apperrors.ErrValidationFailed)
	}

	// Validate the course before touching the target: a student enrollment
	// always names the course it joins.
	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	target, already, err := s.resolveTarget(ctx, callerID, studentID)
	if err != nil {
		return nil, err
	}
	if already {
		return &dto.EnrollmentResult{Success: true, Message: MessageAlreadyAllocated}, nil
	}

	var lostRace bool
	err = s.runAssignment(ctx, func(ctx context.Context, tx EnrollmentTx) error {
		lostRace = false

		assigned, err := tx.AssignRole(ctx, target.ID, models.RoleStudent)
		if err != nil {
			return err
		}
		if !assigned {
			lostRace = true
			return nil
		}

		if _, err := tx.CreateStudentEnrollment(ctx, target.ID, course.ID); err != nil {
			return err
		}

		description := fmt.Sprintf("Your student account has been approved for %s (%s)", course.Name, course.Code)
		return tx.CreateNotification(ctx, callerID, target.ID, description)
	})
	if err != nil {
		return nil, err
	}

	if lostRace {
		s.logger.Info().Int64("targetID", target.ID).Msg("Concurrent role assignment won the race, returning already-allocated")
		return &dto.EnrollmentResult{Success: true, Message: MessageAlreadyAllocated}, nil
	}

	s.scheduleApproval(target, models.RoleStudent, course.Name, course.Code)

	s.logger.Info().
		Int64("callerID", callerID).
		Int64("targetID", target.ID).
		Int64("courseID", course.ID).
		Msg("Student role assigned")

	return &dto.EnrollmentResult{
		Success: true,
		Message: fmt.Sprintf("Approval email scheduled for %s", target.Name),
	}, nil
}
