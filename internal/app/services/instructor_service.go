package services

import (
	"context"
	"sort"

	appauth "github.com/academix/portal/internal/app/auth"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
)

// InstructorProfileStore resolves instructor profiles
type InstructorProfileStore interface {
	GetInstructorByUserID(ctx context.Context, userID int64) (*models.Instructor, error)
}

// CourseLinkStore reads teaching assignments and their rosters
type CourseLinkStore interface {
	GetInstructorCourses(ctx context.Context, instructorID int64) ([]*models.InstructorCourse, error)
	GetStudentsByCourse(ctx context.Context, courseID int64) ([]*models.StudentEnrollment, error)
}

// AssessmentReader reads an instructor's exams and quizzes
type AssessmentReader interface {
	GetByInstructor(ctx context.Context, instructorID int64, kind models.AssessmentKind) ([]*models.Assessment, error)
}

// NotificationReader reads notifications by either end
type NotificationReader interface {
	GetBySender(ctx context.Context, senderID int64) ([]*models.Notification, error)
	GetByRecipient(ctx context.Context, recipientID int64) ([]*models.Notification, error)
}

// ClaimReader reads claims addressed to an instructor profile
type ClaimReader interface {
	GetByRecipient(ctx context.Context, instructorID int64) ([]*models.Claim, error)
}

// InstructorService builds the instructor dashboard
type InstructorService interface {
	GetConcerns(ctx context.Context, callerID int64) (*dto.InstructorConcerns, error)
}

// instructorServiceImpl implements the InstructorService interface
type instructorServiceImpl struct {
	authz         *appauth.AuthorizationService
	profiles      InstructorProfileStore
	links         CourseLinkStore
	assessments   AssessmentReader
	notifications NotificationReader
	claims        ClaimReader
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(
	authz *appauth.AuthorizationService,
	profiles InstructorProfileStore,
	links CourseLinkStore,
	assessments AssessmentReader,
	notifications NotificationReader,
	claims ClaimReader,
) InstructorService {
	return &instructorServiceImpl{
		authz:         authz,
		profiles:      profiles,
		links:         links,
		assessments:   assessments,
		notifications: notifications,
		claims:        claims,
	}
}

// GetConcerns aggregates everything the instructor's dashboard shows.
// An instructor with no course links gets a fully empty dashboard; no
// partial lookups are attempted.
func (s *instructorServiceImpl) GetConcerns(ctx context.Context, callerID int64) (*dto.InstructorConcerns, error) {
	if err := s.authz.ValidateInstructor(ctx, callerID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetInstructorByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	concerns := dto.NewInstructorConcerns()

	courses, err := s.links.GetInstructorCourses(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return concerns, nil
	}
	concerns.Courses = courses

	students, err := s.collectStudents(ctx, courses)
	if err != nil {
		return nil, err
	}
	concerns.MyStudents = students

	if concerns.Exams, err = s.assessments.GetByInstructor(ctx, profile.ID, models.AssessmentExam); err != nil {
		return nil, err
	}
	if concerns.Quiz, err = s.assessments.GetByInstructor(ctx, profile.ID, models.AssessmentQuiz); err != nil {
		return nil, err
	}
	if concerns.ReceivedNotifications, err = s.notifications.GetByRecipient(ctx, callerID); err != nil {
		return nil, err
	}
	if concerns.SentNotifications, err = s.notifications.GetBySender(ctx, callerID); err != nil {
		return nil, err
	}
	if concerns.Claims, err = s.claims.GetByRecipient(ctx, profile.ID); err != nil {
		return nil, err
	}

	return concerns, nil
}

// collectStudents unions each course's roster. A student enrolled through
// two of the instructor's courses keeps one row per enrollment; duplicate
// enrollment rows across overlapping queries are dropped.
func (s *instructorServiceImpl) collectStudents(ctx context.Context, courses []*models.InstructorCourse) ([]*models.StudentEnrollment, error) {
	seen := make(map[int64]bool)
	students := []*models.StudentEnrollment{}

	for _, link := range courses {
		roster, err := s.links.GetStudentsByCourse(ctx, link.CourseID)
		if err != nil {
			return nil, err
		}
		for _, enrollment := range roster {
			if seen[enrollment.ID] {
				continue
			}
			seen[enrollment.ID] = true
			students = append(students, enrollment)
		}
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].CreatedAt.Before(students[j].CreatedAt)
	})

	return students, nil
}
