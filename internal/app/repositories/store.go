package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/db"
)

// EnrollmentStore adapts the repository layer to the enrollment service's
// persistence seam, binding its transactional writes to a single pgx
// transaction.
type EnrollmentStore struct {
	db    *db.PostgresDB
	repos *Repositories
}

// NewEnrollmentStore creates a new enrollment store instance
func NewEnrollmentStore(database *db.PostgresDB, repos *Repositories) *EnrollmentStore {
	return &EnrollmentStore{db: database, repos: repos}
}

// GetUserByID returns the user with the given ID
func (s *EnrollmentStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repos.UserRepository.GetUserByID(ctx, id)
}

// GetCourseByID returns the course with the given ID
func (s *EnrollmentStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.repos.CourseRepository.GetCourseByID(ctx, id)
}

// InTransaction runs fn inside a database transaction, handing it a write
// surface scoped to that transaction.
func (s *EnrollmentStore) InTransaction(ctx context.Context, fn func(ctx context.Context, tx services.EnrollmentTx) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &enrollmentTx{qx: tx, repos: s.repos})
	})
}

// enrollmentTx delegates every write to the repositories using the same
// pgx transaction.
type enrollmentTx struct {
	qx    DBTX
	repos *Repositories
}

func (t *enrollmentTx) AssignRole(ctx context.Context, userID int64, role models.RoleType) (bool, error) {
	return t.repos.UserRepository.AssignRole(ctx, t.qx, userID, role)
}

func (t *enrollmentTx) EnsureInstructor(ctx context.Context, userID int64) (int64, error) {
	return t.repos.InstructorRepository.EnsureInstructor(ctx, t.qx, userID)
}

func (t *enrollmentTx) UpsertCourseByCode(ctx context.Context, code, name string) (int64, error) {
	return t.repos.CourseRepository.UpsertByCode(ctx, t.qx, code, name)
}

func (t *enrollmentTx) LinkInstructorCourse(ctx context.Context, instructorID, courseID int64) error {
	return t.repos.EnrollmentRepository.LinkInstructorCourse(ctx, t.qx, instructorID, courseID)
}

func (t *enrollmentTx) CreateStudentEnrollment(ctx context.Context, userID, courseID int64) (int64, error) {
	return t.repos.EnrollmentRepository.CreateStudentEnrollment(ctx, t.qx, userID, courseID)
}

func (t *enrollmentTx) CreateNotification(ctx context.Context, senderID, recipientID int64, description string) error {
	return t.repos.NotificationRepository.CreateNotification(ctx, t.qx, senderID, recipientID, description)
}
