package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the querying surface shared by *pgxpool.Pool and pgx.Tx. Write
// methods that must participate in the role-assignment transaction take a
// DBTX so callers can pass the transaction in.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	InstructorRepository   *InstructorRepository
	CourseRepository       *CourseRepository
	EnrollmentRepository   *EnrollmentRepository
	NotificationRepository *NotificationRepository
	ClaimRepository        *ClaimRepository
	AssessmentRepository   *AssessmentRepository
	TokenRepository        *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		InstructorRepository:   NewInstructorRepository(db),
		CourseRepository:       NewCourseRepository(db),
		EnrollmentRepository:   NewEnrollmentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		AssessmentRepository:   NewAssessmentRepository(db),
		TokenRepository:        NewTokenRepository(db),
	}
}
