package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/dberrors"
	"github.com/academix/portal/internal/pkg/logger"
)

// EnrollmentRepository handles the enrollment ledger: instructor-course
// links and student enrollments.
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LinkInstructorCourse records that an instructor teaches a course. The
// (instructor_id, course_id) pair is unique; re-linking is a no-op.
func (r *EnrollmentRepository) LinkInstructorCourse(ctx context.Context, qx DBTX, instructorID, courseID int64) error {
	sql, args, err := r.sb.Insert("instructor_courses").
		Columns("instructor_id", "course_id").
		Values(instructorID, courseID).
		Suffix("ON CONFLICT (instructor_id, course_id) DO NOTHING").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building link instructor course SQL")
		return fmt.Errorf("failed to build link instructor course query: %w", err)
	}

	_, err = qx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Int64("courseID", courseID).Msg("Error executing link instructor course query")
		return fmt.Errorf("error linking instructor to course: %w", err)
	}

	return nil
}

// GetInstructorCourses returns all course links for an instructor profile,
// with the course populated.
func (r *EnrollmentRepository) GetInstructorCourses(ctx context.Context, instructorID int64) ([]*models.InstructorCourse, error) {
	sql, args, err := r.sb.Select(
		"ic.id", "ic.instructor_id", "ic.course_id",
		"c.id", "c.code", "c.name", "c.description", "c.created_at",
	).
		From("instructor_courses ic").
		Join("courses c ON ic.course_id = c.id").
		Where(squirrel.Eq{"ic.instructor_id": instructorID}).
		OrderBy("ic.id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor courses SQL")
		return nil, fmt.Errorf("failed to build get instructor courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error executing get instructor courses query")
		return nil, fmt.Errorf("error querying instructor courses: %w", err)
	}
	defer rows.Close()

	links := []*models.InstructorCourse{}
	for rows.Next() {
		link := &models.InstructorCourse{Course: &models.Course{}}
		err := rows.Scan(
			&link.ID, &link.InstructorID, &link.CourseID,
			&link.Course.ID, &link.Course.Code, &link.Course.Name, &link.Course.Description, &link.Course.CreatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error scanning instructor course row")
			return nil, fmt.Errorf("error scanning instructor course: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error iterating instructor course rows")
		return nil, fmt.Errorf("error iterating instructor courses: %w", err)
	}

	return links, nil
}

// CreateStudentEnrollment records a student joining a course and returns the
// enrollment ID. A user may be enrolled in several courses but only once per
// course.
func (r *EnrollmentRepository) CreateStudentEnrollment(ctx context.Context, qx DBTX, userID, courseID int64) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "course_id").
		Values(userID, courseID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student enrollment SQL")
		return 0, fmt.Errorf("failed to build create student enrollment query: %w", err)
	}

	var id int64
	err = qx.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_user_id_course_id_key") {
			logger.Warn().Int64("userID", userID).Int64("courseID", courseID).Msg("Duplicate student enrollment attempted")
			return 0, apperrors.ErrConflict
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error executing create student enrollment query")
		return 0, fmt.Errorf("error creating student enrollment: %w", err)
	}

	return id, nil
}

// GetStudentsByCourse returns all enrollments in a course with the student's
// user populated, ordered by enrollment creation time ascending.
func (r *EnrollmentRepository) GetStudentsByCourse(ctx context.Context, courseID int64) ([]*models.StudentEnrollment, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.user_id", "s.course_id", "s.created_at",
		"u.id", "u.name", "u.email", "u.role", "u.created_at", "u.updated_at",
	).
		From("students s").
		Join("users u ON s.user_id = u.id").
		Where(squirrel.Eq{"s.course_id": courseID}).
		OrderBy("s.created_at ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get students by course SQL")
		return nil, fmt.Errorf("failed to build get students by course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing get students by course query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.StudentEnrollment{}
	for rows.Next() {
		enrollment := &models.StudentEnrollment{User: &models.User{}}
		err := rows.Scan(
			&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.CreatedAt,
			&enrollment.User.ID, &enrollment.User.Name, &enrollment.User.Email, &enrollment.User.Role,
			&enrollment.User.CreatedAt, &enrollment.User.UpdatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Int64("courseID", courseID).Msg("Error scanning student enrollment row")
			return nil, fmt.Errorf("error scanning student enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error iterating student enrollment rows")
		return nil, fmt.Errorf("error iterating student enrollments: %w", err)
	}

	return enrollments, nil
}

// GetEnrollmentByUserID returns a user's first enrollment record. Claims are
// raised by enrollment records, so a student needs at least one.
func (r *EnrollmentRepository) GetEnrollmentByUserID(ctx context.Context, userID int64) (*models.StudentEnrollment, error) {
	var enrollment models.StudentEnrollment
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "created_at").
		From("students").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get enrollment by user SQL")
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}
