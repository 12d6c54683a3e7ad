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
	"github.com/academix/portal/internal/pkg/logger"
)

// CourseRepository handles course registry database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertByCode inserts a course or returns the existing row's ID when the
// code is already registered. Atomic on the unique code constraint: two
// concurrent enrollments with the same new code resolve to one row.
func (r *CourseRepository) UpsertByCode(ctx context.Context, qx DBTX, code, name string) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name").
		Values(code, name).
		Suffix("ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert course SQL")
		return 0, fmt.Errorf("failed to build upsert course query: %w", err)
	}

	var id int64
	err = qx.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("code", code).Msg("Error executing upsert course query")
		return 0, fmt.Errorf("error upserting course: %w", err)
	}

	return id, nil
}

// GetCourseByID retrieves a course by ID
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	sql, args, err := r.sb.Select("id", "code", "name", "description", "created_at").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Code, &course.Name, &course.Description, &course.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetCourseByCode retrieves a course by its natural key
func (r *CourseRepository) GetCourseByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	sql, args, err := r.sb.Select("id", "code", "name", "description", "created_at").
		From("courses").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by code SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Code, &course.Name, &course.Description, &course.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("code", code).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}
