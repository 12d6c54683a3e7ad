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

// InstructorRepository handles instructor profile database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureInstructor returns the instructor profile ID for a user, creating
// the profile if it does not exist yet. The upsert keeps the (user_id)
// natural key race-free.
func (r *InstructorRepository) EnsureInstructor(ctx context.Context, qx DBTX, userID int64) (int64, error) {
	sql, args, err := r.sb.Insert("instructors").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building ensure instructor SQL")
		return 0, fmt.Errorf("failed to build ensure instructor query: %w", err)
	}

	var id int64
	err = qx.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing ensure instructor query")
		return 0, fmt.Errorf("error ensuring instructor profile: %w", err)
	}

	return id, nil
}

// GetInstructorByUserID retrieves an instructor profile by user ID
func (r *InstructorRepository) GetInstructorByUserID(ctx context.Context, userID int64) (*models.Instructor, error) {
	var instructor models.Instructor
	sql, args, err := r.sb.Select("id", "user_id", "department", "bio").
		From("instructors").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor by user ID SQL")
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&instructor.ID, &instructor.UserID, &instructor.Department, &instructor.Bio)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}

	return &instructor, nil
}

// GetInstructorByID retrieves an instructor profile by its own ID
func (r *InstructorRepository) GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error) {
	var instructor models.Instructor
	sql, args, err := r.sb.Select("id", "user_id", "department", "bio").
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor by ID SQL")
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&instructor.ID, &instructor.UserID, &instructor.Department, &instructor.Bio)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}

	return &instructor, nil
}
