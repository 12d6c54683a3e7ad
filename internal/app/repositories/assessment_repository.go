package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/logger"
)

// AssessmentRepository handles exam and quiz records
type AssessmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateAssessment inserts an exam or quiz and returns its ID
func (r *AssessmentRepository) CreateAssessment(ctx context.Context, assessment *models.Assessment) (int64, error) {
	sql, args, err := r.sb.Insert("assessments").
		Columns("instructor_id", "kind", "title", "description", "written", "attachment", "due_date").
		Values(
			assessment.InstructorID, assessment.Kind, assessment.Title,
			assessment.Description, assessment.Written, assessment.Attachment, assessment.DueDate,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create assessment SQL")
		return 0, fmt.Errorf("failed to build create assessment query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", assessment.InstructorID).Msg("Error executing create assessment query")
		return 0, fmt.Errorf("error creating assessment: %w", err)
	}

	return id, nil
}

// GetByInstructor returns an instructor's assessments of one kind, newest last
func (r *AssessmentRepository) GetByInstructor(ctx context.Context, instructorID int64, kind models.AssessmentKind) ([]*models.Assessment, error) {
	sql, args, err := r.sb.Select("id", "instructor_id", "kind", "title", "description", "written", "attachment", "due_date", "created_at").
		From("assessments").
		Where(squirrel.Eq{"instructor_id": instructorID, "kind": kind}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get assessments SQL")
		return nil, fmt.Errorf("failed to build get assessments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error executing get assessments query")
		return nil, fmt.Errorf("error querying assessments: %w", err)
	}
	defer rows.Close()

	assessments := []*models.Assessment{}
	for rows.Next() {
		a := &models.Assessment{}
		err := rows.Scan(
			&a.ID, &a.InstructorID, &a.Kind, &a.Title, &a.Description,
			&a.Written, &a.Attachment, &a.DueDate, &a.CreatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error scanning assessment row")
			return nil, fmt.Errorf("error scanning assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error iterating assessment rows")
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}

	return assessments, nil
}
