package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/dberrors"
	"github.com/academix/portal/internal/pkg/logger"

	"github.com/academix/portal/internal/pkg/apperrors"
)

// ClaimRepository handles claim records. Claims are addressed to instructor
// profiles (recipient_id references instructors.id).
type ClaimRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(db *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateClaim inserts a claim from an enrollment record to an instructor profile
func (r *ClaimRepository) CreateClaim(ctx context.Context, claim *models.Claim) (int64, error) {
	sql, args, err := r.sb.Insert("claims").
		Columns("claimer_id", "recipient_id", "description", "resolved").
		Values(claim.ClaimerID, claim.RecipientID, claim.Description, false).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create claim SQL")
		return 0, fmt.Errorf("failed to build create claim query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("claimerID", claim.ClaimerID).Int64("recipientID", claim.RecipientID).Msg("Error executing create claim query")
		return 0, fmt.Errorf("error creating claim: %w", err)
	}

	return id, nil
}

// GetByRecipient returns all claims addressed to an instructor profile
func (r *ClaimRepository) GetByRecipient(ctx context.Context, instructorID int64) ([]*models.Claim, error) {
	sql, args, err := r.sb.Select("id", "claimer_id", "recipient_id", "description", "resolved").
		From("claims").
		Where(squirrel.Eq{"recipient_id": instructorID}).
		OrderBy("id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get claims SQL")
		return nil, fmt.Errorf("failed to build get claims query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error executing get claims query")
		return nil, fmt.Errorf("error querying claims: %w", err)
	}
	defer rows.Close()

	claims := []*models.Claim{}
	for rows.Next() {
		claim := &models.Claim{}
		err := rows.Scan(&claim.ID, &claim.ClaimerID, &claim.RecipientID, &claim.Description, &claim.Resolved)
		if err != nil {
			logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error scanning claim row")
			return nil, fmt.Errorf("error scanning claim: %w", err)
		}
		claims = append(claims, claim)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error iterating claim rows")
		return nil, fmt.Errorf("error iterating claims: %w", err)
	}

	return claims, nil
}
