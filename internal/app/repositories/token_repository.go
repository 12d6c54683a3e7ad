package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/logger"
)

// TokenRepository handles refresh token persistence
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// StoreRefreshToken persists a refresh token for a user
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building store refresh token SQL")
		return fmt.Errorf("failed to build store refresh token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error storing refresh token")
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// GetUserIDByRefreshToken resolves a live refresh token to its user
func (r *TokenRepository) GetUserIDByRefreshToken(ctx context.Context, token string) (int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token, "revoked": false}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get refresh token SQL")
		return 0, fmt.Errorf("failed to build get refresh token query: %w", err)
	}

	var userID int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning refresh token row")
		return 0, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return userID, nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke refresh token SQL")
		return fmt.Errorf("failed to build revoke refresh token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error revoking refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	return nil
}
