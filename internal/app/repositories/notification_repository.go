package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/pkg/logger"
)

// NotificationRepository handles in-portal notification records
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateNotification inserts a notification record
func (r *NotificationRepository) CreateNotification(ctx context.Context, qx DBTX, senderID, recipientID int64, description string) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("sender_id", "recipient_id", "description").
		Values(senderID, recipientID, description).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create notification SQL")
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	_, err = qx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("senderID", senderID).Int64("recipientID", recipientID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// GetBySender returns all notifications a user has sent
func (r *NotificationRepository) GetBySender(ctx context.Context, senderID int64) ([]*models.Notification, error) {
	return r.list(ctx, squirrel.Eq{"sender_id": senderID})
}

// GetByRecipient returns all notifications addressed to a user
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID int64) ([]*models.Notification, error) {
	return r.list(ctx, squirrel.Eq{"recipient_id": recipientID})
}

func (r *NotificationRepository) list(ctx context.Context, where squirrel.Eq) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "sender_id", "recipient_id", "description", "created_at").
		From("notifications").
		Where(where).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list notifications SQL")
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notifications query")
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.SenderID, &n.RecipientID, &n.Description, &n.CreatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning notification row")
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating notification rows")
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}
