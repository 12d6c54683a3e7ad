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

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUser inserts a new user and returns its ID. New accounts always
// start with the unallocated role.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	exists, err := r.EmailExists(ctx, user.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apperrors.ErrEmailAlreadyExists
	}

	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "password", "role").
		Values(user.Name, user.Email, user.Password, models.RoleUnallocated).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			logger.Warn().Str("email", user.Email).Msg("Attempted to create user with duplicate email")
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	logger.Info().Int64("userID", id).Msg("User created successfully")
	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	sql, args, err := r.sb.Select("id", "name", "email", "password", "role", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by ID SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	sql, args, err := r.sb.Select("id", "name", "email", "password", "role", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by email SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// GetAllUsers returns every user ordered by creation time. Feeds the
// enrollment picker.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	sql, args, err := r.sb.Select("id", "name", "email", "role", "created_at", "updated_at").
		From("users").
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all users SQL")
		return nil, fmt.Errorf("failed to build get all users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row during list fetch")
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating user rows")
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// AssignRole flips a user out of the unallocated state. The WHERE clause
// guards the transition: when two callers race on the same target, only one
// update matches and the other observes assigned=false.
func (r *UserRepository) AssignRole(ctx context.Context, qx DBTX, userID int64, role models.RoleType) (bool, error) {
	sql, args, err := r.sb.Update("users").
		Set("role", role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID, "role": models.RoleUnallocated}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building assign role SQL")
		return false, fmt.Errorf("failed to build assign role query: %w", err)
	}

	cmdTag, err := qx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("role", string(role)).Msg("Error executing assign role query")
		return false, fmt.Errorf("error assigning role: %w", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}
