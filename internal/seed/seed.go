// Package seed provisions the bootstrap instructor account. Role assignment
// requires an existing instructor, so a fresh database gets one from
// configuration.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/repositories"
	"github.com/academix/portal/internal/config"
	"github.com/academix/portal/internal/db"
	"github.com/academix/portal/internal/pkg/apperrors"
	"github.com/academix/portal/internal/pkg/auth"
	"github.com/academix/portal/internal/pkg/logger"
)

// EnsureBootstrapInstructor creates the configured instructor account if it
// does not exist yet. Idempotent across restarts.
func EnsureBootstrapInstructor(ctx context.Context, database *db.PostgresDB, repos *repositories.Repositories, cfg *config.Config) error {
	existing, err := repos.UserRepository.GetUserByEmail(ctx, cfg.Seed.InstructorEmail)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to look up bootstrap instructor: %w", err)
	}
	if existing != nil {
		logger.Debug().Str("email", cfg.Seed.InstructorEmail).Msg("Bootstrap instructor already present")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.InstructorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap instructor password: %w", err)
	}

	userID, err := repos.UserRepository.CreateUser(ctx, &models.User{
		Name:     cfg.Seed.InstructorName,
		Email:    cfg.Seed.InstructorEmail,
		Password: hashedPassword,
	})
	if err != nil {
		// Another instance may have seeded between the lookup and the insert
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			logger.Debug().Str("email", cfg.Seed.InstructorEmail).Msg("Bootstrap instructor seeded concurrently")
			return nil
		}
		return fmt.Errorf("failed to create bootstrap instructor: %w", err)
	}

	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := repos.UserRepository.AssignRole(ctx, tx, userID, models.RoleInstructor); err != nil {
			return err
		}
		_, err := repos.InstructorRepository.EnsureInstructor(ctx, tx, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to promote bootstrap instructor: %w", err)
	}

	logger.Info().Str("email", cfg.Seed.InstructorEmail).Int64("userID", userID).Msg("Bootstrap instructor created")
	return nil
}
