// Package bootstrap wires configuration, storage, services and controllers
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/academix/portal/docs" // Generated swagger docs
	appAuth "github.com/academix/portal/internal/app/auth"
	appControllers "github.com/academix/portal/internal/app/controllers"
	"github.com/academix/portal/internal/app/dispatch"
	appMigrations "github.com/academix/portal/internal/app/migrations"
	appRepos "github.com/academix/portal/internal/app/repositories"
	appRoutes "github.com/academix/portal/internal/app/routes"
	appServices "github.com/academix/portal/internal/app/services"
	"github.com/academix/portal/internal/config"
	"github.com/academix/portal/internal/db"
	appMiddleware "github.com/academix/portal/internal/middleware"
	pkgAuth "github.com/academix/portal/internal/pkg/auth"
	"github.com/academix/portal/internal/pkg/email"
	"github.com/academix/portal/internal/pkg/helpers"
	"github.com/academix/portal/internal/pkg/logger"
	"github.com/academix/portal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	EnrollmentService    appServices.EnrollmentService
	InstructorService    appServices.InstructorService
	UserService          appServices.UserService
	AssessmentService    appServices.AssessmentService
	ClaimService         appServices.ClaimService
	AuthController       *appControllers.AuthController
	EnrollmentController *appControllers.EnrollmentController
	InstructorController *appControllers.InstructorController
	UserController       *appControllers.UserController
	ClaimController      *appControllers.ClaimController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	Dispatcher           *dispatch.EmailDispatcher
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the bootstrap instructor.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database.Pool)
	if err := seed.EnsureBootstrapInstructor(context.Background(), database, repos, cfg); err != nil {
		// The portal is unusable without at least one instructor
		lgr.Error().Err(err).Msg("Failed to seed bootstrap instructor")
		database.Close()
		return nil, fmt.Errorf("bootstrap instructor seeding failed: %w", err)
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(database.Pool)

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr)

	dispatcher := dispatch.NewEmailDispatcher(sender, cfg.Dispatcher.QueueSize, lgr)
	dispatcher.Start()

	authzService := appAuth.NewAuthorizationService(repos.UserRepository)
	enrollmentStore := appRepos.NewEnrollmentStore(database, repos)

	authService := appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService)
	enrollmentService := appServices.NewEnrollmentService(enrollmentStore, authzService, dispatcher, cfg.SMTP.BaseURL, lgr)
	instructorService := appServices.NewInstructorService(
		authzService,
		repos.InstructorRepository,
		repos.EnrollmentRepository,
		repos.AssessmentRepository,
		repos.NotificationRepository,
		repos.ClaimRepository,
	)
	userService := appServices.NewUserService(repos.UserRepository)
	assessmentService := appServices.NewAssessmentService(authzService, repos.InstructorRepository, repos.AssessmentRepository)
	claimService := appServices.NewClaimService(repos.ClaimRepository, repos.EnrollmentRepository)

	authMiddleware := appMiddleware.NewAuthMiddleware(jwtService)

	deps := &Dependencies{
		AuthService:          authService,
		EnrollmentService:    enrollmentService,
		InstructorService:    instructorService,
		UserService:          userService,
		AssessmentService:    assessmentService,
		ClaimService:         claimService,
		AuthController:       appControllers.NewAuthController(authService, lgr),
		EnrollmentController: appControllers.NewEnrollmentController(enrollmentService, lgr),
		InstructorController: appControllers.NewInstructorController(instructorService, assessmentService, lgr),
		UserController:       appControllers.NewUserController(userService, lgr),
		ClaimController:      appControllers.NewClaimController(claimService, lgr),
		AuthMiddleware:       authMiddleware,
		Repos:                repos,
		JWTService:           jwtService,
		AuthzService:         authzService,
		Dispatcher:           dispatcher,
		Logger:               lgr,
	}

	return deps, nil
}

// SetupRouter builds the gin engine and registers every route
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.EnrollmentController,
		deps.InstructorController,
		deps.UserController,
		deps.ClaimController,
		deps.AuthMiddleware,
	)

	lgr.Info().Msg("Router configured")
	return router
}
