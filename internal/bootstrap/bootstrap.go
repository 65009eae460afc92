package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appClients "github.com/coursehub/course-service/internal/app/clients"
	appControllers "github.com/coursehub/course-service/internal/app/controllers"
	appMigrations "github.com/coursehub/course-service/internal/app/migrations"
	appRepos "github.com/coursehub/course-service/internal/app/repositories"
	appRoutes "github.com/coursehub/course-service/internal/app/routes"
	appServices "github.com/coursehub/course-service/internal/app/services"
	"github.com/coursehub/course-service/internal/config"
	"github.com/coursehub/course-service/internal/db"
	appMiddleware "github.com/coursehub/course-service/internal/middleware"
	pkgAuth "github.com/coursehub/course-service/internal/pkg/auth"
	"github.com/coursehub/course-service/internal/pkg/logger"
	"github.com/coursehub/course-service/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService    appServices.CourseService
	CourseController *appControllers.CourseController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	Enrollment       appClients.EnrollmentService
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is a local development convenience; absence is not an error
	_ = godotenv.Load()

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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, clients, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	timeout := cfg.ServiceRequestTimeout()
	deps.Enrollment = appClients.NewHTTPEnrollmentClient(cfg.Services.EnrollmentServiceURL, timeout, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	// Validator selection is the authentication mode switch: remote
	// when an auth service is configured, local JWT otherwise.
	var validator appClients.TokenValidator
	if cfg.Services.AuthServiceURL != "" {
		validator = appClients.NewHTTPAuthClient(cfg.Services.AuthServiceURL, timeout, lgr)
		lgr.Info().Str("url", cfg.Services.AuthServiceURL).Msg("Token validation delegated to auth service")
	} else {
		lgr.Info().Msg("Token validation performed locally against JWT secret")
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, validator)

	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Enrollment, lgr)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(cfg)

	// The capacity endpoint stays credential-free: the enrollment
	// service is trusted by network reachability alone.
	lgr.Warn().Msg("PUT /courses/:id/capacity accepts its trusted caller without credentials")

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
