package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/scholarship/internal/app/controllers"
	appMigrations "github.com/yigit/scholarship/internal/app/migrations"
	appRepos "github.com/yigit/scholarship/internal/app/repositories"
	appRoutes "github.com/yigit/scholarship/internal/app/routes"
	appServices "github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/config"
	"github.com/yigit/scholarship/internal/db"
	"github.com/yigit/scholarship/internal/metrics"
	appMiddleware "github.com/yigit/scholarship/internal/middleware"
	"github.com/yigit/scholarship/internal/pkg/filestorage"
	"github.com/yigit/scholarship/internal/pkg/logger"
	"github.com/yigit/scholarship/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	VerificationService    appServices.VerificationService
	ApplicationService     appServices.ApplicationService
	TrackingService        appServices.TrackingService
	VerificationController *appControllers.VerificationController
	ApplicationController  *appControllers.ApplicationController
	TrackingController     *appControllers.TrackingController
	HealthController       *appControllers.HealthController
	Repos                  *appRepos.Repositories
	Metrics                *metrics.Metrics
	Logger                 zerolog.Logger
	FileStorage            *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads .env, the configuration file and the
// environment, then initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error().Err(err).Msg("Failed to load .env file")
		return nil, zerolog.Logger{}, err
	}

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
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
// optionally seeds the reference tables.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.SeedReference {
		if err := seed.CreateReferenceData(ctx, database.Pool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create reference data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.UploadURLPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	deps.VerificationService = appServices.NewVerificationService(deps.Repos.ReferenceRepository, deps.Metrics)
	deps.ApplicationService = appServices.NewApplicationService(
		database,
		deps.Repos.ApplicationRepository,
		deps.FileStorage,
		appServices.FormOptions{
			StrictBooleans: cfg.Forms.StrictBooleans,
			MaxUploadBytes: cfg.Forms.MaxUploadBytes,
		},
		deps.Metrics,
	)
	deps.TrackingService = appServices.NewTrackingService(deps.Repos.ApplicationRepository, cfg, deps.Metrics)

	deps.VerificationController = appControllers.NewVerificationController(deps.VerificationService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.TrackingController = appControllers.NewTrackingController(deps.TrackingService)
	deps.HealthController = appControllers.NewHealthController(database.Pool)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.RequestMetrics(deps.Metrics))
	router.MaxMultipartMemory = cfg.Forms.MaxUploadBytes + 1<<20

	appRoutes.SetupRouter(router,
		deps.VerificationController,
		deps.ApplicationController,
		deps.TrackingController,
		deps.HealthController,
	)

	if deps.Metrics != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	router.Static(cfg.Server.UploadURLPrefix, cfg.Server.StoragePath)
	lgr.Info().Str("path", cfg.Server.StoragePath).Str("prefix", cfg.Server.UploadURLPrefix).Msg("Static file serving configured for uploads directory")

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
