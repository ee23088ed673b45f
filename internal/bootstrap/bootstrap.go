package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/helphub/internal/app/auth"
	appControllers "github.com/yigit/helphub/internal/app/controllers"
	appMigrations "github.com/yigit/helphub/internal/app/migrations"
	appRepos "github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/app/repositories/memory"
	appRoutes "github.com/yigit/helphub/internal/app/routes"
	appServices "github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/config"
	"github.com/yigit/helphub/internal/db"
	appMiddleware "github.com/yigit/helphub/internal/middleware"
	pkgAuth "github.com/yigit/helphub/internal/pkg/auth"
	"github.com/yigit/helphub/internal/pkg/cache"
	"github.com/yigit/helphub/internal/pkg/filestorage"
	"github.com/yigit/helphub/internal/pkg/helpers"
	"github.com/yigit/helphub/internal/pkg/logger"
	"github.com/yigit/helphub/internal/pkg/validation"
	"github.com/yigit/helphub/internal/pkg/websocket"
	"github.com/yigit/helphub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Database    *db.PostgresDB // nil with the memory driver
	Redis       *redis.Client  // nil when rate limiting is disabled
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub

	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// Close releases the external connections held by the dependencies
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	lgr := log.Logger
	lgr.Info().
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Str("logLevel", cfg.Logging.Level).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured persistence backend. For postgres it also
// applies the SQL migrations. Demo data is seeded when enabled.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *db.PostgresDB, error) {
	var (
		repos    *appRepos.Repositories
		database *db.PostgresDB
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		var err error
		database, err = db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if err := runMigrations(ctx, cfg, database, lgr); err != nil {
			database.Close()
			return nil, nil, err
		}
		repos = appRepos.NewPostgresRepositories(database)
	default:
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		repos = memory.NewStore().Repositories()
	}

	if cfg.Server.SeedDemoData {
		if err := seed.CreateDefaultData(ctx, repos, lgr); err != nil {
			// demo data is optional, startup continues
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return repos, database, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes services, controllers and middleware on top of repos
func BuildDependencies(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, filestorage.DefaultURLPrefix, cfg.Server.UploadMaxBytes)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// Redis only backs the rate limiter, so an unreachable server disables limiting
	deps.Redis, err = cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without rate limiting")
	}
	deps.RateLimiter = appMiddleware.NewRateLimiter(deps.Redis, cfg.Redis.RateLimitRequests, cfg.Redis.RateLimitWindow)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.Expiration, pkgAuth.DefaultTokenExp),
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Hub = websocket.NewHub(logger.Component("websocket"), cfg.Server.CORSOrigins)

	authz := appAuth.NewAuthorizationService(repos.Posts, repos.Chat)

	authService := appServices.NewAuthService(repos.Users, deps.JWTService, logger.Component("auth"))
	userService := appServices.NewUserService(repos.Users, deps.FileStorage, logger.Component("users"))
	postService := appServices.NewPostService(repos.Posts, repos.Comments, repos.Users, authz, logger.Component("posts"))
	commentService := appServices.NewCommentService(repos.Comments, repos.Posts, repos.Users, authz, logger.Component("comments"))
	eventService := appServices.NewEventService(repos.Events, logger.Component("events"))
	emergencyService := appServices.NewEmergencyService(repos.Emergency, logger.Component("emergency"))
	achievementService := appServices.NewAchievementService(repos, logger.Component("achievements"))
	chatService := appServices.NewChatService(repos.Chat, repos.Users, authz, deps.Hub, logger.Component("chat"))

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(authService, lgr),
		User:        appControllers.NewUserController(userService),
		Post:        appControllers.NewPostController(postService),
		Comment:     appControllers.NewCommentController(commentService),
		Event:       appControllers.NewEventController(eventService),
		Emergency:   appControllers.NewEmergencyController(emergencyService),
		Achievement: appControllers.NewAchievementController(achievementService),
		Chat:        appControllers.NewChatController(chatService, deps.Hub, logger.Component("chat")),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case config.ModeProduction:
		gin.SetMode(gin.ReleaseMode)
	case config.ModeTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	validation.RegisterWithGin()
	appMiddleware.ExposeErrorDetails(cfg.IsDevelopment())

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
	)
	router.MaxMultipartMemory = cfg.Server.UploadMaxBytes

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter)

	// Uploaded files are served from the storage directory
	router.Static(deps.FileStorage.URLPrefix(), deps.FileStorage.BasePath())

	return router
}
