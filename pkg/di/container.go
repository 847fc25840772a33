package di

import (
	"context"

	"gorm.io/gorm"

	"photo-triage/application/serviceimpl"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
	"photo-triage/infrastructure/googledrive"
	"photo-triage/infrastructure/oauth"
	"photo-triage/infrastructure/postgres"
	"photo-triage/infrastructure/redis"
	"photo-triage/infrastructure/websocket"
	"photo-triage/interfaces/api/handlers"
	"photo-triage/pkg/config"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	StatsCache     *redis.StatsCache
	Rooms          *websocket.RoomManager
	EventScheduler scheduler.EventScheduler
	GoogleOAuth    *oauth.GoogleOAuth
	GoogleDrive    *googledrive.DriveClient

	// Repositories
	UserRepository        repositories.UserRepository
	GalleryRepository     repositories.GalleryRepository
	PhotoRepository       repositories.PhotoRepository
	ActivityLogRepository repositories.ActivityLogRepository

	// Services
	AuthService        services.AuthService
	GalleryService     services.GalleryService
	TriageService      services.TriageService
	ActivityLogService services.ActivityLogService
	ImportService      services.ImportService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	return c.initScheduler()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", map[string]interface{}{
		"env":            cfg.App.Env,
		"max_batch_size": cfg.Triage.MaxBatchSize,
	})
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		LogSQL:   c.Config.Database.LogSQL,

		MaxOpenConns:    c.Config.Database.MaxOpenConns,
		MaxIdleConns:    c.Config.Database.MaxIdleConns,
		ConnMaxLifetime: c.Config.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Redis only caches stats. The server keeps running without it and
	// every cache read falls through to Postgres.
	c.RedisClient = redis.NewRedisClient(redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("redis_connected", "Redis connected", nil)
	}
	c.StatsCache = redis.NewStatsCache(c.RedisClient, c.Config.Triage.StatsCacheTTL)

	c.Rooms = websocket.Manager

	c.GoogleOAuth = oauth.NewGoogleOAuth(c.Config.Google)
	if err := c.GoogleOAuth.ValidateConfig(); err != nil {
		logger.StartupWarn("google_oauth_not_configured", "Google OAuth not configured", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("google_oauth_initialized", "Google OAuth initialized", nil)
	}

	drive := googledrive.NewDriveClient(c.Config.Drive)
	if err := drive.ValidateConfig(); err != nil {
		logger.StartupWarn("google_drive_not_configured", "Google Drive import disabled", map[string]interface{}{"error": err.Error()})
	} else {
		c.GoogleDrive = drive
		logger.Startup("google_drive_initialized", "Google Drive client initialized", nil)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.GalleryRepository = postgres.NewGalleryRepository(c.DB)
	c.PhotoRepository = postgres.NewPhotoRepository(c.DB)
	c.ActivityLogRepository = postgres.NewActivityLogRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.GoogleOAuth, c.Config.JWT.Secret, c.Config.JWT.OwnerTokenTTL)
	c.GalleryService = serviceimpl.NewGalleryService(
		c.GalleryRepository,
		c.PhotoRepository,
		c.ActivityLogRepository,
		c.Config.JWT.Secret,
		c.Config.JWT.GalleryTokenTTL,
	)
	c.TriageService = serviceimpl.NewTriageService(
		c.GalleryRepository,
		c.PhotoRepository,
		c.StatsCache,
		c.Rooms,
		serviceimpl.TriageOptions{
			MaxBatchSize:     c.Config.Triage.MaxBatchSize,
			SimilarThreshold: c.Config.Triage.SimilarThreshold,
		},
	)
	c.ActivityLogService = serviceimpl.NewActivityLogService(c.ActivityLogRepository, c.GalleryRepository)

	// a nil *DriveClient must not reach the interface as a typed nil
	var driveSource services.DriveSource
	if c.GoogleDrive != nil {
		driveSource = c.GoogleDrive
	}
	c.ImportService = serviceimpl.NewImportService(
		c.GalleryRepository,
		c.PhotoRepository,
		c.GalleryService,
		driveSource,
		c.Config.Triage.MaxBatchSize,
	)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	err := scheduler.RegisterMaintenanceJobs(c.EventScheduler, scheduler.Maintenance{
		Activity:      c.ActivityLogService,
		RetentionDays: c.Config.Triage.ActivityRetentionDays,
		Galleries:     c.GalleryRepository,
		Stats:         c.TriageService,
	})
	if err != nil {
		return err
	}

	c.EventScheduler.Start()
	logger.Startup("scheduler_started", "Event scheduler started", map[string]interface{}{
		"jobs": len(c.EventScheduler.ListJobs()),
	})
	return nil
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Startup("scheduler_stopped", "Event scheduler stopped", nil)
	}

	if c.Rooms != nil {
		c.Rooms.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:        c.AuthService,
		GalleryService:     c.GalleryService,
		TriageService:      c.TriageService,
		ActivityLogService: c.ActivityLogService,
		ImportService:      c.ImportService,
	}
}

func (c *Container) GetHealthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler(c.DB, c.RedisClient, c.Rooms, c.EventScheduler)
}
