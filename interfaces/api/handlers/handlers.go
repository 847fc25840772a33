package handlers

import (
	"photo-triage/domain/services"
	"photo-triage/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	AuthService        services.AuthService
	GalleryService     services.GalleryService
	TriageService      services.TriageService
	ActivityLogService services.ActivityLogService
	ImportService      services.ImportService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler        *AuthHandler
	GalleryHandler     *GalleryHandler
	TriageHandler      *TriageHandler
	ActivityLogHandler *ActivityLogHandler
	ImportHandler      *ImportHandler
	LogHandler         *LogHandler
	HealthHandler      *HealthHandler

	// Short accessors for routes
	Auth        *AuthHandler
	Gallery     *GalleryHandler
	Triage      *TriageHandler
	ActivityLog *ActivityLogHandler
	Import      *ImportHandler
	Log         *LogHandler
	Health      *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies.
// health may be nil, in which case only the shallow health check is served.
func NewHandlers(services *Services, health *HealthHandler, cfg *config.Config) *Handlers {
	authHandler := NewAuthHandler(services.AuthService, cfg.App.FrontendURL, cfg.JWT.OwnerTokenTTL)
	galleryHandler := NewGalleryHandler(services.GalleryService, services.TriageService)
	triageHandler := NewTriageHandler(services.TriageService)
	activityLogHandler := NewActivityLogHandler(services.ActivityLogService)
	importHandler := NewImportHandler(services.ImportService)
	logHandler := NewLogHandler(cfg)

	return &Handlers{
		AuthHandler:        authHandler,
		GalleryHandler:     galleryHandler,
		TriageHandler:      triageHandler,
		ActivityLogHandler: activityLogHandler,
		ImportHandler:      importHandler,
		LogHandler:         logHandler,
		HealthHandler:      health,

		Auth:        authHandler,
		Gallery:     galleryHandler,
		Triage:      triageHandler,
		ActivityLog: activityLogHandler,
		Import:      importHandler,
		Log:         logHandler,
		Health:      health,
	}
}
