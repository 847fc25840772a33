package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"photo-triage/infrastructure/websocket"
	"photo-triage/pkg/scheduler"
)

// Pinger is anything with a health probe, such as the Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobLister reports the maintenance jobs and their last outcome.
type JobLister interface {
	ListJobs() []scheduler.JobInfo
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    *gorm.DB
	redis Pinger
	rooms *websocket.RoomManager
	jobs  JobLister
}

func NewHealthHandler(db *gorm.DB, redis Pinger, rooms *websocket.RoomManager, jobs JobLister) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, rooms: rooms, jobs: jobs}
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status  string `json:"status"` // ok, error, unavailable
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type DetailedHealthResponse struct {
	Status     string                     `json:"status"` // healthy, degraded, unhealthy
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
	Rooms      int                        `json:"rooms"`
	Jobs       []scheduler.JobInfo        `json:"jobs,omitempty"`
}

// DetailedHealth reports the database (critical) and Redis (degraded
// when down, since stats fall back to the database).
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := DetailedHealthResponse{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	dbHealth := h.checkDatabase(ctx)
	response.Components["database"] = dbHealth

	redisHealth := h.checkRedis(ctx)
	response.Components["redis"] = redisHealth

	if h.rooms != nil {
		response.Rooms = h.rooms.RoomCount()
	}

	jobsHealth := h.checkJobs()
	response.Components["scheduler"] = jobsHealth
	if h.jobs != nil {
		response.Jobs = h.jobs.ListJobs()
	}

	switch {
	case dbHealth.Status != "ok":
		response.Status = "unhealthy"
	case redisHealth.Status == "error", jobsHealth.Status == "error":
		response.Status = "degraded"
	default:
		response.Status = "healthy"
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	if h.db == nil {
		return ComponentHealth{Status: "error", Message: "Database not configured"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: "Failed to get database connection: " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Database ping failed: " + err.Error()}
	}
	return ComponentHealth{Status: "ok", Message: "Connected", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	if h.redis == nil {
		return ComponentHealth{Status: "unavailable", Message: "Redis not configured"}
	}
	if err := h.redis.Ping(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Redis ping failed: " + err.Error()}
	}
	return ComponentHealth{Status: "ok", Message: "Connected", Latency: time.Since(start).String()}
}

// checkJobs fails when a maintenance job's last run returned an error.
// Stale stats or unbounded activity tables degrade the service but never
// take it down.
func (h *HealthHandler) checkJobs() ComponentHealth {
	if h.jobs == nil {
		return ComponentHealth{Status: "unavailable", Message: "Scheduler not running"}
	}
	for _, j := range h.jobs.ListJobs() {
		if j.LastError != "" {
			return ComponentHealth{Status: "error", Message: j.ID + ": " + j.LastError}
		}
	}
	return ComponentHealth{Status: "ok"}
}
