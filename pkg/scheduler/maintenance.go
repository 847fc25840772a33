package scheduler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"photo-triage/domain/models"
	"photo-triage/pkg/logger"
)

const (
	JobActivityRetention = "activity_retention"
	JobStatsWarmup       = "stats_warmup"
)

type ActivityCleaner interface {
	Cleanup(ctx context.Context, days int) (int64, error)
}

type ActiveGalleryLister interface {
	ListRecentlyActive(ctx context.Context, hours int, limit int) ([]uuid.UUID, error)
}

type StatsRefresher interface {
	RefreshStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error)
}

// Maintenance configures the background jobs the API server runs.
type Maintenance struct {
	Activity      ActivityCleaner
	RetentionDays int
	RetentionCron string // default: 03:30 UTC daily

	Galleries   ActiveGalleryLister
	Stats       StatsRefresher
	WarmupHours int
	WarmupLimit int
	WarmupCron  string // default: every 10 minutes
}

// ActivityRetentionTask deletes activity rows older than days.
func ActivityRetentionTask(cleaner ActivityCleaner, days int) Task {
	return func(ctx context.Context) error {
		deleted, err := cleaner.Cleanup(ctx, days)
		if err != nil {
			return err
		}
		logger.Scheduler("activity_retention", "Old activity removed", map[string]interface{}{
			"deleted": deleted,
			"days":    days,
		})
		return nil
	}
}

// StatsWarmupTask recomputes cached counts for galleries reviewed in the
// last hours so the next page load is served from Redis. One failing
// gallery does not stop the rest.
func StatsWarmupTask(galleries ActiveGalleryLister, stats StatsRefresher, hours, limit int) Task {
	return func(ctx context.Context) error {
		ids, err := galleries.ListRecentlyActive(ctx, hours, limit)
		if err != nil {
			return err
		}
		var errs []error
		for _, id := range ids {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := stats.RefreshStats(ctx, id); err != nil {
				errs = append(errs, err)
			}
		}
		logger.Scheduler("stats_warmup", "Gallery stats refreshed", map[string]interface{}{
			"galleries": len(ids),
			"failed":    len(errs),
		})
		return errors.Join(errs...)
	}
}

func RegisterMaintenanceJobs(s EventScheduler, m Maintenance) error {
	if m.Activity != nil && m.RetentionDays > 0 {
		cron := m.RetentionCron
		if cron == "" {
			cron = "30 3 * * *"
		}
		if err := s.AddJob(JobActivityRetention, cron, ActivityRetentionTask(m.Activity, m.RetentionDays)); err != nil {
			return err
		}
	}

	if m.Galleries != nil && m.Stats != nil {
		hours, limit := m.WarmupHours, m.WarmupLimit
		if hours <= 0 {
			hours = 24
		}
		if limit <= 0 {
			limit = 100
		}
		cron := m.WarmupCron
		if cron == "" {
			cron = "*/10 * * * *"
		}
		if err := s.AddJob(JobStatsWarmup, cron, StatsWarmupTask(m.Galleries, m.Stats, hours, limit)); err != nil {
			return err
		}
	}
	return nil
}
