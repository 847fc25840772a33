package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/domain/models"
	"photo-triage/pkg/logger"
)

type fakeCleaner struct {
	days    int
	deleted int64
}

func (f *fakeCleaner) Cleanup(ctx context.Context, days int) (int64, error) {
	f.days = days
	return f.deleted, nil
}

type fakeGalleries struct{ ids []uuid.UUID }

func (f fakeGalleries) ListRecentlyActive(ctx context.Context, hours int, limit int) ([]uuid.UUID, error) {
	if len(f.ids) > limit {
		return f.ids[:limit], nil
	}
	return f.ids, nil
}

type fakeStats struct {
	refreshed []uuid.UUID
	failOn    uuid.UUID
}

func (f *fakeStats) RefreshStats(ctx context.Context, id uuid.UUID) (*models.GalleryStats, error) {
	if id == f.failOn {
		return nil, errors.New("db down")
	}
	f.refreshed = append(f.refreshed, id)
	return &models.GalleryStats{}, nil
}

func quiet(t *testing.T) {
	l, err := logger.NewLogger("", false)
	require.NoError(t, err)
	logger.SetDefault(l)
}

func TestMaintenanceJobs(t *testing.T) {
	quiet(t)
	s := NewEventScheduler()

	cleaner := &fakeCleaner{deleted: 7}
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	stats := &fakeStats{failOn: ids[1]}

	require.NoError(t, RegisterMaintenanceJobs(s, Maintenance{
		Activity:      cleaner,
		RetentionDays: 180,
		Galleries:     fakeGalleries{ids: ids},
		Stats:         stats,
	}))

	jobs := s.ListJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, JobActivityRetention, jobs[0].ID)
	assert.Equal(t, "30 3 * * *", jobs[0].CronExpr)
	assert.Equal(t, JobStatsWarmup, jobs[1].ID)

	require.NoError(t, s.RunNow(JobActivityRetention))
	assert.Equal(t, 180, cleaner.days)

	err := s.RunNow(JobStatsWarmup)
	assert.Error(t, err, "a failing gallery is reported")
	assert.Equal(t, []uuid.UUID{ids[0], ids[2]}, stats.refreshed, "the rest still refresh")

	jobs = s.ListJobs()
	assert.Equal(t, 1, jobs[0].Runs)
	assert.Empty(t, jobs[0].LastError)
	assert.Contains(t, jobs[1].LastError, "db down")
}

func TestScheduler_JobLifecycle(t *testing.T) {
	quiet(t)
	s := NewEventScheduler()

	noop := func(ctx context.Context) error { return nil }
	require.NoError(t, s.AddJob("a", "0 * * * *", noop))
	assert.Error(t, s.AddJob("a", "0 * * * *", noop))
	assert.Error(t, s.AddJob("b", "not a cron", noop))

	s.Start()
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.ListJobs()[0].NextRun)

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Error(t, s.RunNow("a"))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestValidateCronExpression(t *testing.T) {
	assert.NoError(t, ValidateCronExpression("*/10 * * * *"))
	assert.Error(t, ValidateCronExpression("every tuesday"))
}

func TestRegisterMaintenanceJobs_SkipsUnconfigured(t *testing.T) {
	quiet(t)
	s := NewEventScheduler()
	require.NoError(t, RegisterMaintenanceJobs(s, Maintenance{}))
	assert.Empty(t, s.ListJobs())
}
