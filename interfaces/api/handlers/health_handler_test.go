package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/pkg/scheduler"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

type jobs []scheduler.JobInfo

func (j jobs) ListJobs() []scheduler.JobInfo { return j }

func detailedHealth(t *testing.T, h *HealthHandler) (int, DetailedHealthResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/detailed", h.DetailedHealth)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/detailed", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out DetailedHealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestDetailedHealth_NoDatabaseIsUnhealthy(t *testing.T) {
	code, out := detailedHealth(t, NewHealthHandler(nil, pinger{}, nil, jobs{}))

	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", out.Status)
	assert.Equal(t, "error", out.Components["database"].Status)
	assert.Equal(t, "ok", out.Components["redis"].Status)
	assert.Equal(t, "ok", out.Components["scheduler"].Status)
}

func TestHealthHandler_Components(t *testing.T) {
	h := NewHealthHandler(nil, pinger{err: errors.New("connection refused")}, nil, jobs{
		{ID: scheduler.JobActivityRetention, Runs: 3},
		{ID: scheduler.JobStatsWarmup, Runs: 1, LastError: "timeout"},
	})

	redis := h.checkRedis(context.Background())
	assert.Equal(t, "error", redis.Status)
	assert.Contains(t, redis.Message, "connection refused")

	sched := h.checkJobs()
	assert.Equal(t, "error", sched.Status)
	assert.Equal(t, "stats_warmup: timeout", sched.Message)

	assert.Equal(t, "unavailable", NewHealthHandler(nil, nil, nil, nil).checkRedis(context.Background()).Status)
	assert.Equal(t, "unavailable", NewHealthHandler(nil, nil, nil, nil).checkJobs().Status)
}
