package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"photo-triage/domain/models"
	"photo-triage/pkg/logger"
)

const statsKeyPrefix = "triage:stats:"

// StatsCache keeps per-gallery counts in Redis. Any Redis failure reads
// as a miss so the caller falls back to the database.
type StatsCache struct {
	client *RedisClient
	ttl    time.Duration
}

func NewStatsCache(client *RedisClient, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(galleryID uuid.UUID) string {
	return statsKeyPrefix + galleryID.String()
}

func (c *StatsCache) Get(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statsKey(galleryID))
	if err != nil {
		if !IsMiss(err) {
			logger.DBError("stats_cache_get", "Redis read failed", err, map[string]interface{}{
				"gallery_id": galleryID.String(),
			})
		}
		return nil, false
	}
	var stats models.GalleryStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, galleryID uuid.UUID, stats *models.GalleryStats) error {
	if c == nil || c.client == nil || stats == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(galleryID), raw, c.ttl)
}

func (c *StatsCache) Invalidate(ctx context.Context, galleryID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Delete(ctx, statsKey(galleryID))
}
