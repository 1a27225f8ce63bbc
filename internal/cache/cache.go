// Package cache provides a Redis-backed cache for run results so repeated
// report queries do not re-read the full tables from PostgreSQL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// Cache wraps the Redis client
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new cache client
func New(addr, password string, db int, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: client, ttl: ttl}
}

// Ping verifies the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func metricsKey(runID int) string    { return fmt.Sprintf("run:%d:metrics", runID) }
func groupStatsKey(runID int) string { return fmt.Sprintf("run:%d:group_stats", runID) }

// GetScenarioMetrics returns cached metrics for a run, or nil on a miss
func (c *Cache) GetScenarioMetrics(ctx context.Context, runID int) ([]models.ScenarioMetrics, error) {
	data, err := c.client.Get(ctx, metricsKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics cache: %w", err)
	}

	var metrics []models.ScenarioMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached metrics: %w", err)
	}
	return metrics, nil
}

// SetScenarioMetrics caches a run's scenario metrics
func (c *Cache) SetScenarioMetrics(ctx context.Context, runID int, metrics []models.ScenarioMetrics) error {
	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := c.client.Set(ctx, metricsKey(runID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write metrics cache: %w", err)
	}
	return nil
}

// GetGroupStats returns cached group statistics for a run, or nil on a miss
func (c *Cache) GetGroupStats(ctx context.Context, runID int) ([]models.GroupStat, error) {
	data, err := c.client.Get(ctx, groupStatsKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read group stats cache: %w", err)
	}

	var groupStats []models.GroupStat
	if err := json.Unmarshal(data, &groupStats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached group stats: %w", err)
	}
	return groupStats, nil
}

// SetGroupStats caches a run's group statistics
func (c *Cache) SetGroupStats(ctx context.Context, runID int, groupStats []models.GroupStat) error {
	data, err := json.Marshal(groupStats)
	if err != nil {
		return fmt.Errorf("failed to marshal group stats: %w", err)
	}
	if err := c.client.Set(ctx, groupStatsKey(runID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write group stats cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}
