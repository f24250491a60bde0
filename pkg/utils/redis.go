package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobhound/pkg/models"
)

const latestRunKey = "jobhound:runs:latest"

// RunCache stores the most recent digest run summary in Redis so other
// processes (dashboards, the status API) can read it without touching the
// dedup store.
type RunCache struct {
	client *redis.Client
}

// NewRunCache creates a Redis-backed run cache from a redis URL.
func NewRunCache(url string, timeout time.Duration) (*RunCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", url, err)
	}

	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return &RunCache{client: redis.NewClient(opts)}, nil
}

// Ping tests the Redis connection
func (r *RunCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RunCache) Close() error {
	return r.client.Close()
}

// PutLatest stores the summary of the most recent run with a 48h expiry.
func (r *RunCache) PutLatest(ctx context.Context, summary *models.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := r.client.Set(ctx, latestRunKey, data, 48*time.Hour).Err(); err != nil {
		return fmt.Errorf("store run summary: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent run summary, or nil when none exists.
func (r *RunCache) GetLatest(ctx context.Context) (*models.RunSummary, error) {
	data, err := r.client.Get(ctx, latestRunKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get run summary: %w", err)
	}

	var summary models.RunSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("unmarshal run summary: %w", err)
	}
	return &summary, nil
}
