package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirai/inventory-backend/internal/application/reporting"
	"github.com/mirai/inventory-backend/internal/infrastructure/config"
)

const summaryCacheKey = "inventory:summary"

// RedisSummaryCache implements SummaryCache using Redis. Suitable for
// deployments where multiple instances serve the dashboard and should
// share one cached snapshot.
type RedisSummaryCache struct {
	client *redis.Client
	key    string
}

// NewRedisSummaryCache creates a Redis-backed summary cache
func NewRedisSummaryCache(cfg *config.RedisConfig) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSummaryCache{
		client: client,
		key:    summaryCacheKey,
	}, nil
}

// NewRedisSummaryCacheWithClient creates a cache with an existing Redis client
func NewRedisSummaryCacheWithClient(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{
		client: client,
		key:    summaryCacheKey,
	}
}

// Get returns the cached summary, or (nil, nil) on a miss
func (c *RedisSummaryCache) Get(ctx context.Context) (*reporting.InventorySummary, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read summary from Redis: %w", err)
	}

	var summary reporting.InventorySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary with a TTL
func (c *RedisSummaryCache) Set(ctx context.Context, summary *reporting.InventorySummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary to Redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary
func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary in Redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSummaryCache implements SummaryCache
var _ reporting.SummaryCache = (*RedisSummaryCache)(nil)
