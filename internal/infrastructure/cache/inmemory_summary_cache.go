package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mirai/inventory-backend/internal/application/reporting"
)

// InMemorySummaryCache implements SummaryCache with a process-local
// value. Suitable for single-instance deployments and tests; use the
// Redis cache when several instances serve the dashboard.
type InMemorySummaryCache struct {
	mu        sync.RWMutex
	summary   *reporting.InventorySummary
	expiresAt time.Time
	now       func() time.Time
}

// NewInMemorySummaryCache creates a new in-memory summary cache
func NewInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{now: time.Now}
}

// Get returns the cached summary, or (nil, nil) on a miss or after expiry
func (c *InMemorySummaryCache) Get(_ context.Context) (*reporting.InventorySummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.summary == nil || c.now().After(c.expiresAt) {
		return nil, nil
	}
	return c.summary, nil
}

// Set stores the summary with a TTL
func (c *InMemorySummaryCache) Set(_ context.Context, summary *reporting.InventorySummary, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary = summary
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// Invalidate drops the cached summary
func (c *InMemorySummaryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary = nil
	return nil
}

// Ensure InMemorySummaryCache implements SummaryCache
var _ reporting.SummaryCache = (*InMemorySummaryCache)(nil)
