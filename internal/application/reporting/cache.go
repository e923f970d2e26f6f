package reporting

import (
	"context"
	"time"
)

// SummaryCache is a read-through cache for the dashboard summary.
// Summary reads are advisory snapshots, so short staleness is fine.
type SummaryCache interface {
	// Get returns the cached summary, or (nil, nil) on a miss
	Get(ctx context.Context) (*InventorySummary, error)

	// Set stores the summary with a TTL
	Set(ctx context.Context, summary *InventorySummary, ttl time.Duration) error

	// Invalidate drops the cached summary
	Invalidate(ctx context.Context) error
}
