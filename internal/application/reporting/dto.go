package reporting

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/forecast"
	"github.com/mirai/inventory-backend/internal/domain/location"
)

// ItemTotalResult is the aggregated position of one item
type ItemTotalResult struct {
	ItemID        uuid.UUID
	Quantity      int64
	LastUpdatedAt time.Time
}

// ItemListQuery narrows the enriched item listing
type ItemListQuery struct {
	LocationKind     *location.Kind
	Category         string
	IncludeForecasts bool
	SortBy           string
	SortOrder        string
	Limit            int
	Offset           int
}

// ItemSummary is one row of the enriched item listing: catalog data
// plus aggregated quantity, health, and (optionally) the cached forecast
type ItemSummary struct {
	Item          catalog.Item
	TotalQuantity int64
	LastUpdatedAt *time.Time
	StockHealth   forecast.StockHealth
	Forecast      *forecast.Prediction
}

// ItemListResult is one page of item summaries
type ItemListResult struct {
	Items  []ItemSummary
	Total  int64
	Limit  int
	Offset int
}

// KindSummary aggregates one location kind for the dashboard
type KindSummary struct {
	LocationKind location.Kind
	Label        string
	Records      int64
	Quantity     int64
}

// InventorySummary is the dashboard roll-up across the whole operation
type InventorySummary struct {
	PerKind       []KindSummary
	TotalQuantity int64
	TotalRecords  int64
	AtRiskItems   int64
	CriticalItems int64
	GeneratedAt   time.Time
}
