package forecast

import (
	"context"

	"github.com/google/uuid"
)

// PredictionRepository defines persistence for cached predictions.
// One row per item; recomputation replaces the previous row.
type PredictionRepository interface {
	// FindByItem returns the latest prediction for an item, or
	// (nil, nil) when none has been computed
	FindByItem(ctx context.Context, itemID uuid.UUID) (*Prediction, error)

	// FindByItems loads the latest predictions for several items in one query
	FindByItems(ctx context.Context, itemIDs []uuid.UUID) ([]Prediction, error)

	// Upsert replaces the item's cached prediction
	Upsert(ctx context.Context, prediction *Prediction) error

	// FindAtRisk lists predictions with days-to-stockout at or below
	// the threshold, ascending, with the total match count
	FindAtRisk(ctx context.Context, thresholdDays int, limit, offset int) ([]Prediction, int64, error)

	// CountByRisk counts cached predictions per risk level
	CountByRisk(ctx context.Context) (map[RiskLevel]int64, error)
}
