package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mirai/inventory-backend/internal/domain/forecast"
)

// GormPredictionRepository implements PredictionRepository using GORM.
// Predictions are a cache with one row per item; recomputation replaces
// the previous row in place.
type GormPredictionRepository struct {
	db *gorm.DB
}

// NewGormPredictionRepository creates a new GormPredictionRepository
func NewGormPredictionRepository(db *gorm.DB) *GormPredictionRepository {
	return &GormPredictionRepository{db: db}
}

// FindByItem returns the latest prediction for an item, or (nil, nil)
// when none has been computed
func (r *GormPredictionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) (*forecast.Prediction, error) {
	var prediction forecast.Prediction
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		First(&prediction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prediction, nil
}

// FindByItems loads the latest predictions for several items in one query
func (r *GormPredictionRepository) FindByItems(ctx context.Context, itemIDs []uuid.UUID) ([]forecast.Prediction, error) {
	if len(itemIDs) == 0 {
		return []forecast.Prediction{}, nil
	}

	var predictions []forecast.Prediction
	if err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

// Upsert replaces the item's cached prediction
func (r *GormPredictionRepository) Upsert(ctx context.Context, prediction *forecast.Prediction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"horizon_days",
				"avg_daily_delta",
				"days_to_stockout",
				"suggested_reorder_qty",
				"suggested_order_date",
				"confidence",
				"risk_level",
				"computed_at",
				"updated_at",
			}),
		}).
		Create(prediction).Error
}

// FindAtRisk lists predictions with days-to-stockout at or below the
// threshold, most urgent first, with the total match count
func (r *GormPredictionRepository) FindAtRisk(ctx context.Context, thresholdDays int, limit, offset int) ([]forecast.Prediction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&forecast.Prediction{}).
		Where("days_to_stockout IS NOT NULL AND days_to_stockout <= ?", thresholdDays)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var predictions []forecast.Prediction
	if err := query.
		Order("days_to_stockout ASC").
		Offset(offset).
		Limit(limit).
		Find(&predictions).Error; err != nil {
		return nil, 0, err
	}
	return predictions, total, nil
}

// CountByRisk counts cached predictions per risk level
func (r *GormPredictionRepository) CountByRisk(ctx context.Context) (map[forecast.RiskLevel]int64, error) {
	var rows []struct {
		RiskLevel forecast.RiskLevel
		Count     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&forecast.Prediction{}).
		Select("risk_level, COUNT(*) as count").
		Group("risk_level").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[forecast.RiskLevel]int64, len(rows))
	for _, row := range rows {
		counts[row.RiskLevel] = row.Count
	}
	return counts, nil
}

// Ensure GormPredictionRepository implements PredictionRepository
var _ forecast.PredictionRepository = (*GormPredictionRepository)(nil)
