package forecast

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	domforecast "github.com/mirai/inventory-backend/internal/domain/forecast"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

const (
	defaultAtRiskThreshold = 7
	defaultAtRiskLimit     = 50
	maxAtRiskLimit         = 200
)

// AtRiskResult is one page of predictions sorted by ascending
// days-to-stockout
type AtRiskResult struct {
	Predictions []domforecast.Prediction
	Total       int64
	Limit       int
	Offset      int
}

// ForecastService derives and caches stockout predictions from the
// movement log. Predictions are regenerable; the movement log and the
// ledger stay the only ground truth.
type ForecastService struct {
	recordRepo     ledger.InventoryRecordRepository
	movementRepo   ledger.StockMovementRepository
	itemRepo       catalog.ItemRepository
	predictionRepo domforecast.PredictionRepository
	now            func() time.Time
}

// NewForecastService creates a new ForecastService
func NewForecastService(
	recordRepo ledger.InventoryRecordRepository,
	movementRepo ledger.StockMovementRepository,
	itemRepo catalog.ItemRepository,
	predictionRepo domforecast.PredictionRepository,
) *ForecastService {
	return &ForecastService{
		recordRepo:     recordRepo,
		movementRepo:   movementRepo,
		itemRepo:       itemRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *ForecastService) WithClock(now func() time.Time) *ForecastService {
	s.now = now
	return s
}

// Recompute rebuilds an item's prediction from its trailing movement
// window and replaces the cached row
func (s *ForecastService) Recompute(ctx context.Context, itemID uuid.UUID) (*domforecast.Prediction, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrItemNotFound
	}

	total, err := s.recordRepo.TotalForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, 0, -domforecast.DefaultWindowDays)
	movements, err := s.movementRepo.FindByItemSince(ctx, itemID, since)
	if err != nil {
		return nil, err
	}

	prediction, err := domforecast.Compute(itemID, int(total.Quantity), movements, domforecast.ReorderParams{
		ReorderPoint:     item.ReorderPoint,
		TargetStockLevel: item.TargetStockLevel,
		LeadTimeDays:     item.LeadTimeDays,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}

// Latest returns the item's cached prediction, computing one on demand
// when none exists yet
func (s *ForecastService) Latest(ctx context.Context, itemID uuid.UUID) (*domforecast.Prediction, error) {
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrItemNotFound
	}

	prediction, err := s.predictionRepo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if prediction != nil {
		return prediction, nil
	}
	return s.Recompute(ctx, itemID)
}

// AtRisk lists cached predictions whose days-to-stockout is at or below
// the threshold, most urgent first
func (s *ForecastService) AtRisk(ctx context.Context, thresholdDays, limit, offset int) (*AtRiskResult, error) {
	if thresholdDays <= 0 {
		thresholdDays = defaultAtRiskThreshold
	}
	if limit <= 0 {
		limit = defaultAtRiskLimit
	}
	if limit > maxAtRiskLimit {
		limit = maxAtRiskLimit
	}
	if offset < 0 {
		offset = 0
	}

	predictions, total, err := s.predictionRepo.FindAtRisk(ctx, thresholdDays, limit, offset)
	if err != nil {
		return nil, err
	}
	return &AtRiskResult{
		Predictions: predictions,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}
