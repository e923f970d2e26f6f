package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/forecast"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// summaryTTL bounds how stale the cached dashboard summary may be
	summaryTTL = 30 * time.Second
)

// ReportingService is the read-only aggregation side of the engine:
// per-item totals across all location kinds, the enriched item listing,
// and the dashboard summary. It never mutates ledger state.
type ReportingService struct {
	recordRepo     ledger.InventoryRecordRepository
	itemRepo       catalog.ItemRepository
	predictionRepo forecast.PredictionRepository
	cache          SummaryCache
	summaryTTL     time.Duration
}

// NewReportingService creates a new ReportingService. The cache is
// optional; without one every summary read recomputes.
func NewReportingService(
	recordRepo ledger.InventoryRecordRepository,
	itemRepo catalog.ItemRepository,
	predictionRepo forecast.PredictionRepository,
	cache SummaryCache,
) *ReportingService {
	return &ReportingService{
		recordRepo:     recordRepo,
		itemRepo:       itemRepo,
		predictionRepo: predictionRepo,
		cache:          cache,
		summaryTTL:     summaryTTL,
	}
}

// WithSummaryTTL overrides how long a cached summary stays fresh
func (s *ReportingService) WithSummaryTTL(ttl time.Duration) *ReportingService {
	if ttl > 0 {
		s.summaryTTL = ttl
	}
	return s
}

// TotalQuantity sums one item's on-hand quantity over every location
// kind in a single grouped query
func (s *ReportingService) TotalQuantity(ctx context.Context, itemID uuid.UUID) (*ItemTotalResult, error) {
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrItemNotFound
	}
	total, err := s.recordRepo.TotalForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemTotalResult{
		ItemID:        itemID,
		Quantity:      total.Quantity,
		LastUpdatedAt: total.LastUpdatedAt,
	}, nil
}

// ListItems returns catalog items enriched with aggregated quantities,
// stock health, and optionally the cached forecast. Totals come from
// one grouped query per call rather than one per location.
func (s *ReportingService) ListItems(ctx context.Context, query ItemListQuery) (*ItemListResult, error) {
	if query.LocationKind != nil && !query.LocationKind.IsValid() {
		return nil, shared.ErrUnknownLocationKind
	}
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}
	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	items, total, err := s.itemRepo.FindAll(ctx, catalog.ItemFilter{
		Category:  query.Category,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, err
	}

	totals, err := s.recordRepo.TotalsForAllItems(ctx, query.LocationKind)
	if err != nil {
		return nil, err
	}
	totalsByItem := make(map[uuid.UUID]ledger.ItemTotal, len(totals))
	for _, t := range totals {
		totalsByItem[t.ItemID] = t
	}

	var predictionsByItem map[uuid.UUID]forecast.Prediction
	if query.IncludeForecasts && len(items) > 0 {
		ids := make([]uuid.UUID, len(items))
		for i := range items {
			ids[i] = items[i].ID
		}
		predictions, err := s.predictionRepo.FindByItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		predictionsByItem = make(map[uuid.UUID]forecast.Prediction, len(predictions))
		for _, p := range predictions {
			predictionsByItem[p.ItemID] = p
		}
	}

	summaries := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		itemTotal, stocked := totalsByItem[item.ID]
		if query.LocationKind != nil && !stocked {
			continue
		}
		summary := ItemSummary{
			Item:          item,
			TotalQuantity: itemTotal.Quantity,
			StockHealth:   forecast.ClassifyStockHealth(int(itemTotal.Quantity), item.ReorderPoint),
		}
		if stocked {
			updatedAt := itemTotal.LastUpdatedAt
			summary.LastUpdatedAt = &updatedAt
		}
		if predictionsByItem != nil {
			if prediction, ok := predictionsByItem[item.ID]; ok {
				p := prediction
				summary.Forecast = &p
			}
		}
		summaries = append(summaries, summary)
	}

	return &ItemListResult{
		Items:  summaries,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}

// Summary rolls up record counts and quantities per location kind plus
// the at-risk and critical item counts. Served from cache when fresh.
func (s *ReportingService) Summary(ctx context.Context) (*InventorySummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	kindTotals, err := s.recordRepo.TotalsByKind(ctx)
	if err != nil {
		return nil, err
	}
	totalsByKind := make(map[location.Kind]ledger.KindTotal, len(kindTotals))
	for _, kt := range kindTotals {
		totalsByKind[kt.LocationKind] = kt
	}

	summary := &InventorySummary{GeneratedAt: time.Now()}
	for _, kind := range location.AllKinds() {
		kt := totalsByKind[kind]
		summary.PerKind = append(summary.PerKind, KindSummary{
			LocationKind: kind,
			Label:        location.Label(kind),
			Records:      kt.Records,
			Quantity:     kt.Quantity,
		})
		summary.TotalRecords += kt.Records
		summary.TotalQuantity += kt.Quantity
	}

	riskCounts, err := s.predictionRepo.CountByRisk(ctx)
	if err != nil {
		return nil, err
	}
	summary.CriticalItems = riskCounts[forecast.RiskCritical]
	summary.AtRiskItems = riskCounts[forecast.RiskCritical] + riskCounts[forecast.RiskWarning]

	if s.cache != nil {
		// cache failures must not fail the read
		_ = s.cache.Set(ctx, summary, s.summaryTTL)
	}
	return summary, nil
}
