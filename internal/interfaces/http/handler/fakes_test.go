package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	appledger "github.com/mirai/inventory-backend/internal/application/ledger"
	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/forecast"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
)

type recordKey struct {
	kind   location.Kind
	loc    uuid.UUID
	itemID uuid.UUID
}

// fakeRecordRepo is an in-memory InventoryRecordRepository backing
// real application services in endpoint tests
type fakeRecordRepo struct {
	records map[recordKey]*ledger.InventoryRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[recordKey]*ledger.InventoryRecord)}
}

func (f *fakeRecordRepo) key(loc location.Ref, itemID uuid.UUID) recordKey {
	return recordKey{kind: loc.Kind, loc: loc.ID, itemID: itemID}
}

func (f *fakeRecordRepo) seed(loc location.Ref, itemID uuid.UUID, quantity int) {
	record, _ := ledger.NewInventoryRecord(loc, itemID)
	record.Quantity = quantity
	f.records[f.key(loc, itemID)] = record
}

func (f *fakeRecordRepo) FindByLocationAndItem(_ context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	record, ok := f.records[f.key(loc, itemID)]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (f *fakeRecordRepo) FindByLocationAndItemForUpdate(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	return f.FindByLocationAndItem(ctx, loc, itemID)
}

func (f *fakeRecordRepo) FindByItem(_ context.Context, itemID uuid.UUID) ([]ledger.InventoryRecord, error) {
	var result []ledger.InventoryRecord
	for _, record := range f.records {
		if record.ItemID == itemID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (f *fakeRecordRepo) Create(_ context.Context, record *ledger.InventoryRecord) error {
	clone := *record
	f.records[f.key(record.Location(), record.ItemID)] = &clone
	return nil
}

func (f *fakeRecordRepo) SaveWithLock(_ context.Context, record *ledger.InventoryRecord) error {
	clone := *record
	clone.Version++
	f.records[f.key(record.Location(), record.ItemID)] = &clone
	return nil
}

func (f *fakeRecordRepo) TotalForItem(_ context.Context, itemID uuid.UUID) (*ledger.ItemTotal, error) {
	total := &ledger.ItemTotal{ItemID: itemID}
	for _, record := range f.records {
		if record.ItemID != itemID {
			continue
		}
		total.Quantity += int64(record.Quantity)
		if record.UpdatedAt.After(total.LastUpdatedAt) {
			total.LastUpdatedAt = record.UpdatedAt
		}
	}
	return total, nil
}

func (f *fakeRecordRepo) TotalsForAllItems(_ context.Context, kind *location.Kind) ([]ledger.ItemTotal, error) {
	byItem := make(map[uuid.UUID]*ledger.ItemTotal)
	for _, record := range f.records {
		if kind != nil && record.LocationKind != *kind {
			continue
		}
		total, ok := byItem[record.ItemID]
		if !ok {
			total = &ledger.ItemTotal{ItemID: record.ItemID}
			byItem[record.ItemID] = total
		}
		total.Quantity += int64(record.Quantity)
	}
	result := make([]ledger.ItemTotal, 0, len(byItem))
	for _, total := range byItem {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ItemID.String() < result[j].ItemID.String()
	})
	return result, nil
}

func (f *fakeRecordRepo) TotalsByKind(_ context.Context) ([]ledger.KindTotal, error) {
	byKind := make(map[location.Kind]*ledger.KindTotal)
	for _, record := range f.records {
		total, ok := byKind[record.LocationKind]
		if !ok {
			total = &ledger.KindTotal{LocationKind: record.LocationKind}
			byKind[record.LocationKind] = total
		}
		total.Records++
		total.Quantity += int64(record.Quantity)
	}
	result := make([]ledger.KindTotal, 0, len(byKind))
	for _, total := range byKind {
		result = append(result, *total)
	}
	return result, nil
}

// fakeMovementRepo is an in-memory append-only StockMovementRepository
type fakeMovementRepo struct {
	movements []ledger.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *ledger.StockMovement) error {
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeMovementRepo) CreateBatch(_ context.Context, movements []*ledger.StockMovement) error {
	for _, movement := range movements {
		f.movements = append(f.movements, *movement)
	}
	return nil
}

func (f *fakeMovementRepo) Query(_ context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	var matched []ledger.StockMovement
	for _, movement := range f.movements {
		if filter.ItemID != nil && movement.ItemID != *filter.ItemID {
			continue
		}
		if filter.Reason != nil && movement.Reason != *filter.Reason {
			continue
		}
		matched = append(matched, movement)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeMovementRepo) FindByItemSince(_ context.Context, itemID uuid.UUID, since time.Time) ([]ledger.StockMovement, error) {
	var result []ledger.StockMovement
	for _, movement := range f.movements {
		if movement.ItemID == itemID && !movement.OccurredAt.Before(since) {
			result = append(result, movement)
		}
	}
	return result, nil
}

func (f *fakeMovementRepo) FindByTransferID(_ context.Context, transferID uuid.UUID) ([]ledger.StockMovement, error) {
	var result []ledger.StockMovement
	for _, movement := range f.movements {
		if movement.TransferID != nil && *movement.TransferID == transferID {
			result = append(result, movement)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].QuantityChange < result[j].QuantityChange
	})
	return result, nil
}

// fakeTransactionScope runs the unit of work directly against the
// shared in-memory repositories
type fakeTransactionScope struct {
	records   *fakeRecordRepo
	movements *fakeMovementRepo
}

func (s *fakeTransactionScope) Execute(_ context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeTransactionScope) RecordRepo() ledger.InventoryRecordRepository {
	return s.records
}

func (s *fakeTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movements
}

// fakeItemRepo is an in-memory catalog.ItemRepository
type fakeItemRepo struct {
	items map[uuid.UUID]*catalog.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*catalog.Item)}
}

func (f *fakeItemRepo) seed(sku, name string) *catalog.Item {
	item, _ := catalog.NewItem(sku, name)
	f.items[item.ID] = item
	return item
}

func (f *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) FindBySKU(_ context.Context, sku string) (*catalog.Item, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	for _, item := range f.items {
		if item.SKU == normalized {
			clone := *item
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) FindAll(_ context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	var result []catalog.Item
	for _, item := range f.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.ActiveOnly && !item.IsActive {
			continue
		}
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (f *fakeItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	var result []catalog.Item
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (f *fakeItemRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

// fakePredictionRepo is an in-memory forecast.PredictionRepository
type fakePredictionRepo struct {
	predictions map[uuid.UUID]*forecast.Prediction
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{predictions: make(map[uuid.UUID]*forecast.Prediction)}
}

func (f *fakePredictionRepo) FindByItem(_ context.Context, itemID uuid.UUID) (*forecast.Prediction, error) {
	prediction, ok := f.predictions[itemID]
	if !ok {
		return nil, nil
	}
	clone := *prediction
	return &clone, nil
}

func (f *fakePredictionRepo) FindByItems(_ context.Context, itemIDs []uuid.UUID) ([]forecast.Prediction, error) {
	var result []forecast.Prediction
	for _, id := range itemIDs {
		if prediction, ok := f.predictions[id]; ok {
			result = append(result, *prediction)
		}
	}
	return result, nil
}

func (f *fakePredictionRepo) Upsert(_ context.Context, prediction *forecast.Prediction) error {
	clone := *prediction
	f.predictions[prediction.ItemID] = &clone
	return nil
}

func (f *fakePredictionRepo) FindAtRisk(_ context.Context, thresholdDays, limit, offset int) ([]forecast.Prediction, int64, error) {
	var matched []forecast.Prediction
	for _, prediction := range f.predictions {
		if prediction.DaysToStockout == nil {
			continue
		}
		if prediction.DaysToStockout.IntPart() <= int64(thresholdDays) {
			matched = append(matched, *prediction)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DaysToStockout.LessThan(*matched[j].DaysToStockout)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakePredictionRepo) CountByRisk(_ context.Context) (map[forecast.RiskLevel]int64, error) {
	counts := make(map[forecast.RiskLevel]int64)
	for _, prediction := range f.predictions {
		counts[prediction.RiskLevel]++
	}
	return counts, nil
}

var _ ledger.InventoryRecordRepository = (*fakeRecordRepo)(nil)
var _ ledger.StockMovementRepository = (*fakeMovementRepo)(nil)
var _ appledger.TransactionScope = (*fakeTransactionScope)(nil)
var _ catalog.ItemRepository = (*fakeItemRepo)(nil)
var _ forecast.PredictionRepository = (*fakePredictionRepo)(nil)
