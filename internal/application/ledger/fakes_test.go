package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

type recordKey struct {
	kind   location.Kind
	loc    uuid.UUID
	itemID uuid.UUID
}

// fakeRecordRepo is an in-memory InventoryRecordRepository with error
// injection hooks for conflict and failure scenarios
type fakeRecordRepo struct {
	records map[recordKey]*ledger.InventoryRecord

	// conflictsRemaining makes the next N SaveWithLock calls lose the
	// optimistic locking race
	conflictsRemaining int
	// failSaveAt makes any save targeting this location fail
	failSaveAt *location.Ref
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[recordKey]*ledger.InventoryRecord)}
}

func (f *fakeRecordRepo) key(loc location.Ref, itemID uuid.UUID) recordKey {
	return recordKey{kind: loc.Kind, loc: loc.ID, itemID: itemID}
}

func (f *fakeRecordRepo) seed(loc location.Ref, itemID uuid.UUID, quantity int) *ledger.InventoryRecord {
	record, _ := ledger.NewInventoryRecord(loc, itemID)
	record.Quantity = quantity
	f.records[f.key(loc, itemID)] = record
	return record
}

func (f *fakeRecordRepo) quantity(loc location.Ref, itemID uuid.UUID) int {
	if record, ok := f.records[f.key(loc, itemID)]; ok {
		return record.Quantity
	}
	return 0
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
	if f.failSaveAt != nil && f.failSaveAt.Equal(record.Location()) {
		return shared.NewDomainError("STORAGE_FAILURE", "injected create failure")
	}
	clone := *record
	f.records[f.key(record.Location(), record.ItemID)] = &clone
	return nil
}

func (f *fakeRecordRepo) SaveWithLock(_ context.Context, record *ledger.InventoryRecord) error {
	if f.failSaveAt != nil && f.failSaveAt.Equal(record.Location()) {
		return shared.NewDomainError("STORAGE_FAILURE", "injected save failure")
	}
	if f.conflictsRemaining > 0 {
		f.conflictsRemaining--
		return shared.ErrConcurrentModification
	}
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
		if record.UpdatedAt.After(total.LastUpdatedAt) {
			total.LastUpdatedAt = record.UpdatedAt
		}
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

func (f *fakeRecordRepo) snapshot() map[recordKey]*ledger.InventoryRecord {
	copied := make(map[recordKey]*ledger.InventoryRecord, len(f.records))
	for k, v := range f.records {
		clone := *v
		copied[k] = &clone
	}
	return copied
}

// fakeMovementRepo is an in-memory append-only StockMovementRepository
type fakeMovementRepo struct {
	movements []ledger.StockMovement
	createErr error
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *ledger.StockMovement) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeMovementRepo) CreateBatch(_ context.Context, movements []*ledger.StockMovement) error {
	if f.createErr != nil {
		return f.createErr
	}
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
	return result, nil
}

// fakeTransactionScope mimics real rollback: repository state mutated
// inside a failing unit of work is restored, so atomicity violations
// become visible to assertions
type fakeTransactionScope struct {
	records   *fakeRecordRepo
	movements *fakeMovementRepo
}

func newFakeTransactionScope(records *fakeRecordRepo, movements *fakeMovementRepo) *fakeTransactionScope {
	return &fakeTransactionScope{records: records, movements: movements}
}

func (s *fakeTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	recordSnapshot := s.records.snapshot()
	movementCount := len(s.movements.movements)
	if err := fn(s); err != nil {
		s.records.records = recordSnapshot
		s.movements.movements = s.movements.movements[:movementCount]
		return err
	}
	return nil
}

func (s *fakeTransactionScope) RecordRepo() ledger.InventoryRecordRepository {
	return s.records
}

func (s *fakeTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movements
}

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var _ ledger.InventoryRecordRepository = (*fakeRecordRepo)(nil)
var _ ledger.StockMovementRepository = (*fakeMovementRepo)(nil)
var _ TransactionScope = (*fakeTransactionScope)(nil)
var _ catalog.ItemRepository = (*MockItemRepository)(nil)
