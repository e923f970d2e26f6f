package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// GormInventoryRecordRepository implements InventoryRecordRepository using GORM
type GormInventoryRecordRepository struct {
	db *gorm.DB
}

// NewGormInventoryRecordRepository creates a new GormInventoryRecordRepository
func NewGormInventoryRecordRepository(db *gorm.DB) *GormInventoryRecordRepository {
	return &GormInventoryRecordRepository{db: db}
}

// FindByLocationAndItem finds the record for a (location, item) pair.
// Returns (nil, nil) when no record exists yet; records are created
// lazily on first stock placement.
func (r *GormInventoryRecordRepository) FindByLocationAndItem(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	var record ledger.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("location_kind = ? AND location_id = ? AND item_id = ?", loc.Kind, loc.ID, itemID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocationAndItemForUpdate loads the record under a FOR UPDATE row
// lock. Only meaningful inside a transaction; transfers use it to pin
// both rows before applying deltas.
func (r *GormInventoryRecordRepository) FindByLocationAndItemForUpdate(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*ledger.InventoryRecord, error) {
	var record ledger.InventoryRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("location_kind = ? AND location_id = ? AND item_id = ?", loc.Kind, loc.ID, itemID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindByItem finds all records holding an item, across every location kind
func (r *GormInventoryRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]ledger.InventoryRecord, error) {
	var records []ledger.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("location_kind ASC, location_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a brand-new record
func (r *GormInventoryRecordRepository) Create(ctx context.Context, record *ledger.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryRecordRepository) SaveWithLock(ctx context.Context, record *ledger.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{
			"quantity":   record.Quantity,
			"version":    record.Version + 1,
			"updated_at": record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	record.IncrementVersion()
	return nil
}

// TotalForItem sums the item's quantity over all records in one query
func (r *GormInventoryRecordRepository) TotalForItem(ctx context.Context, itemID uuid.UUID) (*ledger.ItemTotal, error) {
	var row struct {
		Quantity      int64
		LastUpdatedAt *time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.InventoryRecord{}).
		Select("COALESCE(SUM(quantity), 0) as quantity, MAX(updated_at) as last_updated_at").
		Where("item_id = ?", itemID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	total := &ledger.ItemTotal{ItemID: itemID, Quantity: row.Quantity}
	if row.LastUpdatedAt != nil {
		total.LastUpdatedAt = *row.LastUpdatedAt
	}
	return total, nil
}

// TotalsForAllItems produces one aggregated row per item holding stock.
// A non-nil kind restricts the totals to records at that location kind.
func (r *GormInventoryRecordRepository) TotalsForAllItems(ctx context.Context, kind *location.Kind) ([]ledger.ItemTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.InventoryRecord{}).
		Select("item_id, COALESCE(SUM(quantity), 0) as quantity, MAX(updated_at) as last_updated_at").
		Group("item_id").
		Order("item_id ASC")

	if kind != nil {
		query = query.Where("location_kind = ?", *kind)
	}

	var totals []ledger.ItemTotal
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// TotalsByKind aggregates record counts and quantities per location kind
func (r *GormInventoryRecordRepository) TotalsByKind(ctx context.Context) ([]ledger.KindTotal, error) {
	var totals []ledger.KindTotal
	if err := r.db.WithContext(ctx).
		Model(&ledger.InventoryRecord{}).
		Select("location_kind, COUNT(*) as records, COALESCE(SUM(quantity), 0) as quantity").
		Group("location_kind").
		Order("location_kind ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// Ensure GormInventoryRecordRepository implements InventoryRecordRepository
var _ ledger.InventoryRecordRepository = (*GormInventoryRecordRepository)(nil)
