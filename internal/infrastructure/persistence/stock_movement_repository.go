package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The movement log is append-only; there are no update or delete paths.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a single movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch appends several movements in one round trip
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// Query returns movements matching the filter, newest first, plus the
// total match count for pagination
func (r *GormStockMovementRepository) Query(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []ledger.StockMovement
	if err := query.
		Order("occurred_at DESC").
		Offset(filter.Page * filter.Size).
		Limit(filter.Size).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// FindByItemSince returns an item's movements at or after a cutoff,
// oldest first, for the forecast input series
func (r *GormStockMovementRepository) FindByItemSince(ctx context.Context, itemID uuid.UUID, since time.Time) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND occurred_at >= ?", itemID, since).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByTransferID returns both halves of a transfer
func (r *GormStockMovementRepository) FindByTransferID(ctx context.Context, transferID uuid.UUID) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("quantity_change ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// applyFilter applies the movement filter conditions to the query.
// All conditions combine with AND; the location condition matches either
// side of a transfer.
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter ledger.MovementFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}
	if filter.LocationID != nil {
		query = query.Where("from_location_id = ? OR to_location_id = ?", *filter.LocationID, *filter.LocationID)
	}
	if filter.FromDate != nil {
		query = query.Where("occurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("occurred_at < ?", *filter.ToDate)
	}
	return query
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ ledger.StockMovementRepository = (*GormStockMovementRepository)(nil)
