package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/location"
)

// ItemTotal is the aggregated on-hand quantity of one item across all
// location kinds
type ItemTotal struct {
	ItemID        uuid.UUID
	Quantity      int64
	LastUpdatedAt time.Time
}

// KindTotal is the aggregated record count and quantity for one
// location kind
type KindTotal struct {
	LocationKind location.Kind
	Records      int64
	Quantity     int64
}

// InventoryRecordRepository defines the interface for ledger record persistence
type InventoryRecordRepository interface {
	// FindByLocationAndItem finds the record for a (location, item) pair,
	// returning (nil, nil) when no record exists yet
	FindByLocationAndItem(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*InventoryRecord, error)

	// FindByLocationAndItemForUpdate loads the record under a row lock;
	// only meaningful inside a transaction
	FindByLocationAndItemForUpdate(ctx context.Context, loc location.Ref, itemID uuid.UUID) (*InventoryRecord, error)

	// FindByItem finds all records holding an item, across every location kind
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]InventoryRecord, error)

	// Create inserts a brand-new record
	Create(ctx context.Context, record *InventoryRecord) error

	// SaveWithLock persists quantity changes with optimistic locking:
	// the update succeeds only when the stored version still matches
	// the loaded one
	SaveWithLock(ctx context.Context, record *InventoryRecord) error

	// TotalForItem sums the item's quantity over all records in one query
	TotalForItem(ctx context.Context, itemID uuid.UUID) (*ItemTotal, error)

	// TotalsForAllItems produces ItemTotal rows for every item holding
	// stock, grouped in a single query. A non-nil kind restricts the
	// totals to records at that location kind.
	TotalsForAllItems(ctx context.Context, kind *location.Kind) ([]ItemTotal, error)

	// TotalsByKind aggregates record counts and quantities per location kind
	TotalsByKind(ctx context.Context) ([]KindTotal, error)
}

// MovementFilter narrows movement log queries. All fields combine with AND;
// LocationID matches either side of a transfer. Dates are [From, To).
type MovementFilter struct {
	ItemID     *uuid.UUID
	ActorID    *uuid.UUID
	Reason     *Reason
	LocationID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	Size       int
}

// StockMovementRepository defines the interface for the append-only
// movement log. There is deliberately no update or delete.
type StockMovementRepository interface {
	// Create appends a single movement
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several movements in one round trip
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// Query returns movements matching the filter, newest first, plus
	// the total match count for pagination
	Query(ctx context.Context, filter MovementFilter) ([]StockMovement, int64, error)

	// FindByItemSince returns an item's movements at or after a cutoff,
	// oldest first, for the forecast input series
	FindByItemSince(ctx context.Context, itemID uuid.UUID, since time.Time) ([]StockMovement, error)

	// FindByTransferID returns both halves of a transfer
	FindByTransferID(ctx context.Context, transferID uuid.UUID) ([]StockMovement, error)
}
