package ledger

import (
	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// InventoryRecord is the ledger's unit of truth: the current quantity of
// one item at one location. Records are created lazily on first stock
// placement and must never hold a negative quantity.
type InventoryRecord struct {
	shared.VersionedEntity
	LocationKind location.Kind `gorm:"type:varchar(30);not null;uniqueIndex:idx_inventory_records_loc_item,priority:1"`
	LocationID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_records_loc_item,priority:2"`
	ItemID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_records_loc_item,priority:3;index:idx_inventory_records_item"`
	Quantity     int           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// NewInventoryRecord creates an empty record for an item at a location
func NewInventoryRecord(loc location.Ref, itemID uuid.UUID) (*InventoryRecord, error) {
	if !loc.Kind.IsValid() {
		return nil, shared.ErrUnknownLocationKind
	}
	if loc.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	return &InventoryRecord{
		VersionedEntity: shared.NewVersionedEntity(),
		LocationKind:    loc.Kind,
		LocationID:      loc.ID,
		ItemID:          itemID,
	}, nil
}

// Location returns the record's location reference
func (r *InventoryRecord) Location() location.Ref {
	return location.Ref{Kind: r.LocationKind, ID: r.LocationID}
}

// ApplyDelta mutates the quantity by a signed delta and returns the
// previous quantity. It is the only legal mutation path; a delta that
// would drive the quantity negative fails and leaves the record
// untouched.
func (r *InventoryRecord) ApplyDelta(delta int) (int, error) {
	if delta == 0 {
		return r.Quantity, shared.NewDomainError("INVALID_QUANTITY", "Delta cannot be zero")
	}
	next := r.Quantity + delta
	if next < 0 {
		return r.Quantity, shared.ErrInsufficientStock
	}
	previous := r.Quantity
	r.Quantity = next
	return previous, nil
}
