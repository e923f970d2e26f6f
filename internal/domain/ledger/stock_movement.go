package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// Reason classifies why a quantity changed
type Reason string

const (
	// ReasonInitialStock is the first placement of an item at a location
	ReasonInitialStock Reason = "INITIAL_STOCK"
	// ReasonRestock is replenishment from a supplier
	ReasonRestock Reason = "RESTOCK"
	// ReasonSale is stock leaving through a sale or machine payout
	ReasonSale Reason = "SALE"
	// ReasonDamage is stock written off as damaged
	ReasonDamage Reason = "DAMAGE"
	// ReasonAdjustment is a manual count correction
	ReasonAdjustment Reason = "ADJUSTMENT"
	// ReasonReturn is stock coming back from a customer
	ReasonReturn Reason = "RETURN"
	// ReasonTransfer is a move between two locations
	ReasonTransfer Reason = "TRANSFER"
)

// String returns the string representation of Reason
func (r Reason) String() string {
	return string(r)
}

// IsValid returns true if the reason belongs to the closed set
func (r Reason) IsValid() bool {
	switch r {
	case ReasonInitialStock,
		ReasonRestock,
		ReasonSale,
		ReasonDamage,
		ReasonAdjustment,
		ReasonReturn,
		ReasonTransfer:
		return true
	}
	return false
}

// StockMovement is an immutable audit entry for one quantity change.
// Once created, movements are never updated - corrections are made with
// new movements. Replaying all movements for a (location, item) pair in
// timestamp order from zero must reproduce the current record quantity.
type StockMovement struct {
	shared.BaseEntity
	ItemID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_stock_movements_item_time,priority:1"`
	Reason           Reason         `gorm:"type:varchar(20);not null;index:idx_stock_movements_reason"`
	QuantityChange   int            `gorm:"not null"`
	PreviousQuantity int            `gorm:"not null"`
	CurrentQuantity  int            `gorm:"not null"`
	ActorID          *uuid.UUID     `gorm:"type:uuid;index:idx_stock_movements_actor"`
	FromLocationKind *location.Kind `gorm:"type:varchar(30)"`
	FromLocationID   *uuid.UUID     `gorm:"type:uuid;index:idx_stock_movements_from_loc"`
	ToLocationKind   *location.Kind `gorm:"type:varchar(30)"`
	ToLocationID     *uuid.UUID     `gorm:"type:uuid;index:idx_stock_movements_to_loc"`
	TransferID       *uuid.UUID     `gorm:"type:uuid;index:idx_stock_movements_transfer"`
	OccurredAt       time.Time      `gorm:"type:timestamptz;not null;index:idx_stock_movements_item_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement entry for one applied delta.
// previous + change must equal current, and current must match the
// inventory record immediately after the write.
func NewStockMovement(
	itemID uuid.UUID,
	reason Reason,
	change int,
	previous int,
	current int,
) (*StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid stock movement reason")
	}
	if change == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if previous+change != current {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Previous quantity plus change must equal current quantity")
	}
	if current < 0 || previous < 0 {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:       shared.NewBaseEntity(),
		ItemID:           itemID,
		Reason:           reason,
		QuantityChange:   change,
		PreviousQuantity: previous,
		CurrentQuantity:  current,
		OccurredAt:       time.Now(),
	}, nil
}

// WithActor attributes the movement to a user
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// WithFromLocation records where the stock left
func (m *StockMovement) WithFromLocation(loc location.Ref) *StockMovement {
	kind := loc.Kind
	id := loc.ID
	m.FromLocationKind = &kind
	m.FromLocationID = &id
	return m
}

// WithToLocation records where the stock arrived
func (m *StockMovement) WithToLocation(loc location.Ref) *StockMovement {
	kind := loc.Kind
	id := loc.ID
	m.ToLocationKind = &kind
	m.ToLocationID = &id
	return m
}

// WithOccurredAt overrides the movement timestamp
func (m *StockMovement) WithOccurredAt(at time.Time) *StockMovement {
	m.OccurredAt = at
	return m
}

// LinkTransferPair marks both halves of a transfer with a shared
// transfer ID and stamps both sides with the full route so the audit
// trail reads as one transfer rather than two unrelated adjustments.
func LinkTransferPair(out, in *StockMovement, from, to location.Ref) uuid.UUID {
	transferID := uuid.New()
	for _, m := range []*StockMovement{out, in} {
		m.TransferID = &transferID
		m.WithFromLocation(from)
		m.WithToLocation(to)
	}
	return transferID
}

// IsConsumption reports whether the movement depletes sellable stock,
// which is what the forecast velocity is computed from
func (m *StockMovement) IsConsumption() bool {
	return m.Reason == ReasonSale && m.QuantityChange < 0
}
