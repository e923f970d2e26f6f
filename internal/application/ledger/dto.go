package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
)

// AdjustStockCommand mutates one (location, item) quantity by a signed
// delta for any non-transfer reason
type AdjustStockCommand struct {
	Location location.Ref
	ItemID   uuid.UUID
	Delta    int
	Reason   ledger.Reason
	ActorID  *uuid.UUID
}

// TransferCommand moves a positive quantity of one item between two
// locations atomically
type TransferCommand struct {
	From     location.Ref
	To       location.Ref
	ItemID   uuid.UUID
	Quantity int
	ActorID  *uuid.UUID
}

// TransferResult carries both halves of a committed transfer
type TransferResult struct {
	TransferID uuid.UUID
	Outbound   *ledger.StockMovement
	Inbound    *ledger.StockMovement
}

// BatchTransferItem is one item line inside a batch transfer
type BatchTransferItem struct {
	ItemID   uuid.UUID
	Quantity int
}

// BatchTransferCommand moves several distinct items between the same
// two locations. Items succeed or fail independently.
type BatchTransferCommand struct {
	From    location.Ref
	To      location.Ref
	Items   []BatchTransferItem
	ActorID *uuid.UUID
}

// BatchTransferFailure reports why one item's transfer was rejected
type BatchTransferFailure struct {
	ItemID  uuid.UUID
	Code    string
	Message string
}

// BatchTransferResult reports per-item outcomes of a batch transfer
type BatchTransferResult struct {
	Successful []TransferResult
	Failed     []BatchTransferFailure
}

// MovementQuery filters the movement log. Zero-value fields are not applied.
type MovementQuery struct {
	ItemID     *uuid.UUID
	ActorID    *uuid.UUID
	Reason     *ledger.Reason
	LocationID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	Size       int
}

// MovementPage is one page of the movement log, newest first
type MovementPage struct {
	Content       []ledger.StockMovement
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}
