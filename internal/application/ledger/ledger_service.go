package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// maxConflictRetries bounds the retry-on-conflict loop for optimistic
// locking. Losing writers beyond this surface CONCURRENT_MODIFICATION.
const maxConflictRetries = 3

// LedgerService owns single-location quantity mutations. applyDelta is
// the only path that changes a quantity, so every change carries a
// movement entry by construction.
type LedgerService struct {
	txScope    TransactionScope
	recordRepo ledger.InventoryRecordRepository
	itemRepo   catalog.ItemRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	recordRepo ledger.InventoryRecordRepository,
	itemRepo catalog.ItemRepository,
) *LedgerService {
	return &LedgerService{
		txScope:    txScope,
		recordRepo: recordRepo,
		itemRepo:   itemRepo,
	}
}

// GetQuantity returns the current quantity of an item at a location,
// zero when no record exists
func (s *LedgerService) GetQuantity(ctx context.Context, loc location.Ref, itemID uuid.UUID) (int, error) {
	if !loc.Kind.IsValid() {
		return 0, shared.ErrUnknownLocationKind
	}
	record, err := s.recordRepo.FindByLocationAndItem(ctx, loc, itemID)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}
	return record.Quantity, nil
}

// AdjustStock applies a signed delta at one location for any
// non-transfer reason. The record update and the movement insert commit
// atomically; conflicting concurrent writers are retried a bounded
// number of times against the freshly committed quantity.
func (s *LedgerService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*ledger.StockMovement, error) {
	if !cmd.Location.Kind.IsValid() {
		return nil, shared.ErrUnknownLocationKind
	}
	if !cmd.Reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid stock movement reason")
	}
	if cmd.Reason == ledger.ReasonTransfer {
		return nil, shared.NewDomainError("INVALID_REASON", "Transfers must go through the transfer operation")
	}
	if cmd.Delta == 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if err := s.ensureItemExists(ctx, cmd.ItemID); err != nil {
		return nil, err
	}

	var movement *ledger.StockMovement
	err := withConflictRetry(func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			applied, err := applyDeltaToRecord(ctx, repos.RecordRepo(), cmd.Location, cmd.ItemID, cmd.Delta, cmd.Reason, false)
			if err != nil {
				return err
			}
			if cmd.ActorID != nil {
				applied.WithActor(*cmd.ActorID)
			}
			if err := repos.MovementRepo().Create(ctx, applied); err != nil {
				return err
			}
			movement = applied
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *LedgerService) ensureItemExists(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return shared.ErrItemNotFound
	}
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrItemNotFound
	}
	return nil
}

// withConflictRetry re-runs the unit of work when it lost an optimistic
// locking race, up to maxConflictRetries attempts
func withConflictRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

// applyDeltaToRecord loads (or lazily creates) the record, applies the
// delta under the non-negative invariant, persists it, and returns the
// movement describing the change. The caller inserts the movement so
// that transfers can link both halves before writing.
func applyDeltaToRecord(
	ctx context.Context,
	recordRepo ledger.InventoryRecordRepository,
	loc location.Ref,
	itemID uuid.UUID,
	delta int,
	reason ledger.Reason,
	forUpdate bool,
) (*ledger.StockMovement, error) {
	var record *ledger.InventoryRecord
	var err error
	if forUpdate {
		record, err = recordRepo.FindByLocationAndItemForUpdate(ctx, loc, itemID)
	} else {
		record, err = recordRepo.FindByLocationAndItem(ctx, loc, itemID)
	}
	if err != nil {
		return nil, err
	}

	created := false
	if record == nil {
		if delta < 0 {
			return nil, shared.ErrInsufficientStock
		}
		record, err = ledger.NewInventoryRecord(loc, itemID)
		if err != nil {
			return nil, err
		}
		created = true
	}

	previous, err := record.ApplyDelta(delta)
	if err != nil {
		return nil, err
	}

	if created {
		err = recordRepo.Create(ctx, record)
	} else {
		err = recordRepo.SaveWithLock(ctx, record)
	}
	if err != nil {
		return nil, err
	}

	movement, err := ledger.NewStockMovement(itemID, reason, delta, previous, record.Quantity)
	if err != nil {
		return nil, err
	}
	if delta < 0 {
		movement.WithFromLocation(loc)
	} else {
		movement.WithToLocation(loc)
	}
	return movement, nil
}
