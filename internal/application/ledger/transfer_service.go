package ledger

import (
	"context"
	"errors"

	"github.com/mirai/inventory-backend/internal/domain/catalog"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
	"github.com/mirai/inventory-backend/internal/domain/location"
	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// TransferService coordinates atomic two-location moves. The source
// decrement, destination increment, and both movement rows commit in
// one transaction; a failure on either side rolls back everything.
type TransferService struct {
	txScope  TransactionScope
	itemRepo catalog.ItemRepository
}

// NewTransferService creates a new TransferService
func NewTransferService(txScope TransactionScope, itemRepo catalog.ItemRepository) *TransferService {
	return &TransferService{
		txScope:  txScope,
		itemRepo: itemRepo,
	}
}

// Transfer moves a positive quantity of one item between two locations
func (s *TransferService) Transfer(ctx context.Context, cmd TransferCommand) (*TransferResult, error) {
	if err := s.validateRoute(cmd.From, cmd.To); err != nil {
		return nil, err
	}
	if cmd.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	exists, err := s.itemRepo.Exists(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrItemNotFound
	}

	var result *TransferResult
	err = withConflictRetry(func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			transferred, err := s.transferInTx(ctx, repos, cmd)
			if err != nil {
				return err
			}
			result = transferred
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TransferService) validateRoute(from, to location.Ref) error {
	if !from.Kind.IsValid() || !to.Kind.IsValid() {
		return shared.ErrUnknownLocationKind
	}
	if from.Equal(to) {
		return shared.ErrNoOpTransfer
	}
	return nil
}

// transferInTx runs both halves of the transfer inside one transaction.
// Rows are locked in a fixed total order over (kind, id) so that two
// opposing transfers between the same locations cannot deadlock.
func (s *TransferService) transferInTx(ctx context.Context, repos TransactionalRepositories, cmd TransferCommand) (*TransferResult, error) {
	recordRepo := repos.RecordRepo()

	first, second := cmd.From, cmd.To
	if second.Less(first) {
		first, second = second, first
	}
	for _, ref := range []location.Ref{first, second} {
		if _, err := recordRepo.FindByLocationAndItemForUpdate(ctx, ref, cmd.ItemID); err != nil {
			return nil, err
		}
	}

	outbound, err := applyDeltaToRecord(ctx, recordRepo, cmd.From, cmd.ItemID, -cmd.Quantity, ledger.ReasonTransfer, true)
	if err != nil {
		return nil, err
	}
	inbound, err := applyDeltaToRecord(ctx, recordRepo, cmd.To, cmd.ItemID, cmd.Quantity, ledger.ReasonTransfer, true)
	if err != nil {
		return nil, err
	}

	if cmd.ActorID != nil {
		outbound.WithActor(*cmd.ActorID)
		inbound.WithActor(*cmd.ActorID)
	}
	transferID := ledger.LinkTransferPair(outbound, inbound, cmd.From, cmd.To)

	if err := repos.MovementRepo().CreateBatch(ctx, []*ledger.StockMovement{outbound, inbound}); err != nil {
		return nil, err
	}

	return &TransferResult{
		TransferID: transferID,
		Outbound:   outbound,
		Inbound:    inbound,
	}, nil
}

// BatchTransfer moves several distinct items between the same two
// locations. Each item is its own transaction: one item's failure never
// rolls back another's success, and the caller gets per-item outcomes.
func (s *TransferService) BatchTransfer(ctx context.Context, cmd BatchTransferCommand) (*BatchTransferResult, error) {
	if err := s.validateRoute(cmd.From, cmd.To); err != nil {
		return nil, err
	}
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Batch transfer requires at least one item")
	}

	result := &BatchTransferResult{}
	for _, item := range cmd.Items {
		transferred, err := s.Transfer(ctx, TransferCommand{
			From:     cmd.From,
			To:       cmd.To,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			ActorID:  cmd.ActorID,
		})
		if err != nil {
			result.Failed = append(result.Failed, batchFailure(item, err))
			continue
		}
		result.Successful = append(result.Successful, *transferred)
	}
	return result, nil
}

func batchFailure(item BatchTransferItem, err error) BatchTransferFailure {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return BatchTransferFailure{
			ItemID:  item.ItemID,
			Code:    domainErr.Code,
			Message: domainErr.Message,
		}
	}
	return BatchTransferFailure{
		ItemID:  item.ItemID,
		Code:    "INTERNAL_ERROR",
		Message: "Transfer failed unexpectedly",
	}
}
