package ledger

import (
	"context"

	"github.com/mirai/inventory-backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// The record upsert and the movement insert(s) of one operation commit
// together or not at all; this is what keeps the movement log
// reconcilable against current quantities across crashes.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to ledger repositories that
// share one underlying database transaction.
type TransactionalRepositories interface {
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() ledger.InventoryRecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() ledger.StockMovementRepository
}

// NoOpTransactionScope runs the unit of work without a real transaction.
// Useful in tests where the repositories are in-memory doubles.
type NoOpTransactionScope struct {
	recordRepo   ledger.InventoryRecordRepository
	movementRepo ledger.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	recordRepo ledger.InventoryRecordRepository,
	movementRepo ledger.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RecordRepo returns the inventory record repository
func (s *NoOpTransactionScope) RecordRepo() ledger.InventoryRecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
