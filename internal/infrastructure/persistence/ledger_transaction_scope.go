package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/mirai/inventory-backend/internal/application/ledger"
	"github.com/mirai/inventory-backend/internal/domain/ledger"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// The record write and movement insert(s) of one ledger operation commit
// together or not at all.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to ledger repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// RecordRepo returns the inventory record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RecordRepo() ledger.InventoryRecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
