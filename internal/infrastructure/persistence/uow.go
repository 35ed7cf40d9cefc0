package persistence

import (
	"context"

	apporder "github.com/distriflow/backend/internal/application/order"
	"gorm.io/gorm"
)

// GormUnitOfWork hands the lifecycle engine one transaction per mutation.
// Every repository in the bundle is built over the same *gorm.DB transaction
// handle, so reads see a consistent snapshot and any error rolls back all
// writes, stock movements and counter increments included.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over a database handle
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside one transaction with transaction-scoped repositories
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos apporder.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := apporder.Repositories{
			Orders:    NewGormOrderRepository(tx),
			Products:  NewGormProductRepository(tx),
			Clients:   NewGormClientRepository(tx),
			Invoices:  NewGormInvoiceRepository(tx),
			Stock:     NewGormStockRepository(tx),
			Sequences: NewGormSequenceAllocator(tx),
		}
		return fn(ctx, repos)
	})
}

// Ensure the persistence layer satisfies the engine's contracts
var (
	_ apporder.UnitOfWork = (*GormUnitOfWork)(nil)
	_ apporder.Settings   = (*GormSettingsRepository)(nil)
)
