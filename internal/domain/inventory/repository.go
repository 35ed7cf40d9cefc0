package inventory

import (
	"context"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockUnit identifies the counter a movement applies to: a product sold
// directly, or one of its variants.
type StockUnit struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
}

// ProductUnit builds a StockUnit for a product sold without variants
func ProductUnit(productID uuid.UUID) StockUnit {
	return StockUnit{ProductID: productID}
}

// VariantUnit builds a StockUnit for a specific variant
func VariantUnit(productID, variantID uuid.UUID) StockUnit {
	return StockUnit{ProductID: productID, VariantID: &variantID}
}

// StockRepository is the persistence contract the ledger runs on. Both
// methods must execute on the same transaction handle as the order mutation
// that triggered them; the guarded decrement relies on the store's row-level
// read-modify-write atomicity rather than application-side checks.
type StockRepository interface {
	// AdjustStock atomically applies delta to the unit's counter. A negative
	// delta is guarded: it fails with shared.ErrInsufficientStock when the
	// counter would go below zero.
	AdjustStock(ctx context.Context, unit StockUnit, delta int) error

	// AppendMovement appends an immutable ledger entry.
	AppendMovement(ctx context.Context, movement *StockMovement) error

	FindMovements(ctx context.Context, unit StockUnit, filter shared.Filter) ([]StockMovement, error)
	CountMovements(ctx context.Context, unit StockUnit) (int64, error)
}
