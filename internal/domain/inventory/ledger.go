package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Ledger is the only legitimate path to change a stock counter. Reserve and
// Release pair the counter update with its ledger entry inside the caller's
// transaction, so a crash can never separate the two.
type Ledger struct {
	repo StockRepository
}

// NewLedger creates a ledger over a (transaction-scoped) stock repository
func NewLedger(repo StockRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Reserve takes qty units out of stock and records an OUT movement.
// Fails with INSUFFICIENT_STOCK when qty exceeds the current counter.
// A zero qty is a no-op and writes no ledger entry.
func (l *Ledger) Reserve(ctx context.Context, unit StockUnit, qty int, reference string, actorID uuid.UUID) error {
	if qty == 0 {
		return nil
	}

	if err := l.repo.AdjustStock(ctx, unit, -qty); err != nil {
		return err
	}

	movement, err := NewStockMovement(unit.ProductID, unit.VariantID, MovementOut, qty, reference, actorID)
	if err != nil {
		return err
	}
	return l.repo.AppendMovement(ctx, movement)
}

// Release puts qty units back into stock and records an IN movement.
// A zero qty is a no-op and writes no ledger entry.
func (l *Ledger) Release(ctx context.Context, unit StockUnit, qty int, reference string, actorID uuid.UUID) error {
	if qty == 0 {
		return nil
	}

	if err := l.repo.AdjustStock(ctx, unit, qty); err != nil {
		return err
	}

	movement, err := NewStockMovement(unit.ProductID, unit.VariantID, MovementIn, qty, reference, actorID)
	if err != nil {
		return err
	}
	return l.repo.AppendMovement(ctx, movement)
}

// Apply reserves or releases depending on the sign of delta. Order edits
// work in deltas against the previous quantity, not absolute values.
func (l *Ledger) Apply(ctx context.Context, unit StockUnit, delta int, reference string, actorID uuid.UUID) error {
	switch {
	case delta > 0:
		return l.Reserve(ctx, unit, delta, reference, actorID)
	case delta < 0:
		return l.Release(ctx, unit, -delta, reference, actorID)
	}
	return nil
}
