package inventory

import (
	"context"
	"testing"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStockRepository backs the ledger with an in-memory counter per unit
type fakeStockRepository struct {
	counters  map[string]int
	movements []StockMovement
}

func newFakeStockRepository() *fakeStockRepository {
	return &fakeStockRepository{counters: make(map[string]int)}
}

func (r *fakeStockRepository) key(unit StockUnit) string {
	if unit.VariantID != nil {
		return unit.ProductID.String() + "/" + unit.VariantID.String()
	}
	return unit.ProductID.String()
}

func (r *fakeStockRepository) AdjustStock(ctx context.Context, unit StockUnit, delta int) error {
	key := r.key(unit)
	if r.counters[key]+delta < 0 {
		return shared.ErrInsufficientStock
	}
	r.counters[key] += delta
	return nil
}

func (r *fakeStockRepository) AppendMovement(ctx context.Context, movement *StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeStockRepository) FindMovements(ctx context.Context, unit StockUnit, filter shared.Filter) ([]StockMovement, error) {
	var out []StockMovement
	for _, m := range r.movements {
		if r.key(StockUnit{ProductID: m.ProductID, VariantID: m.VariantID}) == r.key(unit) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeStockRepository) CountMovements(ctx context.Context, unit StockUnit) (int64, error) {
	movements, _ := r.FindMovements(ctx, unit, shared.Filter{})
	return int64(len(movements)), nil
}

func TestLedger_Reserve(t *testing.T) {
	repo := newFakeStockRepository()
	unit := ProductUnit(uuid.New())
	repo.counters[repo.key(unit)] = 5
	ledger := NewLedger(repo)
	actorID := uuid.New()

	require.NoError(t, ledger.Reserve(context.Background(), unit, 2, "ORDER:abc", actorID))

	assert.Equal(t, 3, repo.counters[repo.key(unit)])
	require.Len(t, repo.movements, 1)
	assert.Equal(t, MovementOut, repo.movements[0].Direction)
	assert.Equal(t, 2, repo.movements[0].Quantity)
	assert.Equal(t, "ORDER:abc", repo.movements[0].Reference)
	assert.Equal(t, actorID, repo.movements[0].ActorID)
}

func TestLedger_Reserve_InsufficientStock(t *testing.T) {
	repo := newFakeStockRepository()
	unit := ProductUnit(uuid.New())
	repo.counters[repo.key(unit)] = 1
	ledger := NewLedger(repo)

	err := ledger.Reserve(context.Background(), unit, 2, "ORDER:abc", uuid.New())

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	// No counter change, no ledger entry.
	assert.Equal(t, 1, repo.counters[repo.key(unit)])
	assert.Empty(t, repo.movements)
}

func TestLedger_Release(t *testing.T) {
	repo := newFakeStockRepository()
	unit := ProductUnit(uuid.New())
	ledger := NewLedger(repo)

	require.NoError(t, ledger.Release(context.Background(), unit, 4, "ORDER:abc", uuid.New()))

	assert.Equal(t, 4, repo.counters[repo.key(unit)])
	require.Len(t, repo.movements, 1)
	assert.Equal(t, MovementIn, repo.movements[0].Direction)
	assert.Equal(t, 4, repo.movements[0].Quantity)
}

func TestLedger_ZeroQuantityNoOp(t *testing.T) {
	repo := newFakeStockRepository()
	unit := ProductUnit(uuid.New())
	ledger := NewLedger(repo)

	require.NoError(t, ledger.Reserve(context.Background(), unit, 0, "ref", uuid.New()))
	require.NoError(t, ledger.Release(context.Background(), unit, 0, "ref", uuid.New()))
	require.NoError(t, ledger.Apply(context.Background(), unit, 0, "ref", uuid.New()))

	assert.Empty(t, repo.movements)
}

func TestLedger_Apply(t *testing.T) {
	repo := newFakeStockRepository()
	unit := VariantUnit(uuid.New(), uuid.New())
	repo.counters[repo.key(unit)] = 10
	ledger := NewLedger(repo)

	require.NoError(t, ledger.Apply(context.Background(), unit, 3, "ref", uuid.New()))
	assert.Equal(t, 7, repo.counters[repo.key(unit)])
	assert.Equal(t, MovementOut, repo.movements[0].Direction)

	require.NoError(t, ledger.Apply(context.Background(), unit, -2, "ref", uuid.New()))
	assert.Equal(t, 9, repo.counters[repo.key(unit)])
	assert.Equal(t, MovementIn, repo.movements[1].Direction)
	assert.Equal(t, 2, repo.movements[1].Quantity)
}

func TestLedger_VariantUnitRecordsVariant(t *testing.T) {
	repo := newFakeStockRepository()
	productID := uuid.New()
	variantID := uuid.New()
	unit := VariantUnit(productID, variantID)
	repo.counters[repo.key(unit)] = 5
	ledger := NewLedger(repo)

	require.NoError(t, ledger.Reserve(context.Background(), unit, 1, "ref", uuid.New()))

	require.Len(t, repo.movements, 1)
	assert.Equal(t, productID, repo.movements[0].ProductID)
	require.NotNil(t, repo.movements[0].VariantID)
	assert.Equal(t, variantID, *repo.movements[0].VariantID)
}
