package persistence

import (
	"context"
	"testing"

	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createStockProduct(t *testing.T, db *gorm.DB, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Fond de teint", "SKU-"+uuid.NewString()[:8], decimal.NewFromInt(100), decimal.NewFromInt(60))
	require.NoError(t, err)
	product.Stock = stock
	require.NoError(t, db.Create(product).Error)
	return product
}

func createStockVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, stock int) *catalog.Variant {
	t.Helper()
	variant, err := catalog.NewVariant(productID, "SKU-"+uuid.NewString()[:8], decimal.NewFromInt(55))
	require.NoError(t, err)
	variant.Stock = stock
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func TestGormStockRepository_AdjustStock_Product(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	ctx := context.Background()
	product := createStockProduct(t, db, 5)
	unit := inventory.ProductUnit(product.ID)

	require.NoError(t, repo.AdjustStock(ctx, unit, -3))

	var reloaded catalog.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestGormStockRepository_AdjustStock_GuardedDecrement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	ctx := context.Background()
	product := createStockProduct(t, db, 2)
	unit := inventory.ProductUnit(product.ID)

	err := repo.AdjustStock(ctx, unit, -3)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	// Counter untouched on a rejected decrement.
	var reloaded catalog.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestGormStockRepository_AdjustStock_UnknownUnit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)

	err := repo.AdjustStock(context.Background(), inventory.ProductUnit(uuid.New()), -1)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.AdjustStock(context.Background(), inventory.ProductUnit(uuid.New()), 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockRepository_AdjustStock_Variant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	ctx := context.Background()
	product := createStockProduct(t, db, 0)
	variant := createStockVariant(t, db, product.ID, 4)
	unit := inventory.VariantUnit(product.ID, variant.ID)

	require.NoError(t, repo.AdjustStock(ctx, unit, -4))
	assert.ErrorIs(t, repo.AdjustStock(ctx, unit, -1), shared.ErrInsufficientStock)

	require.NoError(t, repo.AdjustStock(ctx, unit, 2))
	var reloaded catalog.Variant
	require.NoError(t, db.First(&reloaded, "id = ?", variant.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestGormStockRepository_AdjustStock_VariantWrongProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	product := createStockProduct(t, db, 0)
	variant := createStockVariant(t, db, product.ID, 4)

	// Variant addressed under another product does not match.
	err := repo.AdjustStock(context.Background(), inventory.VariantUnit(uuid.New(), variant.ID), -1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockRepository_AdjustStock_ZeroDelta(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)

	// Zero delta is a no-op even for an unknown unit.
	assert.NoError(t, repo.AdjustStock(context.Background(), inventory.ProductUnit(uuid.New()), 0))
}

func TestGormStockRepository_Movements(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	ctx := context.Background()
	product := createStockProduct(t, db, 10)
	variant := createStockVariant(t, db, product.ID, 5)
	actorID := uuid.New()

	productMove, err := inventory.NewStockMovement(product.ID, nil, inventory.MovementOut, 3, "ORDER:1", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.AppendMovement(ctx, productMove))

	variantMove, err := inventory.NewStockMovement(product.ID, &variant.ID, inventory.MovementIn, 2, "ORDER:2", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.AppendMovement(ctx, variantMove))

	// Product-level query only sees movements with no variant.
	movements, err := repo.FindMovements(ctx, inventory.ProductUnit(product.ID), shared.Filter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementOut, movements[0].Direction)
	assert.Equal(t, "ORDER:1", movements[0].Reference)

	movements, err = repo.FindMovements(ctx, inventory.VariantUnit(product.ID, variant.ID), shared.Filter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementIn, movements[0].Direction)

	count, err := repo.CountMovements(ctx, inventory.ProductUnit(product.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormStockRepository_FindMovements_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRepository(db)
	ctx := context.Background()
	product := createStockProduct(t, db, 10)
	actorID := uuid.New()

	for i := 0; i < 3; i++ {
		move, err := inventory.NewStockMovement(product.ID, nil, inventory.MovementOut, 1, "ORDER:x", actorID)
		require.NoError(t, err)
		require.NoError(t, repo.AppendMovement(ctx, move))
	}

	movements, err := repo.FindMovements(ctx, inventory.ProductUnit(product.ID), shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	movements, err = repo.FindMovements(ctx, inventory.ProductUnit(product.ID), shared.Filter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}
