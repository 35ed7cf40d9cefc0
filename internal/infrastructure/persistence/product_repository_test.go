package persistence

import (
	"context"
	"testing"

	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createCatalogProduct(t *testing.T, db *gorm.DB, name, sku string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, sku, decimal.NewFromInt(80), decimal.NewFromInt(45))
	require.NoError(t, err)
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestProductRepository_FindBySKU(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	created := createCatalogProduct(t, db, "Sérum éclat", "SER-001")
	createStockVariant(t, db, created.ID, 4)

	found, err := repo.FindBySKU(ctx, "SER-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Len(t, found.Variants, 1)

	_, err = repo.FindBySKU(ctx, "SER-999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductRepository_SKUExists_UnionOfProductsAndVariants(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	product := createCatalogProduct(t, db, "Gel douche", "GEL-001")
	variant := createStockVariant(t, db, product.ID, 3)

	taken, err := repo.SKUExists(ctx, "GEL-001", uuid.New())
	require.NoError(t, err)
	assert.True(t, taken)

	// A variant SKU blocks the union too.
	taken, err = repo.SKUExists(ctx, variant.SKU, uuid.New())
	require.NoError(t, err)
	assert.True(t, taken)

	// A row never conflicts with itself.
	taken, err = repo.SKUExists(ctx, "GEL-001", product.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.SKUExists(ctx, "GEL-777", uuid.New())
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestProductRepository_Save_RejectsTakenSKU(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	existing := createCatalogProduct(t, db, "Shampooing doux", "SHP-001")
	variant := createStockVariant(t, db, existing.ID, 2)

	duplicate, err := catalog.NewProduct("Shampooing copie", "SHP-001", decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	err = repo.Save(ctx, duplicate)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ALREADY_EXISTS", de.Code)

	// A new product reusing a variant SKU is rejected the same way: the
	// per-table indexes cannot see this collision, the repository must.
	crossTable, err := catalog.NewProduct("Autre gamme", variant.SKU, decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	err = repo.Save(ctx, crossTable)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ALREADY_EXISTS", de.Code)

	// Re-saving the existing product under its own SKU stays allowed.
	existing.Name = "Shampooing doux 250ml"
	require.NoError(t, repo.Save(ctx, existing))
}

func TestProductRepository_FindBelowMinStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	low := createCatalogProduct(t, db, "Crème mains", "CRM-001")
	low.MinStock = 5
	low.Stock = 2
	require.NoError(t, db.Save(low).Error)

	healthy := createCatalogProduct(t, db, "Baume lèvres", "BLM-001")
	healthy.MinStock = 5
	healthy.Stock = 9
	require.NoError(t, db.Save(healthy).Error)

	// Healthy product whose variant is depleted must surface as well.
	parent := createCatalogProduct(t, db, "Fond de teint", "FDT-001")
	depleted := createStockVariant(t, db, parent.ID, 1)
	depleted.MinStock = 3
	require.NoError(t, db.Save(depleted).Error)

	// No threshold configured means no alert, whatever the counter says.
	unwatched := createCatalogProduct(t, db, "Échantillon", "ECH-001")
	unwatched.Stock = 0
	require.NoError(t, db.Save(unwatched).Error)

	products, err := repo.FindBelowMinStock(ctx)
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	assert.ElementsMatch(t, []uuid.UUID{low.ID, parent.ID}, ids)

	for i := range products {
		if products[i].ID == parent.ID {
			require.Len(t, products[i].Variants, 1)
			assert.True(t, products[i].Variants[0].BelowMinStock())
			assert.Equal(t, depleted.ID, products[i].Variants[0].ID)
		}
	}
}
