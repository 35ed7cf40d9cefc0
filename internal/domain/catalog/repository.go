package catalog

import (
	"context"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products.
// FindByID loads variants, options and option values so that variant
// resolution and pricing can run on the aggregate alone.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindBelowMinStock returns products carrying a low-stock line, either
	// their own counter or one of their variants', with variants loaded.
	FindBelowMinStock(ctx context.Context) ([]Product, error)

	// Save persists the product and its variants, rejecting with
	// ALREADY_EXISTS any SKU already taken across the union of products
	// and variants.
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SKUExists checks uniqueness across the union of products and variants.
	SKUExists(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
}
