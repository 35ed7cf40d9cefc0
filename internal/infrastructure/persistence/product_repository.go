package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its variants, options and option values
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.OptionValues").
		Preload("Options").
		Preload("Options.Values").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products with filtering and pagination
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Preload("Variants"), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBelowMinStock finds products whose live counter is under the alert
// threshold, including products healthy themselves but with a depleted
// variant. Variants are loaded so the caller can tell which line is low.
func (r *GormProductRepository) FindBelowMinStock(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("(min_stock > 0 AND stock < min_stock) OR id IN (?)",
			r.db.Model(&catalog.Variant{}).Select("product_id").
				Where("min_stock > 0 AND stock < min_stock")).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product and its variants. SKUs are unique
// across the union of products and variants; the per-table unique indexes
// cannot see across tables, so the union is enforced here before writing.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &GormProductRepository{db: tx}
		seen := map[string]bool{product.SKU: true}
		if taken, err := repo.SKUExists(ctx, product.SKU, product.ID); err != nil {
			return err
		} else if taken {
			return shared.NewDomainError("ALREADY_EXISTS", "La référence "+product.SKU+" est déjà utilisée")
		}
		for i := range product.Variants {
			variant := &product.Variants[i]
			if seen[variant.SKU] {
				return shared.NewDomainError("ALREADY_EXISTS", "La référence "+variant.SKU+" est déjà utilisée")
			}
			seen[variant.SKU] = true
			if taken, err := repo.SKUExists(ctx, variant.SKU, variant.ID); err != nil {
				return err
			} else if taken {
				return shared.NewDomainError("ALREADY_EXISTS", "La référence "+variant.SKU+" est déjà utilisée")
			}
		}

		if err := tx.Omit("Variants", "Options").Save(product).Error; err != nil {
			return err
		}
		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
			if err := tx.Omit("OptionValues").Save(&product.Variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a product and its variants
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.Variant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SKUExists checks SKU uniqueness across the union of products and variants
func (r *GormProductRepository) SKUExists(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&catalog.Variant{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
