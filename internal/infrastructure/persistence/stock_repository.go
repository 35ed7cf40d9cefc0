package persistence

import (
	"context"
	"strings"

	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository implements inventory.StockRepository using GORM.
// Counters live on the catalog tables; movements in stock_movements.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// AdjustStock applies delta to the unit's counter in a single guarded UPDATE.
// The WHERE clause rejects any decrement that would drive the counter below
// zero, so concurrent decrements cannot oversell.
func (r *GormStockRepository) AdjustStock(ctx context.Context, unit inventory.StockUnit, delta int) error {
	if delta == 0 {
		return nil
	}

	var result *gorm.DB
	if unit.VariantID != nil {
		result = r.db.WithContext(ctx).Model(&catalog.Variant{}).
			Where("id = ? AND product_id = ? AND stock + ? >= 0", *unit.VariantID, unit.ProductID, delta).
			UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	} else {
		result = r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ? AND stock + ? >= 0", unit.ProductID, delta).
			UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta < 0 {
			if exists, err := r.unitExists(ctx, unit); err != nil {
				return err
			} else if exists {
				return shared.ErrInsufficientStock
			}
		}
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormStockRepository) unitExists(ctx context.Context, unit inventory.StockUnit) (bool, error) {
	var count int64
	var err error
	if unit.VariantID != nil {
		err = r.db.WithContext(ctx).Model(&catalog.Variant{}).
			Where("id = ? AND product_id = ?", *unit.VariantID, unit.ProductID).
			Count(&count).Error
	} else {
		err = r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ?", unit.ProductID).
			Count(&count).Error
	}
	return count > 0, err
}

// AppendMovement appends a ledger entry. Entries are never updated afterwards.
func (r *GormStockRepository) AppendMovement(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindMovements lists ledger entries for a unit, newest first by default
func (r *GormStockRepository) FindMovements(ctx context.Context, unit inventory.StockUnit, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.unitQuery(ctx, unit)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountMovements counts ledger entries for a unit
func (r *GormStockRepository) CountMovements(ctx context.Context, unit inventory.StockUnit) (int64, error) {
	var count int64
	if err := r.unitQuery(ctx, unit).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockRepository) unitQuery(ctx context.Context, unit inventory.StockUnit) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("product_id = ?", unit.ProductID)
	if unit.VariantID != nil {
		query = query.Where("variant_id = ?", *unit.VariantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	return query
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)
