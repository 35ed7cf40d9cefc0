package persistence

import (
	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted model,
// including the sequences counter table the allocator relies on.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Product{},
		&catalog.Variant{},
		&catalog.Option{},
		&catalog.OptionValue{},
		&partner.Client{},
		&order.Order{},
		&order.OrderItem{},
		&billing.Invoice{},
		&billing.Payment{},
		&inventory.StockMovement{},
		&SequenceCounter{},
		&AppSetting{},
	)
}
