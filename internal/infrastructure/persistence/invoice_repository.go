package persistence

import (
	"context"
	"errors"

	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByOrderID finds the invoice attached to an order, payments included
func (r *GormInvoiceRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&inv, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Save persists the invoice and reconciles its payments
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Payments").Save(inv).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(inv.Payments))
		for i, p := range inv.Payments {
			currentIDs[i] = p.ID
		}

		if len(currentIDs) > 0 {
			if err := tx.Where("invoice_id = ? AND id NOT IN ?", inv.ID, currentIDs).
				Delete(&billing.Payment{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("invoice_id = ?", inv.ID).
				Delete(&billing.Payment{}).Error; err != nil {
				return err
			}
		}

		for i := range inv.Payments {
			inv.Payments[i].InvoiceID = inv.ID
			if err := tx.Save(&inv.Payments[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
