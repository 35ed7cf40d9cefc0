package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for invoices.
// FindByOrderID loads payments so the lock guard and balance recomputation
// can run on the aggregate alone.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
}
