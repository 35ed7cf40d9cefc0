package order

import (
	"context"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders.
// FindByID loads the order items; the invoice lives in billing and is
// fetched by the engine through its own repository within the same
// transaction.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)
	Save(ctx context.Context, o *Order) error
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
}
