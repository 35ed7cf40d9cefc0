package partner

import (
	"context"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// AdjustBalance atomically applies a tax-included delta to the stored
	// balance counter, relying on the store's row-level increment rather
	// than read-compute-write in application code. Implementations must
	// refuse a positive delta that would push the balance past the credit
	// limit, returning CREDIT_LIMIT_EXCEEDED, so the ceiling holds even
	// when two transactions race on the same client.
	AdjustBalance(ctx context.Context, id uuid.UUID, deltaTTC decimal.Decimal) error
}
