package order

import (
	"context"

	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/domain/partner"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repositories bundles the repositories a lifecycle mutation works with.
// Every member is scoped to the same store transaction, so a read inside
// the unit of work sees a consistent snapshot and a failed step rolls back
// everything written before it.
type Repositories struct {
	Orders    order.OrderRepository
	Products  catalog.ProductRepository
	Clients   partner.ClientRepository
	Invoices  billing.InvoiceRepository
	Stock     inventory.StockRepository
	Sequences shared.SequenceAllocator
}

// UnitOfWork runs a function inside one store transaction. The function
// receives transaction-scoped repositories; returning an error rolls the
// whole transaction back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Settings exposes the operator-tunable policy knobs the engine consults on
// every mutation. Loaders never fail: on any storage trouble they log and
// return the documented defaults.
type Settings interface {
	LoadApprovalPolicyOrDefault(ctx context.Context) order.ApprovalPolicy
	LoadTaxRateOrDefault(ctx context.Context) decimal.Decimal
}
