package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/catalog"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/domain/partner"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the order lifecycle engine. Every mutation runs inside one
// store transaction obtained from the unit of work: load a consistent
// snapshot, apply stock deltas through the ledger, recompute the total from
// all lines, check credit against the tax-included delta, re-evaluate the
// approval flag, re-align the invoice if one exists and is unlocked, then
// commit. Domain events are published only after the commit and are
// fire-and-forget.
type Service struct {
	uow       UnitOfWork
	settings  Settings
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates the lifecycle engine
func NewService(uow UnitOfWork, settings Settings, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		uow:       uow,
		settings:  settings,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder creates an order in CONFIRMED status, reserving stock for
// every line and incrementing the client balance by the tax-included total.
// Staff may create for another client through input.ForClientID; ownership
// is resolved before any pricing or credit logic runs.
func (s *Service) CreateOrder(ctx context.Context, ident Identity, input CreateOrderInput) (*OrderResponse, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewValidationError("Au moins une ligne est requise")
	}
	actor, err := order.ResolveActor(ident.ID, ident.Role, input.ForClientID)
	if err != nil {
		return nil, err
	}

	var resp *OrderResponse
	var events []shared.DomainEvent

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		client, err := repos.Clients.FindByID(ctx, actor.ClientID)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(actor.ClientID, actor.ActorID, input.DeliveryAddress)
		if err != nil {
			return err
		}

		ledger := inventory.NewLedger(repos.Stock)
		for _, line := range input.Items {
			if err := s.addLine(ctx, repos, o, client, ledger, actor.ActorID, line.ProductID, line.VariantID, line.Quantity); err != nil {
				return err
			}
		}

		taxRate := s.settings.LoadTaxRateOrDefault(ctx)
		if err := s.applyBalanceDelta(ctx, repos, client, ttcAmount(o.Total, taxRate)); err != nil {
			return err
		}

		policy := s.settings.LoadApprovalPolicyOrDefault(ctx)
		o.SetApprovalFlag(order.RequiresApproval(o.Items, policy))

		if number, err := repos.Sequences.NextNumber(ctx, shared.SequenceOrders); err != nil {
			// Numbering never blocks the operation: DisplayNumber falls back
			// to the deterministic legacy format.
			s.logger.Warn("order number allocation failed, using legacy fallback",
				zap.String("order_id", o.ID.String()), zap.Error(err))
		} else {
			o.AssignNumber(number)
		}

		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}

		events = collectEvents(o, client)
		resp = ToOrderResponse(o, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// AddOrderItem adds a single line (or grows an existing one) to an order
func (s *Service) AddOrderItem(ctx context.Context, ident Identity, orderID uuid.UUID, input LineInput) (*OrderResponse, error) {
	return s.mutateItems(ctx, ident, orderID, false,
		func(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger) error {
			return s.addLine(ctx, repos, o, client, ledger, ident.ID, input.ProductID, input.VariantID, input.Quantity)
		})
}

// AddOrderItems adds several lines at once. Bulk additions are confined to
// freshly confirmed orders.
func (s *Service) AddOrderItems(ctx context.Context, ident Identity, orderID uuid.UUID, inputs []LineInput) (*OrderResponse, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("Au moins une ligne est requise")
	}
	return s.mutateItems(ctx, ident, orderID, true,
		func(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger) error {
			for _, line := range inputs {
				if err := s.addLine(ctx, repos, o, client, ledger, ident.ID, line.ProductID, line.VariantID, line.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
}

// AddOrderLines adds lines addressed by an option-value selection, resolved
// server-side to the matching variant.
func (s *Service) AddOrderLines(ctx context.Context, ident Identity, orderID uuid.UUID, inputs []OptionLineInput) (*OrderResponse, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("Au moins une ligne est requise")
	}
	return s.mutateItems(ctx, ident, orderID, true,
		func(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger) error {
			for _, line := range inputs {
				product, err := repos.Products.FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				variant, err := catalog.ResolveVariantBySelection(product, line.Selection)
				if err != nil {
					return err
				}
				variantID := variant.ID
				if err := s.addResolvedLine(ctx, o, client, ledger, ident.ID, product, &variantID, line.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
}

// UpdateOrderItem sets a new absolute quantity for one line. The stock
// ledger moves by the delta against the previous quantity, and the line
// keeps its original price snapshot.
func (s *Service) UpdateOrderItem(ctx context.Context, ident Identity, orderID, itemID uuid.UUID, quantity int) (*OrderResponse, error) {
	return s.UpdateOrderItems(ctx, ident, orderID, []QuantityChange{{ItemID: itemID, Quantity: quantity}})
}

// UpdateOrderItems applies several quantity changes in one transaction
func (s *Service) UpdateOrderItems(ctx context.Context, ident Identity, orderID uuid.UUID, changes []QuantityChange) (*OrderResponse, error) {
	if len(changes) == 0 {
		return nil, shared.NewValidationError("Au moins une modification est requise")
	}
	return s.mutateItems(ctx, ident, orderID, false,
		func(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger) error {
			for _, change := range changes {
				item := o.GetItem(change.ItemID)
				if item == nil {
					return shared.ErrNotFound
				}
				delta := change.Quantity - item.Quantity
				if err := ledger.Apply(ctx, unitForItem(item), delta, stockReference(o), ident.ID); err != nil {
					return err
				}
				if err := o.UpdateItemQuantity(change.ItemID, change.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
}

// CancelOrder cancels an order from CONFIRMED or PREPARED: every reserved
// quantity is released back to stock, the client balance is decremented by
// the order's tax-included total and a non-paid invoice, if one exists, is
// cancelled with its balance reset to zero.
func (s *Service) CancelOrder(ctx context.Context, ident Identity, orderID uuid.UUID) (*OrderResponse, error) {
	var resp *OrderResponse
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.guardOwnership(ident, o); err != nil {
			return err
		}

		invoice, err := s.findInvoice(ctx, repos, o.ID)
		if err != nil {
			return err
		}

		if err := o.Cancel(); err != nil {
			return err
		}
		if invoice != nil {
			if err := invoice.Cancel(); err != nil {
				return err
			}
			if err := repos.Invoices.Save(ctx, invoice); err != nil {
				return err
			}
		}

		ledger := inventory.NewLedger(repos.Stock)
		for idx := range o.Items {
			item := &o.Items[idx]
			if err := ledger.Release(ctx, unitForItem(item), item.Quantity, stockReference(o), ident.ID); err != nil {
				return err
			}
		}

		client, err := repos.Clients.FindByID(ctx, o.ClientID)
		if err != nil {
			return err
		}
		taxRate := s.settings.LoadTaxRateOrDefault(ctx)
		if err := s.applyBalanceDelta(ctx, repos, client, ttcAmount(o.Total, taxRate).Neg()); err != nil {
			return err
		}

		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}

		aggs := []shared.AggregateRoot{o, client}
		if invoice != nil {
			aggs = append(aggs, invoice)
		}
		events = collectEvents(aggs...)
		resp = ToOrderResponse(o, invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// PrepareOrder transitions CONFIRMED -> PREPARED, allocating the delivery
// note number. Admin only.
func (s *Service) PrepareOrder(ctx context.Context, ident Identity, orderID uuid.UUID) (*OrderResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, func(ctx context.Context, repos Repositories, o *order.Order, invoice *billing.Invoice) error {
		if billing.IsInvoiceLocked(invoice) {
			return shared.ErrInvoiceLocked
		}
		number, err := repos.Sequences.NextNumber(ctx, shared.SequenceDeliveryNotes)
		if err != nil {
			s.logger.Warn("delivery note number allocation failed, using legacy fallback",
				zap.String("order_id", o.ID.String()), zap.Error(err))
			number = legacyDocumentNumber("BL", o)
		}
		return o.Prepare(number)
	})
}

// ShipOrder transitions PREPARED -> SHIPPED, recording the delivery agent.
// Admin only.
func (s *Service) ShipOrder(ctx context.Context, ident Identity, orderID uuid.UUID, input ShipInput) (*OrderResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, func(ctx context.Context, repos Repositories, o *order.Order, invoice *billing.Invoice) error {
		if billing.IsInvoiceLocked(invoice) {
			return shared.ErrInvoiceLocked
		}
		shippedAt := time.Now()
		if input.ShippedAt != nil {
			shippedAt = *input.ShippedAt
		}
		return o.Ship(input.AgentName, shippedAt)
	})
}

// DeliverOrder transitions SHIPPED -> DELIVERED with proof of delivery and
// emits the invoice from the order's current total. Admin only.
func (s *Service) DeliverOrder(ctx context.Context, ident Identity, orderID uuid.UUID, input DeliverInput) (*OrderResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	var resp *OrderResponse
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		invoice, err := s.findInvoice(ctx, repos, o.ID)
		if err != nil {
			return err
		}

		deliveredAt := time.Now()
		if input.DeliveredAt != nil {
			deliveredAt = *input.DeliveredAt
		}
		if err := o.Deliver(input.RecipientName, input.ProofNote, deliveredAt); err != nil {
			return err
		}

		// Invoice emission is one-time: the transition gate makes DELIVERED
		// reachable exactly once, the existence check is the safety net.
		if invoice == nil {
			number, err := repos.Sequences.NextNumber(ctx, shared.SequenceInvoices)
			if err != nil {
				s.logger.Warn("invoice number allocation failed, using legacy fallback",
					zap.String("order_id", o.ID.String()), zap.Error(err))
				number = legacyDocumentNumber("FAC", o)
			}
			taxRate := s.settings.LoadTaxRateOrDefault(ctx)
			invoice, err = billing.NewInvoice(o.ID, number, o.Total, taxRate)
			if err != nil {
				return err
			}
			if err := repos.Invoices.Save(ctx, invoice); err != nil {
				return err
			}
		}

		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}

		events = collectEvents(o, invoice)
		resp = ToOrderResponse(o, invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// ApproveOrder clears the pending-approval flag. Admin only.
func (s *Service) ApproveOrder(ctx context.Context, ident Identity, orderID uuid.UUID) (*OrderResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, func(ctx context.Context, repos Repositories, o *order.Order, invoice *billing.Invoice) error {
		return o.Approve()
	})
}

// GetOrder returns the full order view. Clients only see their own orders.
func (s *Service) GetOrder(ctx context.Context, ident Identity, orderID uuid.UUID) (*OrderResponse, error) {
	var resp *OrderResponse
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.guardOwnership(ident, o); err != nil {
			return err
		}
		invoice, err := s.findInvoice(ctx, repos, o.ID)
		if err != nil {
			return err
		}
		resp = ToOrderResponse(o, invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListClientOrders lists orders for a client. Clients list their own;
// staff must name the target client.
func (s *Service) ListClientOrders(ctx context.Context, ident Identity, forClientID *uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	actor, err := order.ResolveActor(ident.ID, ident.Role, forClientID)
	if err != nil {
		return nil, err
	}

	var result *shared.Paginated[OrderResponse]
	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		orders, err := repos.Orders.FindByClient(ctx, actor.ClientID, filter)
		if err != nil {
			return err
		}
		total, err := repos.Orders.CountByClient(ctx, actor.ClientID)
		if err != nil {
			return err
		}
		result = paginateOrders(orders, total, filter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListOrdersByStatus lists orders in a given status. Admin only.
func (s *Service) ListOrdersByStatus(ctx context.Context, ident Identity, status order.OrderStatus, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Statut de commande inconnu")
	}

	var result *shared.Paginated[OrderResponse]
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		orders, err := repos.Orders.FindByStatus(ctx, status, filter)
		if err != nil {
			return err
		}
		total, err := repos.Orders.CountByStatus(ctx, status)
		if err != nil {
			return err
		}
		result = paginateOrders(orders, total, filter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListStockMovements returns the ledger history for a product or one of
// its variants, newest first. Admin only.
func (s *Service) ListStockMovements(ctx context.Context, ident Identity, productID uuid.UUID, variantID *uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	unit := inventory.StockUnit{ProductID: productID, VariantID: variantID}

	var result *shared.Paginated[MovementResponse]
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		movements, err := repos.Stock.FindMovements(ctx, unit, filter)
		if err != nil {
			return err
		}
		total, err := repos.Stock.CountMovements(ctx, unit)
		if err != nil {
			return err
		}
		items := make([]MovementResponse, len(movements))
		for i := range movements {
			items[i] = ToMovementResponse(&movements[i])
		}
		page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListLowStockAlerts returns one alert per product or variant whose live
// counter sits under its alert threshold. Admin only.
func (s *Service) ListLowStockAlerts(ctx context.Context, ident Identity) ([]LowStockAlert, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	var alerts []LowStockAlert
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		products, err := repos.Products.FindBelowMinStock(ctx)
		if err != nil {
			return err
		}
		for idx := range products {
			product := &products[idx]
			if product.BelowMinStock() {
				alerts = append(alerts, LowStockAlert{
					ProductID: product.ID,
					Name:      product.Name,
					SKU:       product.SKU,
					Stock:     product.Stock,
					MinStock:  product.MinStock,
				})
			}
			for vIdx := range product.Variants {
				variant := &product.Variants[vIdx]
				if !variant.BelowMinStock() {
					continue
				}
				variantID := variant.ID
				alerts = append(alerts, LowStockAlert{
					ProductID: product.ID,
					VariantID: &variantID,
					Name:      product.Name,
					SKU:       variant.SKU,
					Stock:     variant.Stock,
					MinStock:  variant.MinStock,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// mutateItems is the shared transactional recipe for every line mutation:
// snapshot, lock guard, status guard, per-line stock deltas, full total
// recomputation, credit check on the tax-included delta, approval
// re-evaluation, guarded invoice recomputation, commit.
func (s *Service) mutateItems(ctx context.Context, ident Identity, orderID uuid.UUID, bulk bool,
	fn func(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger) error,
) (*OrderResponse, error) {
	var resp *OrderResponse
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.guardOwnership(ident, o); err != nil {
			return err
		}

		invoice, err := s.findInvoice(ctx, repos, o.ID)
		if err != nil {
			return err
		}
		if billing.IsInvoiceLocked(invoice) {
			return shared.ErrInvoiceLocked
		}
		if err := guardModifiable(o, invoice, bulk); err != nil {
			return err
		}

		client, err := repos.Clients.FindByID(ctx, o.ClientID)
		if err != nil {
			return err
		}

		prevTotal := o.Total
		ledger := inventory.NewLedger(repos.Stock)
		if err := fn(ctx, repos, o, client, ledger); err != nil {
			return err
		}

		taxRate := s.settings.LoadTaxRateOrDefault(ctx)
		deltaTTC := ttcAmount(o.Total.Sub(prevTotal), taxRate)
		if err := s.applyBalanceDelta(ctx, repos, client, deltaTTC); err != nil {
			return err
		}

		policy := s.settings.LoadApprovalPolicyOrDefault(ctx)
		o.SetApprovalFlag(order.RequiresApproval(o.Items, policy))

		if invoice != nil {
			if err := invoice.RecomputeAmount(o.Total, taxRate); err != nil {
				return err
			}
			if err := repos.Invoices.Save(ctx, invoice); err != nil {
				return err
			}
		}

		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}

		aggs := []shared.AggregateRoot{o, client}
		if invoice != nil {
			aggs = append(aggs, invoice)
		}
		events = collectEvents(aggs...)
		resp = ToOrderResponse(o, invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// transition is the shared wrapper for status moves that touch no amounts
func (s *Service) transition(ctx context.Context, orderID uuid.UUID,
	fn func(ctx context.Context, repos Repositories, o *order.Order, invoice *billing.Invoice) error,
) (*OrderResponse, error) {
	var resp *OrderResponse
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		invoice, err := s.findInvoice(ctx, repos, o.ID)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, o, invoice); err != nil {
			return err
		}
		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}
		events = collectEvents(o)
		resp = ToOrderResponse(o, invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// addLine loads the product, resolves price and stock unit, reserves stock
// and appends (or grows) the order line.
func (s *Service) addLine(ctx context.Context, repos Repositories, o *order.Order, client *partner.Client, ledger *inventory.Ledger, actorID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	product, err := repos.Products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	return s.addResolvedLine(ctx, o, client, ledger, actorID, product, variantID, quantity)
}

func (s *Service) addResolvedLine(ctx context.Context, o *order.Order, client *partner.Client, ledger *inventory.Ledger, actorID uuid.UUID, product *catalog.Product, variantID *uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("La quantité doit être au moins 1")
	}
	line, err := resolveLine(product, variantID, client)
	if err != nil {
		return err
	}
	if err := ledger.Reserve(ctx, line.unit, quantity, stockReference(o), actorID); err != nil {
		return err
	}
	_, err = o.AddItem(product.ID, variantID, line.name, line.sku, quantity, line.price, line.cost)
	return err
}

// applyBalanceDelta runs the credit check and, when it passes, moves the
// balance: on the in-memory aggregate for the domain event, and through the
// store's guarded increment for durability. The repository re-checks the
// ceiling inside the UPDATE, so a concurrent edit that slipped past the
// in-memory check still fails with CREDIT_LIMIT_EXCEEDED.
func (s *Service) applyBalanceDelta(ctx context.Context, repos Repositories, client *partner.Client, deltaTTC decimal.Decimal) error {
	if err := partner.CheckCredit(client, deltaTTC); err != nil {
		return err
	}
	if deltaTTC.IsZero() {
		return nil
	}
	if deltaTTC.IsPositive() {
		client.IncreaseBalance(deltaTTC)
	} else {
		client.DecreaseBalance(deltaTTC.Neg())
	}
	return repos.Clients.AdjustBalance(ctx, client.ID, deltaTTC)
}

// guardOwnership lets staff through and hides foreign orders from clients
func (s *Service) guardOwnership(ident Identity, o *order.Order) error {
	if !ident.Role.IsValid() {
		return shared.ErrForbidden
	}
	actor := order.OrderActor{ActorID: ident.ID, Role: ident.Role, ClientID: o.ClientID}
	if !actor.OwnsOrder(o) {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Service) findInvoice(ctx context.Context, repos Repositories, orderID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := repos.Invoices.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return invoice, nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing domain events failed", zap.Error(err))
	}
}

// guardModifiable gates line mutations on the order status. A delivered
// order stays editable while its invoice is unlocked: step 7 of the recipe
// re-aligns the invoice amount. The lock itself is checked by the caller
// before this guard so locked invoices always surface their own error.
func guardModifiable(o *order.Order, invoice *billing.Invoice, bulk bool) error {
	if bulk {
		if !o.CanAddMultipleLines() {
			return shared.ErrOrderNotModifiable
		}
		return nil
	}
	if o.CanModifyItems() {
		return nil
	}
	if o.IsDelivered() && invoice != nil {
		return nil
	}
	return shared.ErrOrderNotModifiable
}

type resolvedLine struct {
	unit  inventory.StockUnit
	name  string
	sku   string
	price decimal.Decimal
	cost  decimal.Decimal
}

// resolveLine snapshots price and cost for one line. A product that sells
// through variants cannot be ordered directly.
func resolveLine(product *catalog.Product, variantID *uuid.UUID, client *partner.Client) (resolvedLine, error) {
	if variantID != nil {
		variant := product.GetVariant(*variantID)
		if variant == nil {
			return resolvedLine{}, shared.ErrNotFound
		}
		return resolvedLine{
			unit:  inventory.VariantUnit(product.ID, variant.ID),
			name:  product.Name,
			sku:   variant.SKU,
			price: catalog.ResolveVariantPrice(product, variant, client.Segment, client.DiscountRate),
			cost:  variant.EffectiveCost(product),
		}, nil
	}
	if product.HasVariants() {
		return resolvedLine{}, shared.NewDomainError("VARIANT_REQUIRED", "Ce produit se commande par variante")
	}
	return resolvedLine{
		unit:  inventory.ProductUnit(product.ID),
		name:  product.Name,
		sku:   product.SKU,
		price: catalog.ResolveProductPrice(product, client.Segment, client.DiscountRate),
		cost:  product.Cost,
	}, nil
}

func unitForItem(item *order.OrderItem) inventory.StockUnit {
	if item.VariantID != nil {
		return inventory.VariantUnit(item.ProductID, *item.VariantID)
	}
	return inventory.ProductUnit(item.ProductID)
}

func requireAdmin(ident Identity) error {
	if ident.Role != order.RoleAdmin {
		return shared.ErrForbidden
	}
	return nil
}

// ttcAmount converts a tax-excluded amount to tax-included at the given
// percentage rate, rounded to the cent.
func ttcAmount(amountHT, taxRate decimal.Decimal) decimal.Decimal {
	return valueobject.NewMoney(amountHT).ApplyVAT(taxRate).Round(2).Amount()
}

func stockReference(o *order.Order) string {
	return "ORDER:" + o.ID.String()
}

// legacyDocumentNumber derives the deterministic fallback document number
// from the order's own id and creation date.
func legacyDocumentNumber(prefix string, o *order.Order) string {
	return fmt.Sprintf("%s-%s-%s", prefix, o.CreatedAt.Format("20060102"),
		strings.ToUpper(strings.ReplaceAll(o.ID.String(), "-", ""))[:8])
}

func collectEvents(aggregates ...shared.AggregateRoot) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	return events
}

func paginateOrders(orders []order.Order, total int64, filter shared.Filter) *shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, len(orders))
	for idx := range orders {
		items[idx] = *ToOrderResponse(&orders[idx], nil)
	}
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(items)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	result := shared.NewPaginated(items, total, page, pageSize)
	return &result
}
