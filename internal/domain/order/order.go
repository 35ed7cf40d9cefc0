package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPrepared  OrderStatus = "PREPARED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusPrepared, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo is the single transition table consulted by both the
// command layer and the read-side gating, so the two never drift.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusConfirmed:
		return target == OrderStatusPrepared || target == OrderStatusCancelled
	case OrderStatusPrepared:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for DELIVERED and CANCELLED
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem is a line of an order. Prices are captured at mutation time
// (priceAtTime/costAtTime) and never recomputed retroactively from the
// catalogue; quantity edits keep the original snapshot.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID   *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostAtTime  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity x priceAtTime (tax excluded)
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost returns quantity x costAtTime
func (i *OrderItem) LineCost() decimal.Decimal {
	return i.CostAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root of the order-to-cash lifecycle. Every mutation
// runs inside one store transaction orchestrated by the lifecycle engine;
// the aggregate itself only enforces what it can see (status table, totals,
// line shape) and leaves stock, credit and invoice coupling to the engine.
type Order struct {
	shared.BaseAggregateRoot
	ClientID              uuid.UUID   `gorm:"type:uuid;not null;index"`
	CreatedBy             uuid.UUID   `gorm:"type:uuid;not null"`
	Number                *string     `gorm:"type:varchar(50);uniqueIndex"`
	Status                OrderStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	Total                 decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RequiresAdminApproval bool            `gorm:"not null;default:false"`

	DeliveryAddress    string  `gorm:"type:text"`
	DeliveryNoteNumber *string `gorm:"type:varchar(50)"`
	DeliveryAgent      string  `gorm:"type:varchar(200)"`
	RecipientName      string  `gorm:"type:varchar(200)"`
	ProofNote          string  `gorm:"type:text"`
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order for a client, in CONFIRMED status.
// createdBy records the acting user, which differs from the client when an
// administrator orders on a client's behalf.
func NewOrder(clientID, createdBy uuid.UUID, deliveryAddress string) (*Order, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("Client obligatoire")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("Utilisateur obligatoire")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		CreatedBy:         createdBy,
		Status:            OrderStatusConfirmed,
		Total:             decimal.Zero,
		DeliveryAddress:   deliveryAddress,
		Items:             make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// DisplayNumber returns the assigned sequential number, falling back to the
// deterministic legacy format derived from the order's own id and creation
// date when numbering infrastructure was unavailable at creation.
func (o *Order) DisplayNumber() string {
	if o.Number != nil && *o.Number != "" {
		return *o.Number
	}
	return fmt.Sprintf("CMD-%s-%s", o.CreatedAt.Format("20060102"),
		strings.ToUpper(strings.ReplaceAll(o.ID.String(), "-", "")[:8]))
}

// AssignNumber sets the sequential display number once
func (o *Order) AssignNumber(number string) {
	if o.Number == nil || *o.Number == "" {
		o.Number = &number
		o.UpdatedAt = time.Now()
	}
}

// AddItem appends a line with its price and cost snapshots. When a line for
// the same product/variant already exists its quantity grows instead, the
// original snapshot kept.
func (o *Order) AddItem(productID uuid.UUID, variantID *uuid.UUID, productName, sku string, quantity int, priceAtTime, costAtTime decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Produit obligatoire")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("La quantité doit être au moins 1")
	}
	if priceAtTime.IsNegative() {
		return nil, shared.NewValidationError("Le prix ne peut pas être négatif")
	}

	if existing := o.FindItemByUnit(productID, variantID); existing != nil {
		existing.Quantity += quantity
		existing.UpdatedAt = time.Now()
		o.RecalculateTotal()
		return existing, nil
	}

	item := OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		PriceAtTime: priceAtTime,
		CostAtTime:  costAtTime,
	}
	o.Items = append(o.Items, item)
	o.RecalculateTotal()

	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes a line's quantity, keeping the price snapshot
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("La quantité doit être au moins 1")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].Quantity = quantity
			o.Items[idx].UpdatedAt = time.Now()
			o.RecalculateTotal()
			return nil
		}
	}

	return shared.ErrNotFound
}

// GetItem returns an item by its ID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// FindItemByUnit returns the line for a product/variant pair, or nil
func (o *Order) FindItemByUnit(productID uuid.UUID, variantID *uuid.UUID) *OrderItem {
	for idx := range o.Items {
		item := &o.Items[idx]
		if item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if item.VariantID == nil || *item.VariantID == *variantID {
			return item
		}
	}
	return nil
}

// RecalculateTotal recomputes the total from all lines, never incrementally,
// so edits cannot drift from the sum invariant.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].LineTotal())
	}
	o.Total = total
	o.UpdatedAt = time.Now()
}

// SetApprovalFlag records the margin evaluator's verdict
func (o *Order) SetApprovalFlag(requires bool) {
	if o.RequiresAdminApproval != requires {
		o.RequiresAdminApproval = requires
		o.UpdatedAt = time.Now()
	}
}

// Approve clears the pending-approval flag (admin action)
func (o *Order) Approve() error {
	if !o.RequiresAdminApproval {
		return shared.NewDomainError("ORDER_NOT_PENDING_APPROVAL", "Cette commande n'est pas en attente de validation")
	}
	o.RequiresAdminApproval = false
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderApprovedEvent(o))
	return nil
}

// Prepare transitions CONFIRMED -> PREPARED and assigns the delivery note
// number if absent. The engine checks the invoice lock before calling.
func (o *Order) Prepare(deliveryNoteNumber string) error {
	if !o.Status.CanTransitionTo(OrderStatusPrepared) {
		return shared.NewDomainError("ORDER_TRANSITION_ERROR",
			fmt.Sprintf("Passage en préparation impossible depuis l'état %s", o.Status))
	}
	if o.RequiresAdminApproval {
		return shared.NewDomainError("ORDER_PENDING_APPROVAL", "Cette commande attend une validation administrateur")
	}

	if o.DeliveryNoteNumber == nil || *o.DeliveryNoteNumber == "" {
		o.DeliveryNoteNumber = &deliveryNoteNumber
	}
	o.Status = OrderStatusPrepared
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusConfirmed, OrderStatusPrepared))

	return nil
}

// Ship transitions PREPARED -> SHIPPED, recording agent and timestamp
func (o *Order) Ship(agentName string, shippedAt time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("ORDER_TRANSITION_ERROR",
			fmt.Sprintf("Expédition impossible depuis l'état %s", o.Status))
	}
	if o.RequiresAdminApproval {
		return shared.NewDomainError("ORDER_PENDING_APPROVAL", "Cette commande attend une validation administrateur")
	}
	if agentName == "" {
		return shared.NewValidationError("Le nom du livreur est obligatoire")
	}

	if shippedAt.IsZero() {
		shippedAt = time.Now()
	}
	o.DeliveryAgent = agentName
	o.ShippedAt = &shippedAt
	o.Status = OrderStatusShipped
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusPrepared, OrderStatusShipped))

	return nil
}

// Deliver transitions SHIPPED -> DELIVERED with proof of delivery.
// Invoice emission is triggered by the engine on this transition.
func (o *Order) Deliver(recipientName, proofNote string, deliveredAt time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("ORDER_TRANSITION_ERROR",
			fmt.Sprintf("Livraison impossible depuis l'état %s", o.Status))
	}
	if recipientName == "" {
		return shared.NewValidationError("Le nom du destinataire est obligatoire")
	}

	if deliveredAt.IsZero() {
		deliveredAt = time.Now()
	}
	o.RecipientName = recipientName
	o.ProofNote = proofNote
	o.DeliveredAt = &deliveredAt
	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel transitions CONFIRMED/PREPARED -> CANCELLED. Stock release, balance
// decrement and invoice cancellation are the engine's side of the move.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("ORDER_TRANSITION_ERROR",
			fmt.Sprintf("Annulation impossible depuis l'état %s", o.Status))
	}

	from := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, from))

	return nil
}

// CanModifyItems reports whether single-line edits (quantity change, add one
// item) are allowed for the current status.
func (o *Order) CanModifyItems() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusPrepared
}

// CanAddMultipleLines reports whether bulk line additions are allowed.
// Bulk additions are confined to freshly confirmed orders.
func (o *Order) CanAddMultipleLines() bool {
	return o.Status == OrderStatusConfirmed
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsDelivered returns true if the order is delivered
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}
