package order

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the order context
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeOrderDelivered     = "order.delivered"
	EventTypeOrderCancelled     = "order.cancelled"
	EventTypeOrderApproved      = "order.approved"
	EventTypeOrderItemsChanged  = "order.items_changed"
)

// OrderCreatedEvent is emitted when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID       `json:"client_id"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates a new order created event
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, o.ID, "Order"),
		ClientID:        o.ClientID,
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent is emitted on every lifecycle transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	From OrderStatus `json:"from"`
	To   OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new status changed event
func NewOrderStatusChangedEvent(o *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, o.ID, "Order"),
		From:            from,
		To:              to,
	}
}

// OrderDeliveredEvent is emitted when the order reaches DELIVERED; the
// email side-channel notifies the client from it.
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	ClientID      uuid.UUID `json:"client_id"`
	RecipientName string    `json:"recipient_name"`
}

// NewOrderDeliveredEvent creates a new delivered event
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, o.ID, "Order"),
		ClientID:        o.ClientID,
		RecipientName:   o.RecipientName,
	}
}

// OrderCancelledEvent is emitted on cancellation, with the status it left
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID       `json:"client_id"`
	From     OrderStatus     `json:"from"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderCancelledEvent creates a new cancelled event
func NewOrderCancelledEvent(o *Order, from OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, o.ID, "Order"),
		ClientID:        o.ClientID,
		From:            from,
		Total:           o.Total,
	}
}

// OrderApprovedEvent is emitted when an administrator clears the approval flag
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
}

// NewOrderApprovedEvent creates a new approved event
func NewOrderApprovedEvent(o *Order) *OrderApprovedEvent {
	return &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderApproved, o.ID, "Order"),
		ClientID:        o.ClientID,
	}
}

// OrderItemsChangedEvent is emitted after any line mutation; the cache
// invalidation hook consumes it.
type OrderItemsChangedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID       `json:"client_id"`
	NewTotal decimal.Decimal `json:"new_total"`
}

// NewOrderItemsChangedEvent creates a new items changed event
func NewOrderItemsChangedEvent(o *Order) *OrderItemsChangedEvent {
	return &OrderItemsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemsChanged, o.ID, "Order"),
		ClientID:        o.ClientID,
		NewTotal:        o.Total,
	}
}
