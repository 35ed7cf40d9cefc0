package order

import (
	"time"

	"github.com/distriflow/backend/internal/domain/billing"
	"github.com/distriflow/backend/internal/domain/inventory"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Identity is the caller as asserted by the session token
type Identity struct {
	ID   uuid.UUID
	Role order.Role
}

// LineInput is one order line addressed by product (and optionally variant)
type LineInput struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// OptionLineInput is one order line addressed by product and an option-value
// selection resolved to a variant server-side
type OptionLineInput struct {
	ProductID uuid.UUID         `json:"product_id" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
	Selection map[string]string `json:"selection" binding:"required"`
}

// CreateOrderInput creates an order, optionally on behalf of another client
type CreateOrderInput struct {
	Items           []LineInput `json:"items" binding:"required,min=1,dive"`
	ForClientID     *uuid.UUID  `json:"for_client_id"`
	DeliveryAddress string      `json:"delivery_address"`
}

// QuantityChange sets a new absolute quantity for one existing line
type QuantityChange struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// ShipInput carries the delivery agent handover details
type ShipInput struct {
	AgentName string     `json:"agent_name" binding:"required"`
	ShippedAt *time.Time `json:"shipped_at"`
}

// DeliverInput carries the proof-of-delivery details
type DeliverInput struct {
	RecipientName string     `json:"recipient_name" binding:"required"`
	ProofNote     string     `json:"proof_note"`
	DeliveredAt   *time.Time `json:"delivered_at"`
}

// ItemResponse is one order line in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the invoice summary attached to an order response
type InvoiceResponse struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	AmountTTC  decimal.Decimal `json:"amount_ttc"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Locked     bool            `json:"locked"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// OrderResponse is the full order view, including the read-side action
// predicates derived from the same transition table the command layer
// enforces, so UI gating and server checks never drift.
type OrderResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Number                string          `json:"number"`
	ClientID              uuid.UUID       `json:"client_id"`
	Status                string          `json:"status"`
	Total                 decimal.Decimal `json:"total"`
	RequiresAdminApproval bool            `json:"requires_admin_approval"`
	DeliveryAddress       string          `json:"delivery_address,omitempty"`
	DeliveryNoteNumber    string          `json:"delivery_note_number,omitempty"`
	DeliveryAgent         string          `json:"delivery_agent,omitempty"`
	RecipientName         string          `json:"recipient_name,omitempty"`
	ShippedAt             *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt           *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt           *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`

	CanModifyItems bool `json:"can_modify_items"`
	CanPrepare     bool `json:"can_prepare"`
	CanShip        bool `json:"can_ship"`
	CanDeliver     bool `json:"can_deliver"`
	CanCancel      bool `json:"can_cancel"`

	Items   []ItemResponse   `json:"items"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// ToOrderResponse builds the order view. invoice may be nil when not yet
// emitted.
func ToOrderResponse(o *order.Order, invoice *billing.Invoice) *OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for idx := range o.Items {
		item := &o.Items[idx]
		items[idx] = ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtTime,
			LineTotal:   item.LineTotal(),
		}
	}

	resp := &OrderResponse{
		ID:                    o.ID,
		Number:                o.DisplayNumber(),
		ClientID:              o.ClientID,
		Status:                o.Status.String(),
		Total:                 o.Total,
		RequiresAdminApproval: o.RequiresAdminApproval,
		DeliveryAddress:       o.DeliveryAddress,
		DeliveryAgent:         o.DeliveryAgent,
		RecipientName:         o.RecipientName,
		ShippedAt:             o.ShippedAt,
		DeliveredAt:           o.DeliveredAt,
		CancelledAt:           o.CancelledAt,
		CreatedAt:             o.CreatedAt,
		Items:                 items,
	}
	if o.DeliveryNoteNumber != nil {
		resp.DeliveryNoteNumber = *o.DeliveryNoteNumber
	}

	locked := billing.IsInvoiceLocked(invoice)
	resp.CanModifyItems = o.CanModifyItems() && !locked
	resp.CanPrepare = o.Status.CanTransitionTo(order.OrderStatusPrepared) && !o.RequiresAdminApproval && !locked
	resp.CanShip = o.Status.CanTransitionTo(order.OrderStatusShipped) && !o.RequiresAdminApproval && !locked
	resp.CanDeliver = o.Status.CanTransitionTo(order.OrderStatusDelivered)
	resp.CanCancel = o.Status.CanTransitionTo(order.OrderStatusCancelled) &&
		(invoice == nil || invoice.Status != billing.InvoiceStatusPaid)

	if invoice != nil {
		resp.Invoice = &InvoiceResponse{
			ID:         invoice.ID,
			Number:     invoice.Number,
			Amount:     invoice.Amount,
			AmountTTC:  invoice.AmountTTC,
			Balance:    invoice.Balance,
			Status:     invoice.Status.String(),
			AmountPaid: invoice.AmountPaid(),
			Locked:     locked,
			PaidAt:     invoice.PaidAt,
		}
	}

	return resp
}

// MovementResponse is one stock ledger entry in API responses
type MovementResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Direction string     `json:"direction"`
	Quantity  int        `json:"quantity"`
	Reference string     `json:"reference"`
	ActorID   uuid.UUID  `json:"actor_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// LowStockAlert flags a product or variant whose live counter fell under
// its alert threshold
type LowStockAlert struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Name      string     `json:"name"`
	SKU       string     `json:"sku"`
	Stock     int        `json:"stock"`
	MinStock  int        `json:"min_stock"`
}

// ToMovementResponse maps a ledger entry to its API view
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		Direction: m.Direction.String(),
		Quantity:  m.Quantity,
		Reference: m.Reference,
		ActorID:   m.ActorID,
		CreatedAt: m.CreatedAt,
	}
}
