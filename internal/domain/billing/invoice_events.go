package billing

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the billing context
const (
	EventTypeInvoiceEmitted   = "billing.invoice.emitted"
	EventTypeInvoiceCancelled = "billing.invoice.cancelled"
)

// InvoiceEmittedEvent is emitted when an invoice is created for a delivered order
type InvoiceEmittedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	AmountTTC decimal.Decimal `json:"amount_ttc"`
}

// NewInvoiceEmittedEvent creates a new invoice emitted event
func NewInvoiceEmittedEvent(invoice *Invoice) *InvoiceEmittedEvent {
	return &InvoiceEmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceEmitted, invoice.ID, "Invoice"),
		Number:          invoice.Number,
		Amount:          invoice.Amount,
		AmountTTC:       invoice.AmountTTC,
	}
}

// InvoiceCancelledEvent is emitted when an invoice is cancelled with its order
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCancelledEvent creates a new invoice cancelled event
func NewInvoiceCancelledEvent(invoice *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, invoice.ID, "Invoice"),
		Number:          invoice.Number,
	}
}
