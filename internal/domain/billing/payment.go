package billing

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the settlement method of a payment
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// Payment is an append-only settlement record against an invoice
type Payment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record
func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("Facture obligatoire")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Le montant du règlement doit être positif")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Mode de règlement invalide")
	}

	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
	}, nil
}
