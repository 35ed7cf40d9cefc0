package billing

import (
	"time"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "UNPAID"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// paidEpsilon absorbs sub-cent residue when deriving PAID from the balance
var paidEpsilon = decimal.NewFromFloat(0.01)

// Invoice is emitted once, when its order reaches DELIVERED. Amount mirrors
// the order total (HT) at emission; AmountTTC is derived with the tax rate
// of the day. After emission the lock guard decides whether the amount can
// still follow order edits (see lock.go); status and balance keep moving
// with payments regardless.
type Invoice struct {
	shared.BaseAggregateRoot
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Number    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTTC decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status    InvoiceStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	PaidAt    *time.Time

	Payments []Payment `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice emits an invoice from an order's current tax-excluded total
func NewInvoice(orderID uuid.UUID, number string, amountHT, taxRate decimal.Decimal) (*Invoice, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Commande obligatoire")
	}
	if number == "" {
		return nil, shared.NewValidationError("Numéro de facture obligatoire")
	}
	if amountHT.IsNegative() {
		return nil, shared.NewValidationError("Le montant ne peut pas être négatif")
	}

	ttc := valueobject.NewMoney(amountHT).ApplyVAT(taxRate).Round(2).Amount()

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Number:            number,
		Amount:            amountHT,
		AmountTTC:         ttc,
		Balance:           ttc,
		Status:            InvoiceStatusUnpaid,
		Payments:          make([]Payment, 0),
	}

	invoice.AddDomainEvent(NewInvoiceEmittedEvent(invoice))

	return invoice, nil
}

// AmountPaid returns the sum of all recorded payments
func (i *Invoice) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range i.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// RecomputeAmount re-aligns the invoice on a new order total (HT). This is
// the guarded recomputation path: callers must have consulted the lock
// guard first. Balance becomes max(0, newTTC - alreadyPaid) and the status
// is re-derived from it.
func (i *Invoice) RecomputeAmount(amountHT, taxRate decimal.Decimal) error {
	if amountHT.IsNegative() {
		return shared.NewValidationError("Le montant ne peut pas être négatif")
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.ErrInvalidState
	}

	i.Amount = amountHT
	i.AmountTTC = valueobject.NewMoney(amountHT).ApplyVAT(taxRate).Round(2).Amount()

	balance := i.AmountTTC.Sub(i.AmountPaid())
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	i.Balance = balance
	i.deriveStatus()
	i.UpdatedAt = time.Now()

	return nil
}

// RecordPayment appends a payment and recomputes balance and status.
// The payments subsystem drives collection; this keeps the
// "status reflects balance" invariant on the invoice side.
func (i *Invoice) RecordPayment(amount decimal.Decimal, method PaymentMethod, reference string) (*Payment, error) {
	if i.Status == InvoiceStatusCancelled {
		return nil, shared.ErrInvalidState
	}
	payment, err := NewPayment(i.ID, amount, method, reference)
	if err != nil {
		return nil, err
	}

	i.Payments = append(i.Payments, *payment)
	i.recomputeBalance()

	return payment, nil
}

// RemovePayment deletes a payment and recomputes balance and status, so the
// invariant holds after any payment list mutation.
func (i *Invoice) RemovePayment(paymentID uuid.UUID) error {
	for idx, p := range i.Payments {
		if p.ID == paymentID {
			i.Payments = append(i.Payments[:idx], i.Payments[idx+1:]...)
			i.recomputeBalance()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Cancel marks the invoice cancelled with its balance reset to zero.
// Only reachable through order cancellation, and only while not PAID.
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVOICE_ALREADY_PAID", "Une facture réglée ne peut pas être annulée")
	}

	i.Status = InvoiceStatusCancelled
	i.Balance = decimal.Zero
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

func (i *Invoice) recomputeBalance() {
	balance := i.AmountTTC.Sub(i.AmountPaid())
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	i.Balance = balance
	i.deriveStatus()
	i.UpdatedAt = time.Now()
}

// deriveStatus derives the status from the balance: PAID within one cent,
// PARTIAL if anything was paid, UNPAID otherwise. CANCELLED is sticky.
func (i *Invoice) deriveStatus() {
	if i.Status == InvoiceStatusCancelled {
		return
	}

	switch {
	case i.Balance.LessThanOrEqual(paidEpsilon):
		if i.Status != InvoiceStatusPaid {
			now := time.Now()
			i.PaidAt = &now
		}
		i.Status = InvoiceStatusPaid
	case len(i.Payments) > 0:
		i.Status = InvoiceStatusPartial
		i.PaidAt = nil
	default:
		i.Status = InvoiceStatusUnpaid
		i.PaidAt = nil
	}
}
