package partner

import (
	"time"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Client represents a distributor client account.
// Balance is the current outstanding tax-included amount owed ("encours"):
// a live running counter updated transactionally alongside every order and
// invoice event, never derived lazily by summing documents. A periodic
// reconciliation job outside this service checks it against the documents.
type Client struct {
	shared.BaseAggregateRoot
	Name         string              `gorm:"type:varchar(200);not null"`
	Email        string              `gorm:"type:varchar(200);index"`
	Phone        string              `gorm:"type:varchar(50)"`
	Address      string              `gorm:"type:text"`
	Segment      valueobject.Segment `gorm:"type:varchar(20);not null;default:'DETAIL'"`
	DiscountRate *decimal.Decimal    `gorm:"type:decimal(5,2)"`
	Balance      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CreditLimit  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client account
func NewClient(name string, segment valueobject.Segment) (*Client, error) {
	if name == "" {
		return nil, shared.NewValidationError("Le nom du client est obligatoire")
	}
	if !segment.IsValid() {
		return nil, shared.NewValidationError("Segment tarifaire inconnu")
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Segment:           segment,
		Balance:           decimal.Zero,
		CreditLimit:       decimal.Zero,
	}

	return client, nil
}

// SetCreditLimit sets the client's credit limit (TTC)
func (c *Client) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewValidationError("Le plafond de crédit ne peut pas être négatif")
	}
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	return nil
}

// SetDiscountRate sets the client discount rate in percent (0-100)
func (c *Client) SetDiscountRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("Le taux de remise doit être compris entre 0 et 100")
	}
	c.DiscountRate = &rate
	c.UpdatedAt = time.Now()
	return nil
}

// IncreaseBalance raises the outstanding amount by a tax-included delta.
// Called when an order is created or its total grows.
func (c *Client) IncreaseBalance(deltaTTC decimal.Decimal) {
	old := c.Balance
	c.Balance = c.Balance.Add(deltaTTC)
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientBalanceChangedEvent(c, old, c.Balance))
}

// DecreaseBalance lowers the outstanding amount by a tax-included delta.
// Called on cancellation and on payment events.
func (c *Client) DecreaseBalance(deltaTTC decimal.Decimal) {
	old := c.Balance
	c.Balance = c.Balance.Sub(deltaTTC)
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientBalanceChangedEvent(c, old, c.Balance))
}

// AvailableCredit returns the remaining tax-included headroom, never negative
func (c *Client) AvailableCredit() decimal.Decimal {
	available := c.CreditLimit.Sub(c.Balance)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}
