package partner

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the partner context
const (
	EventTypeClientBalanceChanged = "partner.client.balance_changed"
)

// ClientBalanceChangedEvent is emitted whenever the running outstanding
// balance moves; the audit side-channel records old and new figures.
type ClientBalanceChangedEvent struct {
	shared.BaseDomainEvent
	ClientName string          `json:"client_name"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewClientBalanceChangedEvent creates a new balance changed event
func NewClientBalanceChangedEvent(client *Client, oldBalance, newBalance decimal.Decimal) *ClientBalanceChangedEvent {
	return &ClientBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientBalanceChanged, client.ID, "Client"),
		ClientName:      client.Name,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
	}
}
