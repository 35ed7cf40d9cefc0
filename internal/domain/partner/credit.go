package partner

import (
	"github.com/shopspring/decimal"

	"github.com/distriflow/backend/internal/domain/shared"
)

// CheckCredit validates the tax-included delta a candidate operation would
// add to the client's outstanding balance. It is a pure invariant check: the
// caller must run it inside the same transaction that later commits the
// balance change, otherwise two concurrent edits could both pass against a
// stale balance.
//
// Rules:
//   - deltas that do not increase the balance are always allowed
//     (cancellations and downward edits must never be blocked by credit);
//   - a client with no credit line (limit <= 0) may only place
//     zero-value orders: any positive delta is CREDIT_DENIED;
//   - otherwise the new balance must stay within the limit, or the error
//     carries limit, current balance and remaining headroom for display.
func CheckCredit(client *Client, deltaTTC decimal.Decimal) error {
	if deltaTTC.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	if client.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return shared.ErrCreditDenied
	}

	if client.Balance.Add(deltaTTC).GreaterThan(client.CreditLimit) {
		return shared.NewCreditLimitExceededError(client.CreditLimit, client.Balance, client.AvailableCredit())
	}

	return nil
}
