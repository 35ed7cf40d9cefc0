package order

import (
	"github.com/shopspring/decimal"
)

// ApprovalPolicy holds the four independent margin rules an administrator
// can configure. The zero value is NOT the documented default: use
// DefaultApprovalPolicy, which is also what the settings loader falls back
// to when the policy table is unavailable.
type ApprovalPolicy struct {
	// FlagNegativeLine flags the order when any single line sells below its
	// cost (cost > 0 and revenue < cost).
	FlagNegativeLine bool
	// EnforceMinMargin enables the aggregate margin percentage threshold.
	EnforceMinMargin bool
	// MinMarginPercent is the aggregate margin floor, in percent.
	MinMarginPercent decimal.Decimal
	// FlagNegativeAggregate flags the order when total revenue is below
	// total cost.
	FlagNegativeAggregate bool
}

// DefaultApprovalPolicy returns the documented fallback policy
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		FlagNegativeLine:      true,
		EnforceMinMargin:      false,
		MinMarginPercent:      decimal.Zero,
		FlagNegativeAggregate: false,
	}
}

// RequiresApproval evaluates the margin rules over the full item set. It is
// recomputed on every mutation that changes lines or prices and never cached
// past a mutation; the resulting flag gates which status transitions are
// exposed to operators.
func RequiresApproval(items []OrderItem, policy ApprovalPolicy) bool {
	if len(items) == 0 {
		return false
	}

	totalRevenue := decimal.Zero
	totalCost := decimal.Zero

	for idx := range items {
		revenue := items[idx].LineTotal()
		cost := items[idx].LineCost()
		totalRevenue = totalRevenue.Add(revenue)
		totalCost = totalCost.Add(cost)

		if policy.FlagNegativeLine && cost.IsPositive() && revenue.LessThan(cost) {
			return true
		}
	}

	if policy.FlagNegativeAggregate && totalRevenue.LessThan(totalCost) {
		return true
	}

	if policy.EnforceMinMargin && totalRevenue.IsPositive() {
		marginPercent := totalRevenue.Sub(totalCost).
			Div(totalRevenue).
			Mul(decimal.NewFromInt(100))
		if marginPercent.LessThan(policy.MinMarginPercent) {
			return true
		}
	}

	return false
}
