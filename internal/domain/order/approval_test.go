package order

import (
	"testing"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(price, cost string, quantity int) OrderItem {
	return OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   uuid.New(),
		Quantity:    quantity,
		PriceAtTime: decimal.RequireFromString(price),
		CostAtTime:  decimal.RequireFromString(cost),
	}
}

func TestRequiresApproval_EmptyOrder(t *testing.T) {
	assert.False(t, RequiresApproval(nil, DefaultApprovalPolicy()))
}

func TestRequiresApproval_NegativeLine(t *testing.T) {
	policy := DefaultApprovalPolicy()

	items := []OrderItem{
		item("10", "6", 2),
		item("5", "8", 1), // sells below cost
	}
	assert.True(t, RequiresApproval(items, policy))

	healthy := []OrderItem{item("10", "6", 2)}
	assert.False(t, RequiresApproval(healthy, policy))
}

func TestRequiresApproval_NegativeLineIgnoresZeroCost(t *testing.T) {
	// Free samples: cost 0 lines never trigger the per-line rule even when
	// sold at 0.
	items := []OrderItem{item("0", "0", 3)}
	assert.False(t, RequiresApproval(items, DefaultApprovalPolicy()))
}

func TestRequiresApproval_NegativeLineDisabled(t *testing.T) {
	policy := ApprovalPolicy{FlagNegativeLine: false}
	items := []OrderItem{item("5", "8", 1)}
	assert.False(t, RequiresApproval(items, policy))
}

func TestRequiresApproval_NegativeAggregate(t *testing.T) {
	policy := ApprovalPolicy{FlagNegativeAggregate: true}

	// Each rule independent: one loss-making line outweighed in aggregate.
	profitable := []OrderItem{
		item("5", "8", 1),   // -3
		item("20", "10", 1), // +10
	}
	assert.False(t, RequiresApproval(profitable, policy))

	losing := []OrderItem{
		item("5", "8", 2),  // -6
		item("11", "8", 1), // +3
	}
	assert.True(t, RequiresApproval(losing, policy))
}

func TestRequiresApproval_MinMargin(t *testing.T) {
	policy := ApprovalPolicy{
		EnforceMinMargin: true,
		MinMarginPercent: decimal.RequireFromString("30"),
	}

	// Margin = (100-60)/100 = 40% >= 30%
	assert.False(t, RequiresApproval([]OrderItem{item("100", "60", 1)}, policy))

	// Margin = (100-80)/100 = 20% < 30%
	assert.True(t, RequiresApproval([]OrderItem{item("100", "80", 1)}, policy))

	// Exactly at the floor passes.
	assert.False(t, RequiresApproval([]OrderItem{item("100", "70", 1)}, policy))
}

func TestRequiresApproval_MinMarginSkipsZeroRevenue(t *testing.T) {
	policy := ApprovalPolicy{
		EnforceMinMargin: true,
		MinMarginPercent: decimal.RequireFromString("30"),
	}
	assert.False(t, RequiresApproval([]OrderItem{item("0", "0", 1)}, policy))
}

func TestDefaultApprovalPolicy(t *testing.T) {
	policy := DefaultApprovalPolicy()
	assert.True(t, policy.FlagNegativeLine)
	assert.False(t, policy.EnforceMinMargin)
	assert.False(t, policy.FlagNegativeAggregate)
	assert.True(t, policy.MinMarginPercent.IsZero())
}
