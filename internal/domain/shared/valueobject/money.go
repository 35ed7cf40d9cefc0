package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable tax-excluded or tax-included monetary amount.
// The business operates in a single currency (EUR), so Money carries only
// the decimal amount; HT/TTC conversion is explicit through ApplyVAT.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyByInt returns a new Money multiplied by an integer quantity
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor))}
}

// ApplyDiscount returns the amount reduced by a percentage rate (0-100).
// A zero or negative rate leaves the amount untouched.
func (m Money) ApplyDiscount(rate decimal.Decimal) Money {
	if rate.LessThanOrEqual(decimal.Zero) {
		return m
	}
	factor := decimal.NewFromInt(1).Sub(rate.Div(decimal.NewFromInt(100)))
	return Money{amount: m.amount.Mul(factor)}
}

// ApplyVAT converts a tax-excluded (HT) amount into its tax-included (TTC)
// counterpart for the given rate expressed as a percentage (e.g. 20).
func (m Money) ApplyVAT(rate decimal.Decimal) Money {
	factor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
	return Money{amount: m.amount.Mul(factor)}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg()}
}

// Round returns a new Money rounded to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places)}
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// StringFixed returns the amount formatted with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.amount.String()
}
