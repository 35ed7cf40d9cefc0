package catalog

import (
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Pricing resolution is pure: it never touches storage and can be re-derived
// at any time from catalogue state. Orders snapshot the resolved price into
// the line (priceAtTime/costAtTime) and never re-resolve retroactively.

// ResolveProductPrice resolves the tax-excluded unit price for a product
// sold directly: explicit per-segment price, then base price, then the
// client discount rate (percent, applied only when positive).
func ResolveProductPrice(product *Product, segment valueobject.Segment, discountRate *decimal.Decimal) decimal.Decimal {
	price := product.BasePrice
	if explicit, ok := product.SegmentPrices[segment]; ok {
		price = explicit
	}
	return applyDiscount(price, discountRate)
}

// ResolveVariantPrice resolves the tax-excluded unit price for a variant:
// explicit variant per-segment price, then the legacy named per-segment
// column, then the owning product's own resolution.
func ResolveVariantPrice(product *Product, variant *Variant, segment valueobject.Segment, discountRate *decimal.Decimal) decimal.Decimal {
	if explicit, ok := variant.SegmentPrices[segment]; ok {
		return applyDiscount(explicit, discountRate)
	}
	if legacy := variant.legacyPrice(segment); legacy != nil {
		return applyDiscount(*legacy, discountRate)
	}
	return ResolveProductPrice(product, segment, discountRate)
}

func applyDiscount(price decimal.Decimal, rate *decimal.Decimal) decimal.Decimal {
	if rate == nil || rate.LessThanOrEqual(decimal.Zero) {
		return price
	}
	return valueobject.NewMoney(price).ApplyDiscount(*rate).Amount()
}
