package catalog

import (
	"time"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceList maps a client segment to an explicit tax-excluded unit price.
// Stored as JSON; a missing segment key means "fall back".
type PriceList map[valueobject.Segment]decimal.Decimal

// Product represents a catalogue product.
// A product either sells as itself (no variants) or exclusively through its
// variants: once a variant exists the product's own stock is never sold
// directly. That invariant is enforced by the order engine at line creation.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock         int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:0"`
	SegmentPrices PriceList       `gorm:"serializer:json"`

	Variants []Variant `gorm:"foreignKey:ProductID"`
	Options  []Option  `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku string, basePrice, cost decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("Le nom du produit est obligatoire")
	}
	if sku == "" {
		return nil, shared.NewValidationError("La référence (SKU) est obligatoire")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewValidationError("Le prix de base ne peut pas être négatif")
	}
	if cost.IsNegative() {
		return nil, shared.NewValidationError("Le coût ne peut pas être négatif")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		BasePrice:         basePrice,
		Cost:              cost,
		SegmentPrices:     make(PriceList),
	}, nil
}

// HasVariants returns true if the product sells through variants
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// BelowMinStock returns true if the live counter is under the alert threshold
func (p *Product) BelowMinStock() bool {
	return p.MinStock > 0 && p.Stock < p.MinStock
}

// GetVariant returns a variant by its ID, or nil if not owned by this product
func (p *Product) GetVariant(variantID uuid.UUID) *Variant {
	for idx := range p.Variants {
		if p.Variants[idx].ID == variantID {
			return &p.Variants[idx]
		}
	}
	return nil
}

// SetSegmentPrice sets an explicit per-segment price
func (p *Product) SetSegmentPrice(segment valueobject.Segment, price decimal.Decimal) error {
	if !segment.IsValid() {
		return shared.NewValidationError("Segment tarifaire inconnu")
	}
	if price.IsNegative() {
		return shared.NewValidationError("Le prix ne peut pas être négatif")
	}
	if p.SegmentPrices == nil {
		p.SegmentPrices = make(PriceList)
	}
	p.SegmentPrices[segment] = price
	p.UpdatedAt = time.Now()
	return nil
}

// Variant is a sellable variation of a product, identified by one option
// value per product option (e.g. Shade=Ivory). It carries its own SKU, stock
// counter and cost; prices fall back to the owning product when unset.
type Variant struct {
	shared.BaseEntity
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU           string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Cost          decimal.Decimal
	Stock         int       `gorm:"not null;default:0"`
	MinStock      int       `gorm:"not null;default:0"`
	SegmentPrices PriceList `gorm:"serializer:json"`

	// Legacy per-segment columns kept from the first catalogue schema.
	// Consulted only when SegmentPrices has no entry for the segment.
	PriceRetail        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PriceSemiWholesale *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PriceWholesale     *decimal.Decimal `gorm:"type:decimal(18,4)"`

	OptionValues []OptionValue `gorm:"many2many:variant_option_values"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// NewVariant creates a new variant for a product
func NewVariant(productID uuid.UUID, sku string, cost decimal.Decimal) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Produit parent obligatoire")
	}
	if sku == "" {
		return nil, shared.NewValidationError("La référence (SKU) est obligatoire")
	}
	if cost.IsNegative() {
		return nil, shared.NewValidationError("Le coût ne peut pas être négatif")
	}

	return &Variant{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		SKU:           sku,
		Cost:          cost,
		SegmentPrices: make(PriceList),
	}, nil
}

// BelowMinStock returns true if the live counter is under the alert threshold
func (v *Variant) BelowMinStock() bool {
	return v.MinStock > 0 && v.Stock < v.MinStock
}

// EffectiveCost returns the variant cost, falling back to the product cost
// when the variant has none recorded.
func (v *Variant) EffectiveCost(product *Product) decimal.Decimal {
	if v.Cost.IsZero() {
		return product.Cost
	}
	return v.Cost
}

// legacyPrice returns the legacy per-segment column for the given segment
func (v *Variant) legacyPrice(segment valueobject.Segment) *decimal.Decimal {
	switch segment {
	case valueobject.SegmentRetail:
		return v.PriceRetail
	case valueobject.SegmentSemiWholesale:
		return v.PriceSemiWholesale
	case valueobject.SegmentWholesale:
		return v.PriceWholesale
	}
	return nil
}
