package catalog

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Option is a product-scoped attribute definition (e.g. "Shade").
type Option struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`

	Values []OptionValue `gorm:"foreignKey:OptionID"`
}

// TableName returns the table name for GORM
func (Option) TableName() string {
	return "product_options"
}

// OptionValue is an allowed value of an option ("Ivory" for "Shade").
// A variant is linked to one value per option; that set forms its identity.
type OptionValue struct {
	shared.BaseEntity
	OptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Value    string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (OptionValue) TableName() string {
	return "product_option_values"
}

// ResolveVariantBySelection finds the single variant of a product whose
// option-value set matches the given selection (option name -> value).
// Uniqueness of the combination is expected but not database-enforced, so
// absence and ambiguity both fail gracefully instead of picking a winner.
func ResolveVariantBySelection(product *Product, selection map[string]string) (*Variant, error) {
	if len(selection) == 0 {
		return nil, shared.NewValidationError("Aucune option sélectionnée")
	}

	// Translate the selection into the set of expected option-value IDs.
	wanted := make(map[uuid.UUID]bool, len(selection))
	for name, value := range selection {
		found := false
		for idx := range product.Options {
			opt := &product.Options[idx]
			if opt.Name != name {
				continue
			}
			for vIdx := range opt.Values {
				if opt.Values[vIdx].Value == value {
					wanted[opt.Values[vIdx].ID] = true
					found = true
					break
				}
			}
			break
		}
		if !found {
			return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "Cette combinaison d'options n'existe pas")
		}
	}

	var match *Variant
	for idx := range product.Variants {
		variant := &product.Variants[idx]
		if len(variant.OptionValues) != len(wanted) {
			continue
		}
		all := true
		for _, ov := range variant.OptionValues {
			if !wanted[ov.ID] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		if match != nil {
			return nil, shared.NewDomainError("VARIANT_AMBIGUOUS", "Plusieurs variantes correspondent à cette combinaison d'options")
		}
		match = variant
	}

	if match == nil {
		return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "Cette combinaison d'options n'existe pas")
	}
	return match, nil
}
