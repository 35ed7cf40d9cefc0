package catalog

import (
	"testing"

	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildProductWithShades builds a product carrying a "Teinte" option and one
// variant per shade.
func buildProductWithShades(t *testing.T, shades ...string) *Product {
	t.Helper()
	product := newTestProduct(t, "100", "60")

	option := Option{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  product.ID,
		Name:       "Teinte",
	}
	for _, shade := range shades {
		option.Values = append(option.Values, OptionValue{
			BaseEntity: shared.NewBaseEntity(),
			OptionID:   option.ID,
			Value:      shade,
		})
	}
	product.Options = []Option{option}

	for i, shade := range shades {
		variant, err := NewVariant(product.ID, "SKU-001-"+shade, decimal.Zero)
		require.NoError(t, err)
		variant.OptionValues = []OptionValue{option.Values[i]}
		product.Variants = append(product.Variants, *variant)
	}
	return product
}

func TestResolveVariantBySelection_Match(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire", "Beige")

	variant, err := ResolveVariantBySelection(product, map[string]string{"Teinte": "Beige"})

	require.NoError(t, err)
	assert.Equal(t, "SKU-001-Beige", variant.SKU)
}

func TestResolveVariantBySelection_EmptySelection(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire")

	_, err := ResolveVariantBySelection(product, nil)

	assert.True(t, shared.IsDomainError(err, "VALIDATION_ERROR"))
}

func TestResolveVariantBySelection_UnknownValue(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire", "Beige")

	_, err := ResolveVariantBySelection(product, map[string]string{"Teinte": "Noir"})

	assert.True(t, shared.IsDomainError(err, "VARIANT_NOT_FOUND"))
}

func TestResolveVariantBySelection_UnknownOption(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire")

	_, err := ResolveVariantBySelection(product, map[string]string{"Taille": "M"})

	assert.True(t, shared.IsDomainError(err, "VARIANT_NOT_FOUND"))
}

func TestResolveVariantBySelection_NoVariantCarriesValue(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire", "Beige")
	// Orphan the Beige value: the option still lists it but no variant does.
	product.Variants[1].OptionValues = nil

	_, err := ResolveVariantBySelection(product, map[string]string{"Teinte": "Beige"})

	assert.True(t, shared.IsDomainError(err, "VARIANT_NOT_FOUND"))
}

func TestResolveVariantBySelection_Ambiguous(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire")
	// A second variant linked to the same value: the combination no longer
	// identifies a single variant.
	duplicate, err := NewVariant(product.ID, "SKU-001-DUP", decimal.Zero)
	require.NoError(t, err)
	duplicate.OptionValues = []OptionValue{product.Options[0].Values[0]}
	product.Variants = append(product.Variants, *duplicate)

	_, err = ResolveVariantBySelection(product, map[string]string{"Teinte": "Ivoire"})

	assert.True(t, shared.IsDomainError(err, "VARIANT_AMBIGUOUS"))
}

func TestResolveVariantBySelection_MultiOption(t *testing.T) {
	product := newTestProduct(t, "100", "60")

	shade := Option{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, Name: "Teinte"}
	shade.Values = []OptionValue{
		{BaseEntity: shared.NewBaseEntity(), OptionID: shade.ID, Value: "Ivoire"},
	}
	size := Option{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, Name: "Contenance"}
	size.Values = []OptionValue{
		{BaseEntity: shared.NewBaseEntity(), OptionID: size.ID, Value: "30ml"},
		{BaseEntity: shared.NewBaseEntity(), OptionID: size.ID, Value: "50ml"},
	}
	product.Options = []Option{shade, size}

	small, err := NewVariant(product.ID, "SKU-001-IV-30", decimal.Zero)
	require.NoError(t, err)
	small.OptionValues = []OptionValue{shade.Values[0], size.Values[0]}
	large, err := NewVariant(product.ID, "SKU-001-IV-50", decimal.Zero)
	require.NoError(t, err)
	large.OptionValues = []OptionValue{shade.Values[0], size.Values[1]}
	product.Variants = []Variant{*small, *large}

	variant, err := ResolveVariantBySelection(product, map[string]string{
		"Teinte":     "Ivoire",
		"Contenance": "50ml",
	})

	require.NoError(t, err)
	assert.Equal(t, "SKU-001-IV-50", variant.SKU)

	// A partial selection must not silently pick one of the two.
	_, err = ResolveVariantBySelection(product, map[string]string{"Teinte": "Ivoire"})
	assert.Error(t, err)
}

func TestGetVariant(t *testing.T) {
	product := buildProductWithShades(t, "Ivoire")

	found := product.GetVariant(product.Variants[0].ID)
	require.NotNil(t, found)
	assert.Equal(t, product.Variants[0].SKU, found.SKU)

	assert.Nil(t, product.GetVariant(uuid.New()))
}
