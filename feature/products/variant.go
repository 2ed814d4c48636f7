package products

import (
	"fmt"
	"strings"

	"commerce-sync/feature/erp"
)

// VariantInput is what the variant strategies look at.
type VariantInput struct {
	Attributes []erp.Attribute
	SKU        string
	// Position is the 1-based index of the variation within its product.
	Position int
}

// VariantStrategy derives the discriminator (color) name of a variation.
type VariantStrategy struct {
	Name    string
	Resolve func(in VariantInput) (string, bool)
}

var colorAttributeNames = []string{"cor", "color", "colour"}

// ColorAttribute picks the value of an attribute named cor, color or colour.
var ColorAttribute = VariantStrategy{
	Name: "color_attribute",
	Resolve: func(in VariantInput) (string, bool) {
		for _, a := range in.Attributes {
			name := strings.ToLower(strings.TrimSpace(a.Nome))
			value := strings.TrimSpace(a.Valor)
			if value == "" {
				continue
			}
			for _, c := range colorAttributeNames {
				if name == c {
					return value, true
				}
			}
		}
		return "", false
	},
}

// FirstAttribute picks the first attribute with a value.
var FirstAttribute = VariantStrategy{
	Name: "first_attribute",
	Resolve: func(in VariantInput) (string, bool) {
		for _, a := range in.Attributes {
			if v := strings.TrimSpace(a.Valor); v != "" {
				return v, true
			}
		}
		return "", false
	},
}

// SKUModel names the variant after its SKU.
var SKUModel = VariantStrategy{
	Name: "sku_model",
	Resolve: func(in VariantInput) (string, bool) {
		sku := strings.TrimSpace(in.SKU)
		if sku == "" {
			return "", false
		}
		return "Modelo-" + sku, true
	},
}

// PositionModel names the variant after its position. It always matches.
var PositionModel = VariantStrategy{
	Name: "position_model",
	Resolve: func(in VariantInput) (string, bool) {
		return fmt.Sprintf("Modelo-%d", in.Position), true
	},
}

// DefaultVariantStrategies is the precedence used by the converter.
var DefaultVariantStrategies = []VariantStrategy{
	ColorAttribute,
	FirstAttribute,
	SKUModel,
	PositionModel,
}

// ResolveVariantName evaluates strategies in order; the first match wins.
// It returns the name and the strategy that produced it.
func ResolveVariantName(strategies []VariantStrategy, in VariantInput) (name, strategy string) {
	for _, s := range strategies {
		if v, ok := s.Resolve(in); ok {
			return v, s.Name
		}
	}
	return "", ""
}
