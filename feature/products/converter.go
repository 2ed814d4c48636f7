package products

import (
	"context"
	"strings"

	"commerce-sync/core/apperrors"
	"commerce-sync/core/reconcile"
	"commerce-sync/core/validation"
	"commerce-sync/feature/storefront"

	"go.uber.org/zap"
)

// dimensionScale converts ERP dimension units to storefront centimeters.
const dimensionScale = 10

const colorAttributeName = "Cor"

// ColorResolver returns the storefront id of a color name.
type ColorResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Converter maps ERP items to storefront product payloads.
type Converter struct {
	validate   *validation.Validator
	strategies []VariantStrategy
	logger     *zap.Logger
}

// VariantName resolves the discriminator of a variation item. Items without a
// variation have none.
func (c *Converter) VariantName(it Item) (name, strategy string) {
	if it.Variation == nil {
		return "", ""
	}
	return ResolveVariantName(c.strategies, VariantInput{
		Attributes: it.Variation.Atributos,
		SKU:        it.SKU(),
		Position:   it.Position,
	})
}

// NewConverter creates a Converter. A nil strategy list uses DefaultVariantStrategies.
func NewConverter(strategies []VariantStrategy, logger *zap.Logger) *Converter {
	if strategies == nil {
		strategies = DefaultVariantStrategies
	}
	return &Converter{
		validate:   validation.New(),
		strategies: strategies,
		logger:     logger,
	}
}

// BuildInput maps an item to the storefront create body, without color.
func (c *Converter) BuildInput(it Item) storefront.ProductInput {
	sku := it.SKU()
	price := it.Price().Float()
	return storefront.ProductInput{
		ExternalID:   it.ExternalID,
		Name:         it.DisplayName(),
		Description:  strings.TrimSpace(it.Product.Descricao),
		Sku:          sku,
		Reference:    sku,
		Code:         sku,
		Price:        price,
		PriceCompare: price,
		Balance:      int(it.Stock().Value.IntPart()),
		Active:       true,
		Type:         "simple",
		Height:       it.Product.Altura.Scale(dimensionScale).Float(),
		Width:        it.Product.Largura.Scale(dimensionScale).Float(),
		Depth:        it.Product.Comprimento.Scale(dimensionScale).Float(),
		Weight:       it.Product.Peso.Float(),
	}
}

// Convert validates the item and builds its payloads. Variations get a color
// resolved through colors; a color that cannot be resolved is left out.
func (c *Converter) Convert(ctx context.Context, it Item, colors ColorResolver) (*reconcile.Converted, error) {
	in := c.BuildInput(it)

	missing, err := c.validate.MissingFields(in)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, reconcile.NewValidationError(missing)
	}

	if colors != nil {
		name, strategy := c.VariantName(it)
		if name != "" {
			colorID, err := colors.Resolve(ctx, name)
			if err != nil {
				c.logger.Warn("Could not resolve color, sending product without it",
					zap.String("id", it.ExternalID),
					zap.String("color", name),
					zap.String("strategy", strategy),
					zap.Error(err),
				)
			} else {
				in.ColorID = colorID
				in.Attributes = []storefront.Attribute{{Name: colorAttributeName, Value: name}}
			}
		}
	}

	create, err := reconcile.PayloadOf(in)
	if err != nil {
		return nil, err
	}

	return &reconcile.Converted{
		Name:   in.Name,
		Create: create,
		Patch:  create.Without("external_id", "type", "active"),
		NaturalKeys: []reconcile.NaturalKey{
			{Kind: "external_id", Value: in.ExternalID},
			{Kind: "sku", Value: in.Sku},
		},
		// An empty SKU mirrors nothing, so a SKU cleared in the ERP leaves the
		// storefront codes untouched.
		MirrorKey:    in.Sku,
		MirrorFields: []string{"sku", "reference", "code"},
		Fallbacks: []reconcile.FallbackRule{
			{Category: apperrors.CategoryAttributeConflict, Strip: []string{"color_id", "attributes"}},
		},
	}, nil
}
