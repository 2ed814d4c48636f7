package products

import (
	"testing"

	"commerce-sync/feature/erp"

	"github.com/stretchr/testify/assert"
)

func TestColorAttribute(t *testing.T) {
	in := VariantInput{Attributes: []erp.Attribute{{Nome: "Tamanho", Valor: "G"}, {Nome: " COR ", Valor: "Azul"}}}
	name, ok := ColorAttribute.Resolve(in)
	assert.True(t, ok)
	assert.Equal(t, "Azul", name)

	_, ok = ColorAttribute.Resolve(VariantInput{Attributes: []erp.Attribute{{Nome: "color", Valor: " "}}})
	assert.False(t, ok)
}

func TestFirstAttribute(t *testing.T) {
	in := VariantInput{Attributes: []erp.Attribute{{Nome: "Tamanho", Valor: ""}, {Nome: "Sabor", Valor: "Morango"}}}
	name, ok := FirstAttribute.Resolve(in)
	assert.True(t, ok)
	assert.Equal(t, "Morango", name)

	_, ok = FirstAttribute.Resolve(VariantInput{})
	assert.False(t, ok)
}

func TestSKUModel(t *testing.T) {
	name, ok := SKUModel.Resolve(VariantInput{SKU: "CAN-1"})
	assert.True(t, ok)
	assert.Equal(t, "Modelo-CAN-1", name)

	_, ok = SKUModel.Resolve(VariantInput{})
	assert.False(t, ok)
}

func TestPositionModel(t *testing.T) {
	name, ok := PositionModel.Resolve(VariantInput{Position: 3})
	assert.True(t, ok)
	assert.Equal(t, "Modelo-3", name)
}

func TestResolveVariantName_Precedence(t *testing.T) {
	tests := []struct {
		name         string
		in           VariantInput
		wantName     string
		wantStrategy string
	}{
		{
			name:         "color attribute beats earlier attributes",
			in:           VariantInput{Attributes: []erp.Attribute{{Nome: "Sabor", Valor: "Uva"}, {Nome: "Cor", Valor: "Rosa"}}, SKU: "S1", Position: 1},
			wantName:     "Rosa",
			wantStrategy: "color_attribute",
		},
		{
			name:         "first attribute when no color",
			in:           VariantInput{Attributes: []erp.Attribute{{Nome: "Sabor", Valor: "Uva"}}, SKU: "S1", Position: 1},
			wantName:     "Uva",
			wantStrategy: "first_attribute",
		},
		{
			name:         "sku when no attributes",
			in:           VariantInput{SKU: "S1", Position: 2},
			wantName:     "Modelo-S1",
			wantStrategy: "sku_model",
		},
		{
			name:         "position as last resort",
			in:           VariantInput{Position: 2},
			wantName:     "Modelo-2",
			wantStrategy: "position_model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, strategy := ResolveVariantName(DefaultVariantStrategies, tt.in)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestResolveVariantName_NoMatch(t *testing.T) {
	name, strategy := ResolveVariantName([]VariantStrategy{SKUModel}, VariantInput{})
	assert.Empty(t, name)
	assert.Empty(t, strategy)
}
