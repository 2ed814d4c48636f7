package products

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"commerce-sync/core/utils"
	"commerce-sync/feature/erp"
)

// defaultVariationName marks a variation that adds nothing to the product name.
const defaultVariationName = "padrão"

// Item is one sellable unit: a product without variations, or one variation
// of a product. Every Item becomes its own storefront product.
type Item struct {
	Product   erp.Product
	Variation *erp.Variation
	// Position is the 1-based index of Variation within Product.Variacoes.
	Position   int
	ExternalID string
}

// Expand splits an ERP product into sellable items.
func Expand(p erp.Product) []Item {
	if len(p.Variacoes) == 0 {
		return []Item{{Product: p, ExternalID: p.ID.String()}}
	}

	items := make([]Item, 0, len(p.Variacoes))
	for i := range p.Variacoes {
		v := p.Variacoes[i]
		items = append(items, Item{
			Product:    p,
			Variation:  &v,
			Position:   i + 1,
			ExternalID: p.ID.String() + "-" + variationID(v),
		})
	}
	return items
}

// variationID falls back to the internal code, then to a digest of the
// variation's properties, when the ERP sends no id.
func variationID(v erp.Variation) string {
	if v.ID != "" {
		return v.ID.String()
	}
	if v.CodigoInterno != "" {
		return "codigo-" + v.CodigoInterno.String()
	}

	props := []string{"nome:" + v.Nome}
	if v.PrecoVenda.Valid {
		props = append(props, "preco_venda:"+v.PrecoVenda.Value.String())
	}
	if v.Estoque.Valid {
		props = append(props, "estoque:"+v.Estoque.Value.String())
	}
	for _, a := range v.Atributos {
		props = append(props, a.Nome+":"+a.Valor)
	}
	sum := md5.Sum([]byte(strings.Join(props, "-")))
	return "var-" + hex.EncodeToString(sum[:])[:8]
}

// DisplayName is "<product> - <variation>" unless the variation is unnamed
// or the default one.
func (it Item) DisplayName() string {
	name := strings.TrimSpace(it.Product.Nome)
	if it.Variation == nil {
		return name
	}
	vn := strings.TrimSpace(it.Variation.Nome)
	if vn == "" || strings.EqualFold(vn, defaultVariationName) {
		return name
	}
	return name + " - " + vn
}

// SKU prefers the variation's internal code.
func (it Item) SKU() string {
	if it.Variation != nil && it.Variation.CodigoInterno != "" {
		return it.Variation.CodigoInterno.String()
	}
	return it.Product.CodigoInterno.String()
}

// Price prefers the variation's sale price.
func (it Item) Price() utils.Amount {
	if it.Variation != nil && it.Variation.PrecoVenda.Valid {
		return it.Variation.PrecoVenda
	}
	return it.Product.PrecoVenda
}

// Stock prefers the variation's stock.
func (it Item) Stock() utils.Amount {
	if it.Variation != nil {
		return it.Variation.Estoque
	}
	return it.Product.Estoque
}

// versionView is the part of an Item hashed into the version fingerprint.
// The modification timestamp and sibling variations are left out.
type versionView struct {
	ExternalID  string          `json:"external_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Price       utils.Amount    `json:"price"`
	Stock       utils.Amount    `json:"stock"`
	Altura      utils.Amount    `json:"altura"`
	Largura     utils.Amount    `json:"largura"`
	Comprimento utils.Amount    `json:"comprimento"`
	Peso        utils.Amount    `json:"peso"`
	Attributes  []erp.Attribute `json:"attributes,omitempty"`
	// Variant is the resolved discriminator. It can depend on the position of
	// the variation, which nothing else here captures.
	Variant string `json:"variant,omitempty"`
}

func (it Item) version(variant string) versionView {
	v := versionView{
		ExternalID:  it.ExternalID,
		Name:        it.DisplayName(),
		Description: it.Product.Descricao,
		SKU:         it.SKU(),
		Price:       it.Price(),
		Stock:       it.Stock(),
		Altura:      it.Product.Altura,
		Largura:     it.Product.Largura,
		Comprimento: it.Product.Comprimento,
		Peso:        it.Product.Peso,
		Variant:     variant,
	}
	if it.Variation != nil {
		v.Attributes = it.Variation.Atributos
	}
	return v
}
