package orders

import (
	"strings"

	"commerce-sync/core/reconcile"
	"commerce-sync/core/utils"
	"commerce-sync/core/validation"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/storefront"

	"github.com/shopspring/decimal"
)

const (
	orderOrigin = "Loja virtual"
	importNote  = "Pedido importado da loja virtual"

	defaultStatus  = "em_andamento"
	defaultPayment = "credit_card"

	// missingCustomer is reported when the order's customer has not been
	// synced to the ERP yet.
	missingCustomer = "customer"

	// KeyCode is the natural key kind for orders.
	KeyCode = "codigo"
)

var statusMap = map[string]string{
	"pending":   "pendente",
	"approved":  "aprovado",
	"attended":  "em_andamento",
	"invoiced":  "faturado",
	"delivered": "entregue",
	"canceled":  "cancelado",
	"archived":  "arquivado",
}

// MapStatus translates a storefront status to the ERP situation.
func MapStatus(status string) string {
	if s, ok := statusMap[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s
	}
	return defaultStatus
}

// MapPayment translates a storefront payment method to the ERP one.
func MapPayment(p *storefront.Payment) string {
	if p == nil {
		return defaultPayment
	}
	method := strings.ToLower(p.Method)
	switch {
	case strings.Contains(method, "boleto"), strings.Contains(method, "billet"):
		return "boleto"
	case strings.Contains(method, "pix"):
		return "pix"
	case strings.Contains(method, "deposit"), strings.Contains(method, "transfer"):
		return "deposito"
	default:
		return defaultPayment
	}
}

// CustomerLookup resolves a storefront customer id to its ERP id.
type CustomerLookup interface {
	Get(category, sourceID string) (string, bool)
}

// Converter maps storefront orders to ERP sales.
type Converter struct {
	customers CustomerLookup
	validate  *validation.Validator
}

// NewConverter creates a Converter resolving customers through lookup.
func NewConverter(lookup CustomerLookup) *Converter {
	return &Converter{customers: lookup, validate: validation.New()}
}

// Code is the order's external code, falling back to its id.
func Code(o storefront.Order) string {
	return utils.FirstNonEmpty(o.Code.String(), o.ID.String())
}

func convertItems(src []storefront.OrderItem) ([]erp.OrderItem, decimal.Decimal) {
	items := make([]erp.OrderItem, 0, len(src))
	sum := decimal.Zero
	for _, it := range src {
		qty := it.Quantity
		if !qty.IsPositive() {
			qty = utils.NewAmount(decimal.NewFromInt(1))
		}
		total := it.Total
		if !total.Valid {
			total = utils.NewAmount(it.Price.Value.Mul(qty.Value))
		}
		sum = sum.Add(total.Value)

		items = append(items, erp.OrderItem{
			Codigo:        utils.FirstNonEmpty(it.Sku, it.Reference, it.ID.String()),
			Nome:          it.Name,
			Quantidade:    qty.Float(),
			ValorUnitario: it.Price.Float(),
			ValorTotal:    total.Float(),
		})
	}
	return items, sum
}

func convertAddress(a *storefront.Address) *erp.Address {
	if a == nil {
		return nil
	}
	addr := erp.Address{
		CEP:         utils.DigitsOnly(a.Zipcode),
		Endereco:    a.Street,
		Numero:      a.Number,
		Complemento: a.Detail,
		Bairro:      a.District,
		Cidade:      a.City,
		Estado:      a.State,
	}
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func convertShipping(f *storefront.Fulfillment) *erp.Shipping {
	if f == nil {
		return nil
	}
	s := erp.Shipping{
		CodigoRastreamento: f.ShippingCode,
		URLRastreamento:    f.ShippingTrackURL,
		NotaFiscal:         f.NfeNumber,
	}
	if s == (erp.Shipping{}) {
		return nil
	}
	return &s
}

// BuildInput maps an order to the ERP body. The second result is false when
// the order's customer has no ERP mapping yet.
func (c *Converter) BuildInput(o storefront.Order) (erp.OrderInput, bool) {
	items, sum := convertItems(o.Items)
	total := o.Total
	if !total.Valid {
		total = utils.NewAmount(sum)
	}

	in := erp.OrderInput{
		Codigo:          Code(o),
		Data:            utils.NormalizeDate(o.CreatedAt),
		Produtos:        items,
		ValorTotal:      total.Float(),
		Situacao:        MapStatus(o.Status),
		FormaPagamento:  MapPayment(o.Payment),
		Origem:          orderOrigin,
		CodigoOrigem:    o.ID.String(),
		Observacao:      importNote,
		EnderecoEntrega: convertAddress(o.Address),
		Envio:           convertShipping(o.Fulfillment),
	}

	resolved := false
	if o.Customer != nil {
		in.ClienteNome = o.Customer.Name
		in.ClienteDocumento = utils.DigitsOnly(o.Customer.Cgc)
		in.ClienteEmail = o.Customer.Email
		in.ClienteTelefone = o.Customer.Phone
		if id := o.Customer.ID.String(); id != "" && c.customers != nil {
			in.ClienteID, resolved = c.customers.Get(string(reconcile.ClassCustomers), id)
		}
	}
	return in, resolved
}

// Convert validates an order and builds its payloads. Orders whose customer
// is not mapped yet are reported as missing "customer".
func (c *Converter) Convert(o storefront.Order) (*reconcile.Converted, error) {
	in, resolved := c.BuildInput(o)

	var missing []string
	if !resolved {
		missing = append(missing, missingCustomer)
	}
	fields, err := c.validate.MissingFields(in)
	if err != nil {
		return nil, err
	}
	missing = append(missing, fields...)
	if len(missing) > 0 {
		return nil, reconcile.NewValidationError(missing)
	}

	create, err := reconcile.PayloadOf(in)
	if err != nil {
		return nil, err
	}

	return &reconcile.Converted{
		Name:         "Pedido " + in.Codigo,
		Create:       create,
		Patch:        create.Without("codigo", "data", "origem", "codigo_origem", "observacao"),
		NaturalKeys:  []reconcile.NaturalKey{{Kind: KeyCode, Value: in.Codigo}},
		MirrorKey:    in.Codigo,
		MirrorFields: []string{"codigo"},
	}, nil
}
