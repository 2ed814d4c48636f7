package erp

import (
	"bytes"
	"encoding/json"
	"strings"

	"commerce-sync/core/utils"
)

// Page is the ERP list envelope. Data is nil when the response carried no
// "data" key, which callers treat as a malformed page.
type Page[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Meta   *Meta  `json:"meta"`
	Data   []T    `json:"data"`
}

// Items returns the page items and whether the page was well formed.
func (p *Page[T]) Items() ([]T, bool) {
	if p == nil || p.Data == nil {
		return nil, false
	}
	return p.Data, true
}

// Meta carries the ERP pagination counters.
type Meta struct {
	TotalRegistros int `json:"total_registros"`
	TotalPaginas   int `json:"total_paginas"`
	PaginaAtual    int `json:"pagina_atual"`
}

// Record is the minimal shape returned by lookups and writes. The key fields
// are only filled by customer and sale lookups.
type Record struct {
	ID      utils.FlexString `json:"id"`
	CpfCnpj string           `json:"cpf_cnpj,omitempty"`
	Email   string           `json:"email,omitempty"`
	Codigo  utils.FlexString `json:"codigo,omitempty"`
}

// Matches reports whether the record carries value in field. Documents are
// compared on digits only and emails without case.
func (r Record) Matches(field, value string) bool {
	switch field {
	case "cpf_cnpj":
		d := utils.DigitsOnly(value)
		return d != "" && utils.DigitsOnly(r.CpfCnpj) == d
	case "email":
		return value != "" && strings.EqualFold(strings.TrimSpace(r.Email), strings.TrimSpace(value))
	case "codigo":
		return value != "" && r.Codigo.String() == value
	default:
		return false
	}
}

type single[T any] struct {
	Data T `json:"data"`
}

// Product is a catalog entry in the ERP.
type Product struct {
	ID            utils.FlexString `json:"id"`
	Nome          string           `json:"nome"`
	CodigoInterno utils.FlexString `json:"codigo_interno"`
	Descricao     string           `json:"descricao"`
	PrecoVenda    utils.Amount     `json:"preco_venda"`
	Estoque       utils.Amount     `json:"estoque"`
	Altura        utils.Amount     `json:"altura"`
	Largura       utils.Amount     `json:"largura"`
	Comprimento   utils.Amount     `json:"comprimento"`
	Peso          utils.Amount     `json:"peso"`
	Ativo         utils.FlexString `json:"ativo"`
	Variacoes     []Variation      `json:"variacoes"`
	ModificadoEm  string           `json:"modificado_em"`
}

// Variation is one sellable variant of a Product.
type Variation struct {
	ID            utils.FlexString `json:"id"`
	Nome          string           `json:"nome"`
	CodigoInterno utils.FlexString `json:"codigo_interno"`
	PrecoVenda    utils.Amount     `json:"preco_venda"`
	Estoque       utils.Amount     `json:"estoque"`
	Atributos     []Attribute      `json:"atributos"`
}

// Attribute is a named variation property such as "Cor: Azul".
type Attribute struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

// UnmarshalJSON accepts both the bare variation object and the
// {"variacao": {...}} wrapper used by the product listing endpoint.
func (v *Variation) UnmarshalJSON(data []byte) error {
	type plain Variation
	var wrapped struct {
		Variacao *json.RawMessage `json:"variacao"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Variacao != nil && !bytes.Equal(*wrapped.Variacao, []byte("null")) {
		data = *wrapped.Variacao
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = Variation(p)
	return nil
}

// Address is the ERP address block shared by customers and orders.
type Address struct {
	CEP         string `json:"cep,omitempty"`
	Endereco    string `json:"endereco,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Estado      string `json:"estado,omitempty"`
	Pais        string `json:"pais,omitempty"`
}

// IsZero reports whether no location field is set. Pais alone does not count.
func (a Address) IsZero() bool {
	return a.CEP == "" && a.Endereco == "" && a.Numero == "" && a.Complemento == "" &&
		a.Bairro == "" && a.Cidade == "" && a.Estado == ""
}

// CustomerInput is the create/update body for /clientes.
type CustomerInput struct {
	Nome              string   `json:"nome" validate:"required"`
	TipoPessoa        string   `json:"tipo_pessoa" validate:"oneof=PF PJ"`
	CpfCnpj           string   `json:"cpf_cnpj,omitempty" validate:"required_without=Email"`
	Email             string   `json:"email,omitempty" validate:"required_without=CpfCnpj"`
	Telefone          string   `json:"telefone,omitempty"`
	Observacao        string   `json:"observacao,omitempty"`
	DataNascimento    string   `json:"data_nascimento,omitempty"`
	RazaoSocial       string   `json:"razao_social,omitempty"`
	InscricaoEstadual string   `json:"inscricao_estadual,omitempty"`
	Endereco          *Address `json:"endereco,omitempty"`
}

// OrderItem is one line of an OrderInput.
type OrderItem struct {
	Codigo        string  `json:"codigo"`
	Nome          string  `json:"nome"`
	Quantidade    float64 `json:"quantidade"`
	ValorUnitario float64 `json:"valor_unitario"`
	ValorTotal    float64 `json:"valor_total"`
}

// Shipping carries tracking and invoice data for an order.
type Shipping struct {
	CodigoRastreamento string `json:"codigo_rastreamento,omitempty"`
	URLRastreamento    string `json:"url_rastreamento,omitempty"`
	NotaFiscal         string `json:"nota_fiscal,omitempty"`
}

// OrderInput is the create/update body for /vendas.
type OrderInput struct {
	Codigo           string      `json:"codigo" validate:"required"`
	Data             string      `json:"data"`
	ClienteID        string      `json:"cliente_id"`
	ClienteNome      string      `json:"cliente_nome,omitempty"`
	ClienteDocumento string      `json:"cliente_documento,omitempty"`
	ClienteEmail     string      `json:"cliente_email,omitempty"`
	ClienteTelefone  string      `json:"cliente_telefone,omitempty"`
	Produtos         []OrderItem `json:"produtos" validate:"required,min=1"`
	ValorTotal       float64     `json:"valor_total"`
	Situacao         string      `json:"situacao"`
	FormaPagamento   string      `json:"forma_pagamento"`
	Origem           string      `json:"origem,omitempty"`
	CodigoOrigem     string      `json:"codigo_origem,omitempty"`
	Observacao       string      `json:"observacao,omitempty"`
	EnderecoEntrega  *Address    `json:"endereco_entrega,omitempty"`
	Envio            *Shipping   `json:"envio,omitempty"`
}
