package customers

import (
	"strings"

	"commerce-sync/core/reconcile"
	"commerce-sync/core/utils"
	"commerce-sync/core/validation"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/storefront"
)

const (
	personIndividual = "PF"
	personCompany    = "PJ"
	// cpfLength is the digit count of an individual's document; longer ones are CNPJ.
	cpfLength = 11

	importNote     = "Cliente importado da loja virtual"
	defaultCountry = "Brasil"
)

// Natural key kinds, in lookup order.
const (
	KeyDocument = "cpf_cnpj"
	KeyEmail    = "email"
)

// Converter maps storefront customers to ERP customers.
type Converter struct {
	validate *validation.Validator
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{validate: validation.New()}
}

// DisplayName falls back to first and last name when name is blank.
func DisplayName(c storefront.Customer) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// PersonType classifies a digits-only document.
func PersonType(document string) string {
	if len(document) <= cpfLength {
		return personIndividual
	}
	return personCompany
}

// BuildInput maps a storefront customer to the ERP body.
func (c *Converter) BuildInput(src storefront.Customer) erp.CustomerInput {
	document := utils.DigitsOnly(src.Cgc)
	name := DisplayName(src)

	in := erp.CustomerInput{
		Nome:           name,
		TipoPessoa:     PersonType(document),
		CpfCnpj:        document,
		Email:          strings.TrimSpace(src.Email),
		Telefone:       strings.TrimSpace(src.Phone),
		Observacao:     importNote,
		DataNascimento: utils.NormalizeDate(src.Birthday),
	}

	if src.Entity == "company" || in.TipoPessoa == personCompany {
		in.RazaoSocial = utils.FirstNonEmpty(src.Company, name)
		in.InscricaoEstadual = strings.TrimSpace(src.IE)
	}

	if src.Address != nil {
		addr := erp.Address{
			CEP:         utils.DigitsOnly(src.Address.Zipcode),
			Endereco:    src.Address.Street,
			Numero:      src.Address.Number,
			Complemento: src.Address.Detail,
			Bairro:      src.Address.District,
			Cidade:      src.Address.City,
			Estado:      src.Address.State,
			Pais:        defaultCountry,
		}
		if !addr.IsZero() {
			in.Endereco = &addr
		}
	}
	return in
}

// Convert validates a customer and builds its payloads. A customer needs a
// name plus a document or an email.
func (c *Converter) Convert(src storefront.Customer) (*reconcile.Converted, error) {
	in := c.BuildInput(src)

	missing, err := c.validate.MissingFields(in)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, reconcile.NewValidationError(missing)
	}

	create, err := reconcile.PayloadOf(in)
	if err != nil {
		return nil, err
	}

	return &reconcile.Converted{
		Name:   in.Nome,
		Create: create,
		// The import note is only written once so ERP-side edits survive.
		Patch: create.Without("observacao"),
		NaturalKeys: []reconcile.NaturalKey{
			{Kind: KeyDocument, Value: in.CpfCnpj},
			{Kind: KeyEmail, Value: in.Email},
		},
	}, nil
}
