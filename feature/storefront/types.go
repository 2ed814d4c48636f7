package storefront

import "commerce-sync/core/utils"

// Page is the storefront list envelope. Data is nil when the response carried
// no "data" key.
type Page[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// Items returns the page items and whether the page was well formed.
func (p *Page[T]) Items() ([]T, bool) {
	if p == nil || p.Data == nil {
		return nil, false
	}
	return p.Data, true
}

// Meta carries the storefront pagination counters.
type Meta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Address is the storefront address block.
type Address struct {
	Zipcode  string `json:"zipcode"`
	Street   string `json:"street"`
	Number   string `json:"number"`
	Detail   string `json:"detail"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// Customer is a storefront customer.
type Customer struct {
	ID        utils.FlexString `json:"id"`
	Name      string           `json:"name"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Cgc       string           `json:"cgc"`
	Phone     string           `json:"phone"`
	Birthday  string           `json:"birthday"`
	Entity    string           `json:"entity"`
	Company   string           `json:"company"`
	IE        string           `json:"ie"`
	Address   *Address         `json:"address"`
	UpdatedAt string           `json:"updated_at"`
}

// OrderCustomer is the customer snapshot embedded in an order.
type OrderCustomer struct {
	ID    utils.FlexString `json:"id"`
	Name  string           `json:"name"`
	Cgc   string           `json:"cgc"`
	Email string           `json:"email"`
	Phone string           `json:"phone"`
}

// OrderItem is one order line.
type OrderItem struct {
	ID        utils.FlexString `json:"id"`
	Sku       string           `json:"sku"`
	Reference string           `json:"reference"`
	Name      string           `json:"name"`
	Quantity  utils.Amount     `json:"quantity"`
	Price     utils.Amount     `json:"price"`
	Total     utils.Amount     `json:"total"`
}

// Payment describes how an order was paid.
type Payment struct {
	Method string `json:"method"`
}

// Fulfillment carries shipping and invoice details.
type Fulfillment struct {
	ShippingCode     string `json:"shipping_code"`
	ShippingTrackURL string `json:"shipping_track_url"`
	NfeNumber        string `json:"nfe_number"`
}

// Order is a storefront order.
type Order struct {
	ID          utils.FlexString `json:"id"`
	Code        utils.FlexString `json:"code"`
	Status      string           `json:"status"`
	Total       utils.Amount     `json:"total"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Customer    *OrderCustomer   `json:"customer"`
	Items       []OrderItem      `json:"items"`
	Payment     *Payment         `json:"payment"`
	Address     *Address         `json:"address"`
	Fulfillment *Fulfillment     `json:"fulfillment"`
}

// Product is the subset of a storefront product read back by lookups.
type Product struct {
	ID         utils.FlexString `json:"id"`
	ExternalID string           `json:"external_id"`
	Sku        string           `json:"sku"`
	Name       string           `json:"name"`
}

// Attribute is a variation attribute attached to a product.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductInput is the create body for /products.
type ProductInput struct {
	ExternalID   string      `json:"external_id"`
	Name         string      `json:"name" validate:"required"`
	Description  string      `json:"description" validate:"required"`
	Sku          string      `json:"sku,omitempty"`
	Reference    string      `json:"reference,omitempty"`
	Code         string      `json:"code,omitempty"`
	Price        float64     `json:"price"`
	PriceCompare float64     `json:"price_compare"`
	Balance      int         `json:"balance"`
	Active       bool        `json:"active"`
	Type         string      `json:"type"`
	Height       float64     `json:"height" validate:"gt=0"`
	Width        float64     `json:"width" validate:"gt=0"`
	Depth        float64     `json:"depth" validate:"gt=0"`
	Weight       float64     `json:"weight" validate:"gt=0"`
	ColorID      string      `json:"color_id,omitempty"`
	Attributes   []Attribute `json:"attributes,omitempty"`
}

// Color is a storefront color used by variation attributes.
type Color struct {
	ID          utils.FlexString `json:"id"`
	Name        string           `json:"name"`
	Hexadecimal string           `json:"hexadecimal"`
}

// ColorInput is the create body for /colors.
type ColorInput struct {
	Name        string `json:"name"`
	Hexadecimal string `json:"hexadecimal"`
	Position    int    `json:"position"`
	Active      bool   `json:"active"`
}
