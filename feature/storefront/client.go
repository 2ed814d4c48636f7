package storefront

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"commerce-sync/core/apiclient"

	"go.uber.org/zap"
)

// API is the storefront surface used by the sync adapters.
type API interface {
	// ListCustomers fetches one page of customers.
	ListCustomers(ctx context.Context, page, limit int) (*Page[Customer], error)
	// ListOrders fetches one page of orders.
	ListOrders(ctx context.Context, page, limit int) (*Page[Order], error)
	// FindProduct returns the first product whose field ("external_id", "sku") equals value.
	FindProduct(ctx context.Context, field, value string) (*Product, bool, error)
	// CreateProduct creates a product.
	CreateProduct(ctx context.Context, body any) (*Product, error)
	// UpdateProduct applies a partial update to a product.
	UpdateProduct(ctx context.Context, id string, body any) error
	// ListColors returns every registered color.
	ListColors(ctx context.Context) ([]Color, error)
	// CreateColor registers a new color.
	CreateColor(ctx context.Context, in ColorInput) (*Color, error)
}

// Config holds storefront connection settings.
type Config struct {
	BaseURL        string `mapstructure:"base_url" default:"https://api.dooca.store"`
	APIKey         string `mapstructure:"api_key" default:""`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"30"`
	MaxRetries     int    `mapstructure:"max_retries" default:"3"`
}

// Client talks to the storefront REST API.
type Client struct {
	http *apiclient.Client
}

// NewClient creates a storefront client authenticated with a bearer token.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		http: apiclient.New(apiclient.Options{
			BaseURL:    cfg.BaseURL,
			Headers:    map[string]string{"Authorization": "Bearer " + cfg.APIKey},
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("api", "storefront")),
		}),
	}
}

func pageQuery(page, limit int) url.Values {
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
}

func (c *Client) ListCustomers(ctx context.Context, page, limit int) (*Page[Customer], error) {
	var out Page[Customer]
	if err := c.http.Get(ctx, "/customers", pageQuery(page, limit), &out); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, page, limit int) (*Page[Order], error) {
	var out Page[Order]
	if err := c.http.Get(ctx, "/orders", pageQuery(page, limit), &out); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &out, nil
}

func (c *Client) FindProduct(ctx context.Context, field, value string) (*Product, bool, error) {
	var out Page[Product]
	if err := c.http.Get(ctx, "/products", url.Values{field: {value}}, &out); err != nil {
		return nil, false, fmt.Errorf("failed to search products by %s: %w", field, err)
	}
	// Some deployments ignore unknown filters and return the first page,
	// so the match is checked here.
	for i := range out.Data {
		p := &out.Data[i]
		if (field == "external_id" && p.ExternalID == value) || (field == "sku" && p.Sku == value) {
			return p, true, nil
		}
	}
	return nil, false, nil
}

func (c *Client) CreateProduct(ctx context.Context, body any) (*Product, error) {
	var out Product
	if err := c.http.Post(ctx, "/products", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create product: response carried no id")
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, body any) error {
	return c.http.Put(ctx, "/products/"+url.PathEscape(id), body, nil)
}

func (c *Client) ListColors(ctx context.Context) ([]Color, error) {
	var out Page[Color]
	if err := c.http.Get(ctx, "/colors", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	return out.Data, nil
}

func (c *Client) CreateColor(ctx context.Context, in ColorInput) (*Color, error) {
	var out Color
	if err := c.http.Post(ctx, "/colors", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create color %q: %w", in.Name, err)
	}
	return &out, nil
}
