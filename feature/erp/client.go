package erp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"commerce-sync/core/apiclient"

	"go.uber.org/zap"
)

// API is the ERP surface used by the sync adapters.
type API interface {
	// ListProducts fetches one page of products.
	ListProducts(ctx context.Context, page, limit int) (*Page[Product], error)
	// FindCustomer looks a customer up by a filter field ("cpf_cnpj" or "email").
	FindCustomer(ctx context.Context, field, value string) (id string, found bool, err error)
	// CreateCustomer creates a customer and returns its id.
	CreateCustomer(ctx context.Context, body any) (string, error)
	// UpdateCustomer updates a customer.
	UpdateCustomer(ctx context.Context, id string, body any) error
	// FindOrder looks a sale up by its external code.
	FindOrder(ctx context.Context, code string) (id string, found bool, err error)
	// CreateOrder creates a sale and returns its id.
	CreateOrder(ctx context.Context, body any) (string, error)
	// UpdateOrder updates a sale.
	UpdateOrder(ctx context.Context, id string, body any) error
}

// Config holds ERP connection settings.
type Config struct {
	BaseURL        string `mapstructure:"base_url" default:"https://api.gestaoclick.com/api"`
	APIKey         string `mapstructure:"api_key" default:""`
	SecretKey      string `mapstructure:"secret_key" default:""`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"30"`
	MaxRetries     int    `mapstructure:"max_retries" default:"3"`
}

const (
	productsPath  = "produtos"
	customersPath = "clientes"
	ordersPath    = "vendas"
)

// Client talks to the ERP REST API.
type Client struct {
	http *apiclient.Client
}

// NewClient creates an ERP client authenticated with the access token pair.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		http: apiclient.New(apiclient.Options{
			BaseURL: cfg.BaseURL,
			Headers: map[string]string{
				"access-token":        cfg.APIKey,
				"secret-access-token": cfg.SecretKey,
			},
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("api", "erp")),
		}),
	}
}

func pageQuery(page, limit int) url.Values {
	return url.Values{
		"pagina": {strconv.Itoa(page)},
		"limite": {strconv.Itoa(limit)},
	}
}

func (c *Client) ListProducts(ctx context.Context, page, limit int) (*Page[Product], error) {
	var out Page[Product]
	if err := c.http.Get(ctx, productsPath, pageQuery(page, limit), &out); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &out, nil
}

func (c *Client) FindCustomer(ctx context.Context, field, value string) (string, bool, error) {
	return c.findOne(ctx, customersPath, field, value)
}

func (c *Client) CreateCustomer(ctx context.Context, body any) (string, error) {
	return c.create(ctx, customersPath, body)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, body any) error {
	return c.http.Put(ctx, customersPath+"/"+url.PathEscape(id), body, nil)
}

func (c *Client) FindOrder(ctx context.Context, code string) (string, bool, error) {
	return c.findOne(ctx, ordersPath, "codigo", code)
}

func (c *Client) CreateOrder(ctx context.Context, body any) (string, error) {
	return c.create(ctx, ordersPath, body)
}

func (c *Client) UpdateOrder(ctx context.Context, id string, body any) error {
	return c.http.Put(ctx, ordersPath+"/"+url.PathEscape(id), body, nil)
}

func (c *Client) findOne(ctx context.Context, path, field, value string) (string, bool, error) {
	var out Page[Record]
	if err := c.http.Get(ctx, path, url.Values{field: {value}}, &out); err != nil {
		return "", false, fmt.Errorf("failed to search %s by %s: %w", path, field, err)
	}
	// The filter is not trusted: some accounts ignore it and return the
	// first page.
	for _, r := range out.Data {
		if r.ID != "" && r.Matches(field, value) {
			return r.ID.String(), true, nil
		}
	}
	return "", false, nil
}

func (c *Client) create(ctx context.Context, path string, body any) (string, error) {
	var out single[Record]
	if err := c.http.Post(ctx, path, body, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("create %s: response carried no id", path)
	}
	return out.Data.ID.String(), nil
}
