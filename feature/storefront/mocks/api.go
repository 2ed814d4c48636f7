package mocks

import (
	"context"

	"commerce-sync/feature/storefront"

	"github.com/stretchr/testify/mock"
)

// API is a mock implementation of storefront.API
type API struct {
	mock.Mock
}

func (m *API) ListCustomers(ctx context.Context, page, limit int) (*storefront.Page[storefront.Customer], error) {
	args := m.Called(ctx, page, limit)
	if p, ok := args.Get(0).(*storefront.Page[storefront.Customer]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) ListOrders(ctx context.Context, page, limit int) (*storefront.Page[storefront.Order], error) {
	args := m.Called(ctx, page, limit)
	if p, ok := args.Get(0).(*storefront.Page[storefront.Order]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) FindProduct(ctx context.Context, field, value string) (*storefront.Product, bool, error) {
	args := m.Called(ctx, field, value)
	if p, ok := args.Get(0).(*storefront.Product); ok {
		return p, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *API) CreateProduct(ctx context.Context, body any) (*storefront.Product, error) {
	args := m.Called(ctx, body)
	if p, ok := args.Get(0).(*storefront.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) UpdateProduct(ctx context.Context, id string, body any) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *API) ListColors(ctx context.Context) ([]storefront.Color, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]storefront.Color); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateColor(ctx context.Context, in storefront.ColorInput) (*storefront.Color, error) {
	args := m.Called(ctx, in)
	if c, ok := args.Get(0).(*storefront.Color); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
