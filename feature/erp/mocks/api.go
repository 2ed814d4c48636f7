package mocks

import (
	"context"

	"commerce-sync/feature/erp"

	"github.com/stretchr/testify/mock"
)

// API is a mock implementation of erp.API
type API struct {
	mock.Mock
}

func (m *API) ListProducts(ctx context.Context, page, limit int) (*erp.Page[erp.Product], error) {
	args := m.Called(ctx, page, limit)
	if p, ok := args.Get(0).(*erp.Page[erp.Product]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) FindCustomer(ctx context.Context, field, value string) (string, bool, error) {
	args := m.Called(ctx, field, value)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *API) CreateCustomer(ctx context.Context, body any) (string, error) {
	args := m.Called(ctx, body)
	return args.String(0), args.Error(1)
}

func (m *API) UpdateCustomer(ctx context.Context, id string, body any) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}

func (m *API) FindOrder(ctx context.Context, code string) (string, bool, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *API) CreateOrder(ctx context.Context, body any) (string, error) {
	args := m.Called(ctx, body)
	return args.String(0), args.Error(1)
}

func (m *API) UpdateOrder(ctx context.Context, id string, body any) error {
	args := m.Called(ctx, id, body)
	return args.Error(0)
}
