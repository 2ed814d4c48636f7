package customers

import (
	"context"
	"fmt"

	"commerce-sync/core/reconcile"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/storefront"

	"go.uber.org/zap"
)

// Adapter reconciles storefront customers into ERP customers.
type Adapter struct {
	source    storefront.API
	target    erp.API
	converter *Converter
	pages     reconcile.PageOptions
	logger    *zap.Logger
}

// NewAdapter creates a customers adapter.
func NewAdapter(source storefront.API, target erp.API, pages reconcile.PageOptions, logger *zap.Logger) *Adapter {
	return &Adapter{
		source:    source,
		target:    target,
		converter: NewConverter(),
		pages:     pages,
		logger:    logger.With(zap.String("class", string(reconcile.ClassCustomers))),
	}
}

func (a *Adapter) Class() reconcile.EntityClass {
	return reconcile.ClassCustomers
}

func (a *Adapter) FetchAll(ctx context.Context) ([]reconcile.SourceItem, error) {
	customers, err := reconcile.CollectAll(ctx, a.logger, a.pages, a.source.ListCustomers,
		func(p *storefront.Page[storefront.Customer]) ([]storefront.Customer, bool) { return p.Items() })
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storefront customers: %w", err)
	}

	items := make([]reconcile.SourceItem, len(customers))
	for i, c := range customers {
		items[i] = c
	}
	a.logger.Info("Customers fetched", zap.Int("customers", len(items)))
	return items, nil
}

func (a *Adapter) Identify(item reconcile.SourceItem) (string, string) {
	c, ok := item.(storefront.Customer)
	if !ok {
		return "", ""
	}
	return c.ID.String(), DisplayName(c)
}

// VersionFields drops updated_at; everything else reaches the ERP.
func (a *Adapter) VersionFields(item reconcile.SourceItem) any {
	c, _ := item.(storefront.Customer)
	c.UpdatedAt = ""
	return c
}

func (a *Adapter) Convert(_ context.Context, item reconcile.SourceItem) (*reconcile.Converted, error) {
	c, ok := item.(storefront.Customer)
	if !ok {
		return nil, fmt.Errorf("unexpected customer item %T", item)
	}
	return a.converter.Convert(c)
}

func (a *Adapter) FindByNaturalKey(ctx context.Context, key reconcile.NaturalKey) (string, bool, error) {
	return a.target.FindCustomer(ctx, key.Kind, key.Value)
}

func (a *Adapter) Create(ctx context.Context, payload reconcile.Payload) (string, error) {
	return a.target.CreateCustomer(ctx, payload)
}

func (a *Adapter) Update(ctx context.Context, targetID string, patch reconcile.Payload) error {
	return a.target.UpdateCustomer(ctx, targetID, patch)
}
