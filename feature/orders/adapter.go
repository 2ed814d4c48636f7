package orders

import (
	"context"
	"fmt"

	"commerce-sync/core/reconcile"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/storefront"

	"go.uber.org/zap"
)

// Adapter reconciles storefront orders into ERP sales.
type Adapter struct {
	source    storefront.API
	target    erp.API
	converter *Converter
	pages     reconcile.PageOptions
	logger    *zap.Logger
}

// NewAdapter creates an orders adapter. customers resolves order customers
// to ERP ids, normally the entity mapping store.
func NewAdapter(source storefront.API, target erp.API, customers CustomerLookup, pages reconcile.PageOptions, logger *zap.Logger) *Adapter {
	return &Adapter{
		source:    source,
		target:    target,
		converter: NewConverter(customers),
		pages:     pages,
		logger:    logger.With(zap.String("class", string(reconcile.ClassOrders))),
	}
}

func (a *Adapter) Class() reconcile.EntityClass {
	return reconcile.ClassOrders
}

func (a *Adapter) FetchAll(ctx context.Context) ([]reconcile.SourceItem, error) {
	orders, err := reconcile.CollectAll(ctx, a.logger, a.pages, a.source.ListOrders,
		func(p *storefront.Page[storefront.Order]) ([]storefront.Order, bool) { return p.Items() })
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storefront orders: %w", err)
	}

	items := make([]reconcile.SourceItem, len(orders))
	for i, o := range orders {
		items[i] = o
	}
	a.logger.Info("Orders fetched", zap.Int("orders", len(items)))
	return items, nil
}

func (a *Adapter) Identify(item reconcile.SourceItem) (string, string) {
	o, ok := item.(storefront.Order)
	if !ok {
		return "", ""
	}
	return o.ID.String(), "Pedido " + Code(o)
}

// VersionFields drops updated_at. The customer mapping is not part of the
// order, so a quarantined order is retried whenever it is fetched again.
func (a *Adapter) VersionFields(item reconcile.SourceItem) any {
	o, _ := item.(storefront.Order)
	o.UpdatedAt = ""
	return o
}

func (a *Adapter) Convert(_ context.Context, item reconcile.SourceItem) (*reconcile.Converted, error) {
	o, ok := item.(storefront.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected order item %T", item)
	}
	return a.converter.Convert(o)
}

func (a *Adapter) FindByNaturalKey(ctx context.Context, key reconcile.NaturalKey) (string, bool, error) {
	if key.Kind != KeyCode {
		return "", false, nil
	}
	return a.target.FindOrder(ctx, key.Value)
}

func (a *Adapter) Create(ctx context.Context, payload reconcile.Payload) (string, error) {
	return a.target.CreateOrder(ctx, payload)
}

func (a *Adapter) Update(ctx context.Context, targetID string, patch reconcile.Payload) error {
	return a.target.UpdateOrder(ctx, targetID, patch)
}
