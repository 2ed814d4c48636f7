package products

import (
	"context"
	"fmt"

	"commerce-sync/core/reconcile"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/storefront"

	"go.uber.org/zap"
)

// Adapter reconciles ERP products into storefront products.
type Adapter struct {
	source    erp.API
	target    storefront.API
	converter *Converter
	pages     reconcile.PageOptions
	logger    *zap.Logger

	// colors is rebuilt by Prepare at the start of every run.
	colors *ColorCache
}

// NewAdapter creates a products adapter.
func NewAdapter(source erp.API, target storefront.API, pages reconcile.PageOptions, logger *zap.Logger) *Adapter {
	l := logger.With(zap.String("class", string(reconcile.ClassProducts)))
	return &Adapter{
		source:    source,
		target:    target,
		converter: NewConverter(nil, l),
		pages:     pages,
		logger:    l,
	}
}

// Class returns the products class.
func (a *Adapter) Class() reconcile.EntityClass {
	return reconcile.ClassProducts
}

// Prepare starts a fresh color cache for the run. A failed listing leaves the
// cache empty; colors are then created on demand.
func (a *Adapter) Prepare(ctx context.Context) error {
	a.colors = NewColorCache(a.target, a.logger)
	if err := a.colors.Load(ctx); err != nil {
		a.logger.Warn("Color listing failed, starting with an empty color cache", zap.Error(err))
	}
	return nil
}

// FetchAll pages through ERP products and expands them into items.
func (a *Adapter) FetchAll(ctx context.Context) ([]reconcile.SourceItem, error) {
	products, err := reconcile.CollectAll(ctx, a.logger, a.pages, a.source.ListProducts,
		func(p *erp.Page[erp.Product]) ([]erp.Product, bool) { return p.Items() })
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ERP products: %w", err)
	}

	var items []reconcile.SourceItem
	for _, p := range products {
		for _, it := range Expand(p) {
			items = append(items, it)
		}
	}
	a.logger.Info("Products fetched", zap.Int("products", len(products)), zap.Int("items", len(items)))
	return items, nil
}

func (a *Adapter) Identify(item reconcile.SourceItem) (string, string) {
	it, ok := item.(Item)
	if !ok || it.Product.ID == "" {
		return "", ""
	}
	return it.ExternalID, it.DisplayName()
}

func (a *Adapter) VersionFields(item reconcile.SourceItem) any {
	it, _ := item.(Item)
	variant, _ := a.converter.VariantName(it)
	return it.version(variant)
}

func (a *Adapter) Convert(ctx context.Context, item reconcile.SourceItem) (*reconcile.Converted, error) {
	it, ok := item.(Item)
	if !ok {
		return nil, fmt.Errorf("unexpected product item %T", item)
	}
	var colors ColorResolver
	if a.colors != nil {
		colors = a.colors
	}
	return a.converter.Convert(ctx, it, colors)
}

func (a *Adapter) FindByNaturalKey(ctx context.Context, key reconcile.NaturalKey) (string, bool, error) {
	p, found, err := a.target.FindProduct(ctx, key.Kind, key.Value)
	if err != nil || !found {
		return "", false, err
	}
	return p.ID.String(), true, nil
}

func (a *Adapter) Create(ctx context.Context, payload reconcile.Payload) (string, error) {
	p, err := a.target.CreateProduct(ctx, payload)
	if err != nil {
		return "", err
	}
	return p.ID.String(), nil
}

func (a *Adapter) Update(ctx context.Context, targetID string, patch reconcile.Payload) error {
	return a.target.UpdateProduct(ctx, targetID, patch)
}
