package products

import (
	"context"
	"testing"

	"commerce-sync/core/apiclient"
	"commerce-sync/core/apperrors"
	"commerce-sync/core/reconcile"
	"commerce-sync/core/state"
	"commerce-sync/feature/erp"
	erpmocks "commerce-sync/feature/erp/mocks"
	"commerce-sync/feature/storefront"
	storemocks "commerce-sync/feature/storefront/mocks"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(fs afero.Fs) (*reconcile.Engine, *state.MappingStore, *state.IncompleteStore) {
	l := zap.NewNop()
	mappings := state.NewMappingStore(fs, "data/mapping.json", l)
	history := state.NewHistoryStore(fs, "data/history.json", l)
	incomplete := state.NewIncompleteStore(fs, "data/incomplete.json", l)
	return reconcile.NewEngine(mappings, history, incomplete, l), mappings, incomplete
}

func TestAdapter_EndToEnd(t *testing.T) {
	ctx := context.Background()
	source := new(erpmocks.API)
	target := new(storemocks.API)

	variant := completeProduct()
	variant.ID = "50"
	variant.Variacoes = []erp.Variation{
		{ID: "1", Nome: "Azul", CodigoInterno: "V-AZ", Atributos: []erp.Attribute{{Nome: "Cor", Valor: "Azul"}}},
	}
	incomplete := completeProduct()
	incomplete.ID = "60"
	incomplete.Descricao = ""

	source.On("ListProducts", mock.Anything, 1, 10).
		Return(&erp.Page[erp.Product]{Data: []erp.Product{completeProduct(), variant, incomplete}}, nil)

	target.On("ListColors", mock.Anything).Return([]storefront.Color{{ID: "c1", Name: "azul"}}, nil)
	target.On("FindProduct", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil)
	target.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p reconcile.Payload) bool { return p["external_id"] == "42" })).
		Return(&storefront.Product{ID: "T42"}, nil).Once()

	conflict := &apiclient.Error{Status: 422, Code: "color_attribute_already_exists", Kind: apperrors.CategoryAttributeConflict}
	target.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p reconcile.Payload) bool {
		return p["external_id"] == "50-1" && p["color_id"] == "c1"
	})).Return(nil, conflict).Once()
	target.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p reconcile.Payload) bool {
		_, hasColor := p["color_id"]
		return p["external_id"] == "50-1" && !hasColor
	})).Return(&storefront.Product{ID: "T50"}, nil).Once()

	engine, mappings, quarantine := newEngine(afero.NewMemMapFs())
	adapter := NewAdapter(source, target, reconcile.PageOptions{Limit: 10}, zap.NewNop())

	report, err := engine.Run(ctx, adapter)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.Created)
	assert.Equal(t, 1, report.Stats.Incomplete)
	assert.Equal(t, 0, report.Stats.Errors)

	id, ok := mappings.Get("products", "42")
	assert.True(t, ok)
	assert.Equal(t, "T42", id)
	id, ok = mappings.Get("products", "50-1")
	assert.True(t, ok)
	assert.Equal(t, "T50", id)

	rec, ok := quarantine.Get("products", "60")
	require.True(t, ok)
	assert.Equal(t, []string{"description"}, rec.MissingFields)

	target.AssertNotCalled(t, "CreateColor", mock.Anything, mock.Anything)
	target.AssertExpectations(t)
}

func TestAdapter_NaturalKeyLookupUsesTargetID(t *testing.T) {
	target := new(storemocks.API)
	target.On("FindProduct", mock.Anything, "sku", "CAN").Return(&storefront.Product{ID: "T9"}, true, nil)

	a := NewAdapter(new(erpmocks.API), target, reconcile.PageOptions{}, zap.NewNop())
	id, found, err := a.FindByNaturalKey(context.Background(), reconcile.NaturalKey{Kind: "sku", Value: "CAN"})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "T9", id)
}

func TestAdapter_PrepareSurvivesColorListingFailure(t *testing.T) {
	target := new(storemocks.API)
	target.On("ListColors", mock.Anything).Return(nil, assert.AnError)

	a := NewAdapter(new(erpmocks.API), target, reconcile.PageOptions{}, zap.NewNop())

	require.NoError(t, a.Prepare(context.Background()))
	assert.Equal(t, 0, a.colors.Len())
}

func TestAdapter_IdentifyRejectsForeignItems(t *testing.T) {
	a := NewAdapter(new(erpmocks.API), new(storemocks.API), reconcile.PageOptions{}, zap.NewNop())

	id, _ := a.Identify("not an item")
	assert.Empty(t, id)

	_, err := a.Convert(context.Background(), 42)
	assert.Error(t, err)
}

func TestAdapter_ReorderedVariationsAreResynced(t *testing.T) {
	ctx := context.Background()
	source := new(erpmocks.API)
	target := new(storemocks.API)

	product := completeProduct()
	product.ID = "10"
	product.CodigoInterno = ""
	a, b := erp.Variation{ID: "A", Nome: "A"}, erp.Variation{ID: "B", Nome: "B"}

	first, second := product, product
	first.Variacoes = []erp.Variation{a, b}
	second.Variacoes = []erp.Variation{b, a}

	source.On("ListProducts", mock.Anything, 1, 10).
		Return(&erp.Page[erp.Product]{Data: []erp.Product{first}}, nil).Once()
	source.On("ListProducts", mock.Anything, 1, 10).
		Return(&erp.Page[erp.Product]{Data: []erp.Product{second}}, nil).Once()

	target.On("ListColors", mock.Anything).Return([]storefront.Color{
		{ID: "c1", Name: "Modelo-1"}, {ID: "c2", Name: "Modelo-2"},
	}, nil)
	target.On("FindProduct", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil)
	target.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p reconcile.Payload) bool { return p["external_id"] == "10-A" })).
		Return(&storefront.Product{ID: "TA"}, nil).Once()
	target.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p reconcile.Payload) bool { return p["external_id"] == "10-B" })).
		Return(&storefront.Product{ID: "TB"}, nil).Once()
	target.On("UpdateProduct", mock.Anything, "TA", mock.MatchedBy(func(p reconcile.Payload) bool { return p["color_id"] == "c2" })).
		Return(nil).Once()
	target.On("UpdateProduct", mock.Anything, "TB", mock.MatchedBy(func(p reconcile.Payload) bool { return p["color_id"] == "c1" })).
		Return(nil).Once()

	engine, _, _ := newEngine(afero.NewMemMapFs())
	adapter := NewAdapter(source, target, reconcile.PageOptions{Limit: 10}, zap.NewNop())

	report, err := engine.Run(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Stats.Created)

	report, err = engine.Run(ctx, adapter)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Stats.Updated, "a position-derived color change must not be skipped")
	assert.Equal(t, 0, report.Stats.Skipped)
	target.AssertExpectations(t)
}

func TestAdapter_VersionFieldsIncludeResolvedVariant(t *testing.T) {
	a := NewAdapter(new(erpmocks.API), new(storemocks.API), reconcile.PageOptions{}, zap.NewNop())

	product := completeProduct()
	product.CodigoInterno = ""
	product.Variacoes = []erp.Variation{{ID: "A"}, {ID: "B"}}
	before := Expand(product)[0]

	product.Variacoes = []erp.Variation{{ID: "B"}, {ID: "A"}}
	after := Expand(product)[1]
	require.Equal(t, before.ExternalID, after.ExternalID)

	assert.NotEqual(t,
		reconcile.Fingerprint(a.VersionFields(before)),
		reconcile.Fingerprint(a.VersionFields(after)),
	)
}
