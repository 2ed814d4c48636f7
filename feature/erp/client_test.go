package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "key", SecretKey: "secret", TimeoutSeconds: 5}, zap.NewNop())
}

func TestListProducts_DecodesLenientShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produtos", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("pagina"))
		assert.Equal(t, "50", r.URL.Query().Get("limite"))
		assert.Equal(t, "key", r.Header.Get("access-token"))
		assert.Equal(t, "secret", r.Header.Get("secret-access-token"))
		_, _ = w.Write([]byte(`{
			"code": 200, "status": "success",
			"meta": {"total_registros": 1, "total_paginas": 1, "pagina_atual": 1},
			"data": [{
				"id": 42, "nome": "Caneca", "codigo_interno": "CAN-1", "descricao": "Louça",
				"preco_venda": "29,90", "altura": "1.2", "largura": 0.8, "comprimento": "", "peso": "0.35",
				"variacoes": [
					{"variacao": {"id": "7", "nome": "Azul", "estoque": "3", "atributos": [{"nome": "Cor", "valor": "Azul"}]}},
					{"id": 8, "nome": "Verde"}
				]
			}]
		}`))
	})

	page, err := c.ListProducts(context.Background(), 1, 50)
	require.NoError(t, err)

	items, ok := page.Items()
	require.True(t, ok)
	require.Len(t, items, 1)

	p := items[0]
	assert.Equal(t, "42", p.ID.String())
	assert.Equal(t, "29.9", p.PrecoVenda.Value.String())
	assert.True(t, p.Largura.Valid)
	assert.False(t, p.Comprimento.Valid)
	require.Len(t, p.Variacoes, 2)
	assert.Equal(t, "7", p.Variacoes[0].ID.String())
	assert.Equal(t, "Azul", p.Variacoes[0].Atributos[0].Valor)
	assert.Equal(t, "8", p.Variacoes[1].ID.String())
	assert.Equal(t, "Verde", p.Variacoes[1].Nome)
}

func TestPage_MissingDataIsMalformed(t *testing.T) {
	var p Page[Product]
	require.NoError(t, json.Unmarshal([]byte(`{"code":200}`), &p))
	_, ok := p.Items()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"data":[]}`), &p))
	items, ok := p.Items()
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestFindCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clientes", r.URL.Path)
		if r.URL.Query().Get("cpf_cnpj") == "12345678901" {
			_, _ = w.Write([]byte(`{"data":[{"id":"C9","cpf_cnpj":"123.456.789-01"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	id, found, err := c.FindCustomer(context.Background(), "cpf_cnpj", "12345678901")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "C9", id)

	_, found, err = c.FindCustomer(context.Background(), "email", "x@y.z")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFind_IgnoresRecordsThatDoNotMatch(t *testing.T) {
	// An ERP that ignores the filter answers every search with the same page.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"OTHER-1","email":"someone@else.com","cpf_cnpj":"99988877766","codigo":"555"},
			{"id":"C2","email":"New@Customer.com","codigo":1001}
		]}`))
	})
	ctx := context.Background()

	id, found, err := c.FindCustomer(ctx, "email", "new@customer.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "C2", id)

	_, found, err = c.FindCustomer(ctx, "cpf_cnpj", "12345678901")
	require.NoError(t, err)
	assert.False(t, found)

	id, found, err = c.FindOrder(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "C2", id)

	_, found, err = c.FindOrder(ctx, "2002")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecord_Matches(t *testing.T) {
	r := Record{ID: "1", CpfCnpj: "12.345.678/0001-90", Email: " ana@example.com", Codigo: "77"}

	assert.True(t, r.Matches("cpf_cnpj", "12345678000190"))
	assert.True(t, r.Matches("email", "ANA@example.com"))
	assert.True(t, r.Matches("codigo", "77"))
	assert.False(t, r.Matches("codigo", ""))
	assert.False(t, r.Matches("cpf_cnpj", ""))
	assert.False(t, r.Matches("nome", "Ana"))
}

func TestCreateAndUpdateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/vendas", r.URL.Path)
			var body OrderInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "1001", body.Codigo)
			_, _ = w.Write([]byte(`{"code":200,"data":{"id":555}}`))
		case http.MethodPut:
			assert.Equal(t, "/vendas/555", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}
	})

	id, err := c.CreateOrder(context.Background(), OrderInput{Codigo: "1001"})
	require.NoError(t, err)
	assert.Equal(t, "555", id)

	require.NoError(t, c.UpdateOrder(context.Background(), id, map[string]any{"situacao": "faturado"}))
}

func TestCreate_RejectsResponseWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{}}`))
	})

	_, err := c.CreateCustomer(context.Background(), CustomerInput{Nome: "x"})
	assert.Error(t, err)
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{Pais: "Brasil"}.IsZero())
	assert.False(t, Address{Cidade: "Recife", Pais: "Brasil"}.IsZero())
}
