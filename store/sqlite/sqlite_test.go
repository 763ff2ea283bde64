package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaspoint/retail-engine/retail"
	"github.com/gaspoint/retail-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_GetSetRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Absent key reads as (nil, nil)
	raw, err := s.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, s.Set(ctx, "clientes", []byte(`[{"nome":"Ana"}]`)))
	raw, err = s.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"nome":"Ana"}]`, string(raw))

	// Set is an upsert
	require.NoError(t, s.Set(ctx, "clientes", []byte(`[]`)))
	raw, err = s.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	require.NoError(t, s.Remove(ctx, "clientes"))
	raw, err = s.Get(ctx, "clientes")
	require.NoError(t, err)
	assert.Nil(t, raw)

	// Removing an absent key is a no-op
	assert.NoError(t, s.Remove(ctx, "clientes"))
}

func TestSQLite_SetBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetBatch(ctx, map[string][]byte{
		"produtos": []byte(`[{"descricao":"Gás P13"}]`),
		"vendas":   []byte(`[]`),
	}))

	raw, err := s.Get(ctx, "produtos")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Gás P13")

	raw, err = s.Get(ctx, "vendas")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestSQLite_BacksTheRetailCore(t *testing.T) {
	// GIVEN: Repositories and a ledger on a SQLite store
	// WHEN: A sale is recorded
	// THEN: Both documents land in the database and survive a reload

	s := newTestStore(t)
	ctx := context.Background()

	customers, err := retail.NewCustomerRepository(ctx, s)
	require.NoError(t, err)
	products, err := retail.NewProductRepository(ctx, s)
	require.NoError(t, err)
	ledger, err := retail.NewLedger(ctx, s, customers, products)
	require.NoError(t, err)

	ana, err := customers.Add(ctx, retail.CustomerInput{
		Name: "Ana Souza", Phone: "11999990000", Address: "Rua das Flores, 123",
	})
	require.NoError(t, err)
	p13, err := products.Add(ctx, retail.ProductInput{
		Description: "Gás P13", Price: retail.NewMoney(80), Stock: 10,
	})
	require.NoError(t, err)

	_, err = ledger.RecordSale(ctx, retail.SaleInput{
		CustomerID: ana.ID, ProductID: p13.ID, Quantity: 3, Payment: retail.PaymentPix,
	})
	require.NoError(t, err)

	// Fresh owners over the same database see the committed state.
	products2, err := retail.NewProductRepository(ctx, s)
	require.NoError(t, err)
	got, err := products2.Get(p13.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	ledger2, err := retail.NewLedger(ctx, s, customers, products2)
	require.NoError(t, err)
	require.Len(t, ledger2.Sales(), 1)
	assert.Equal(t, "240.00", ledger2.Sales()[0].Total.String())
}
