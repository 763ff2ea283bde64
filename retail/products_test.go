package retail_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaspoint/retail-engine/retail"
	"github.com/gaspoint/retail-engine/retail/store"
)

func newProductRepo(t *testing.T) *retail.ProductRepository {
	t.Helper()
	r, err := retail.NewProductRepository(context.Background(), store.NewMemory())
	require.NoError(t, err)
	return r
}

func TestProducts_Add(t *testing.T) {
	r := newProductRepo(t)

	p, err := r.Add(context.Background(), retail.ProductInput{
		Description: "Gás P13", Price: retail.NewMoney(80), Stock: 50, Barcode: "7891234567890",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "80.00", p.Price.String(), "price is normalized to two places")
	assert.Equal(t, 50, p.Stock)
	assert.Empty(t, p.StockHistory)
}

func TestProducts_Add_Validation(t *testing.T) {
	r := newProductRepo(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input retail.ProductInput
	}{
		{"short description", retail.ProductInput{Description: "Gá", Price: retail.NewMoney(80), Stock: 10}},
		{"short accented description", retail.ProductInput{Description: "Pã", Price: retail.NewMoney(80), Stock: 10}},
		{"zero price", retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(0), Stock: 10}},
		{"negative price", retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(-5), Stock: 10}},
		{"negative stock", retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Add(ctx, tc.input)
			assert.True(t, errors.Is(err, retail.ErrValidation))
		})
	}
	assert.Empty(t, r.List())
}

func TestProducts_Add_DuplicateDescription(t *testing.T) {
	// Uniqueness is case-insensitive.
	r := newProductRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 10})
	require.NoError(t, err)

	_, err = r.Add(ctx, retail.ProductInput{Description: "GÁS P13", Price: retail.NewMoney(90), Stock: 5})
	var dupErr *retail.DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "description", dupErr.Field)
}

func TestProducts_Update_DoesNotTouchStock(t *testing.T) {
	// Stock only moves through sales or explicit adjustments.
	r := newProductRepo(t)
	ctx := context.Background()

	p, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 50})
	require.NoError(t, err)

	updated, err := r.Update(ctx, p.ID, retail.ProductUpdate{
		Description: "Botijão P13", Price: retail.NewMoney(85.50), Barcode: "123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Botijão P13", updated.Description)
	assert.Equal(t, "85.50", updated.Price.String())
	assert.Equal(t, 50, updated.Stock)
}

// =============================================================================
// MANUAL STOCK ADJUSTMENTS
// =============================================================================

func TestProducts_AdjustStock_AppendsHistory(t *testing.T) {
	// GIVEN: A product with 50 in stock
	// WHEN: 10 are added, then 5 subtracted
	// THEN: Stock is 55 and history holds both entries with before/after

	r := newProductRepo(t)
	ctx := context.Background()

	p, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 50})
	require.NoError(t, err)

	p, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentAddition, 10, "recebimento de carga")
	require.NoError(t, err)
	assert.Equal(t, 60, p.Stock)

	p, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentSubtraction, 5, "avaria no depósito")
	require.NoError(t, err)
	assert.Equal(t, 55, p.Stock)

	require.Len(t, p.StockHistory, 2)
	assert.Equal(t, retail.AdjustmentAddition, p.StockHistory[0].Type)
	assert.Equal(t, 50, p.StockHistory[0].StockBefore)
	assert.Equal(t, 60, p.StockHistory[0].StockAfter)
	assert.Equal(t, retail.AdjustmentSubtraction, p.StockHistory[1].Type)
	assert.Equal(t, 60, p.StockHistory[1].StockBefore)
	assert.Equal(t, 55, p.StockHistory[1].StockAfter)
}

func TestProducts_AdjustStock_RejectsNegativeResult(t *testing.T) {
	// GIVEN: A product with 3 in stock
	// WHEN: A subtraction of 5 is attempted
	// THEN: InvalidAdjustmentError; stock and history are untouched

	r := newProductRepo(t)
	ctx := context.Background()

	p, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 3})
	require.NoError(t, err)

	_, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentSubtraction, 5, "contagem errada")
	var adjErr *retail.InvalidAdjustmentError
	require.ErrorAs(t, err, &adjErr)
	assert.Equal(t, 3, adjErr.Current)
	assert.Equal(t, -5, adjErr.Delta)

	unchanged, err := r.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, unchanged.Stock)
	assert.Empty(t, unchanged.StockHistory, "rejected adjustment leaves no audit entry")
}

func TestProducts_AdjustStock_SubtractToZeroAllowed(t *testing.T) {
	r := newProductRepo(t)
	ctx := context.Background()

	p, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 3})
	require.NoError(t, err)

	p, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentSubtraction, 3, "baixa total")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestProducts_AdjustStock_Validation(t *testing.T) {
	r := newProductRepo(t)
	ctx := context.Background()

	p, err := r.Add(ctx, retail.ProductInput{Description: "Gás P13", Price: retail.NewMoney(80), Stock: 10})
	require.NoError(t, err)

	_, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentAddition, 0, "motivo válido")
	assert.True(t, errors.Is(err, retail.ErrValidation), "zero quantity")

	_, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentAddition, -4, "motivo válido")
	assert.True(t, errors.Is(err, retail.ErrValidation), "negative quantity")

	_, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentAddition, 5, "ab")
	assert.True(t, errors.Is(err, retail.ErrValidation), "short reason")

	// "né" is three bytes but two characters; still too short
	_, err = r.AdjustStock(ctx, p.ID, retail.AdjustmentAddition, 5, "né")
	assert.True(t, errors.Is(err, retail.ErrValidation), "short accented reason")

	_, err = r.AdjustStock(ctx, p.ID, "troca", 5, "motivo válido")
	assert.True(t, errors.Is(err, retail.ErrValidation), "unknown type")

	_, err = r.AdjustStock(ctx, "missing", retail.AdjustmentAddition, 5, "motivo válido")
	assert.True(t, retail.IsNotFound(err))
}
