package service

import (
	"context"
	"errors"
	"testing"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductDerivesMargin(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Cola", 10, "100", "150")

	assert.True(t, p.ProfitMargin.Equal(dec("50")), p.ProfitMargin.String())
	assert.Equal(t, model.DefaultLowStockThreshold, p.LowStockThreshold)
	assert.False(t, p.LowStock)
}

func TestCreateProductRejectsMissingPrices(t *testing.T) {
	e := newEnv(t)
	_, err := e.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Free", CostPrice: dec("0"), SellingPrice: dec("10"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cost_price")

	// rounds to zero
	_, err = e.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Dust", CostPrice: dec("0.001"), SellingPrice: dec("10"),
	})
	require.ErrorAs(t, err, &verr)
}

func TestCreateProductRejectsBlankName(t *testing.T) {
	e := newEnv(t)
	_, err := e.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name: "   ", CostPrice: dec("10"), SellingPrice: dec("15"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	res, err := e.productSvc.List(context.Background(), dto.ProductFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestUpdateProductRejectsBlankName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Tea", 3, "10", "15")
	id := uuid.MustParse(p.ID)

	blank := "  "
	_, err := e.productSvc.Update(ctx, id, dto.UpdateProductRequest{Name: &blank})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	got, err := e.productSvc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tea", got.Name)
}

func TestCreateProductBelowCostNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	req := dto.CreateProductRequest{Name: "Clearance", Quantity: 1, CostPrice: dec("100"), SellingPrice: dec("80")}

	_, err := e.productSvc.Create(context.Background(), req)
	var adv *AdvisoryError
	require.ErrorAs(t, err, &adv)
	assert.Equal(t, pricing.AdvisoryBelowCost, adv.Code)

	req.ConfirmBelowCost = true
	p, err := e.productSvc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, p.ProfitMargin.Equal(dec("-20")))
}

func TestUpdateProductRecordsPriceHistoryAndRefreshesCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Chips", 5, "100", "150")
	id := uuid.MustParse(p.ID)

	// warm the cache
	_, err := e.productSvc.Get(ctx, id)
	require.NoError(t, err)

	selling := dec("180")
	updated, err := e.productSvc.Update(ctx, id, dto.UpdateProductRequest{SellingPrice: &selling})
	require.NoError(t, err)
	assert.True(t, updated.ProfitMargin.Equal(dec("80")))

	got, err := e.productSvc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.SellingPrice.Equal(dec("180")), "cache must not serve the old price")

	rows, total, err := e.productSvc.PriceHistory(ctx, id, 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SellingBefore.Equal(dec("150")))
	assert.True(t, rows[0].SellingAfter.Equal(dec("180")))
	assert.Equal(t, model.PriceReasonManual, rows[0].Reason)
}

func TestUpdateProductWithoutPriceChangeSkipsHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Soap", 5, "10", "15")

	name := "Soap bar"
	_, err := e.productSvc.Update(ctx, uuid.MustParse(p.ID), dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	_, total, err := e.productSvc.PriceHistory(ctx, uuid.MustParse(p.ID), 1, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProductListFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "Orange juice", 2, "10", "20")
	e.product(t, "Apple juice", 40, "10", "20")
	e.product(t, "Bread", 1, "5", "8")

	res, err := e.productSvc.List(ctx, dto.ProductFilter{Search: "JUICE", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Equal(t, "Apple juice", res.Data[0].Name)

	res, err = e.productSvc.List(ctx, dto.ProductFilter{LowStock: true, Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	for _, p := range res.Data {
		assert.True(t, p.LowStock, p.Name)
	}
}

func TestDeleteProduct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Gum", 1, "1", "2")
	id := uuid.MustParse(p.ID)

	require.NoError(t, e.productSvc.Delete(ctx, id))
	_, err := e.productSvc.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, e.productSvc.Delete(ctx, id), ErrNotFound)
}
