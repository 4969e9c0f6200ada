package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/apierror"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/config"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := infra.NewDatabase(infra.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	cfg := &config.Config{Env: "test", LowStockThreshold: 5}
	return New(cfg, db, cache.New(cache.NewMemoryBackend(), time.Minute), nil)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createProduct(t *testing.T, r http.Handler, name string, qty int) dto.ProductResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/v1/products", gin.H{
		"name": name, "quantity": qty, "cost_price": 100, "selling_price": "150",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ProductResponse](t, w)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "memory", body["cache_backend"])
	assert.NotContains(t, body, "dead_letters")
}

func TestProductErrorsMapToStatusCodes(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/v1/products", gin.H{"cost_price": 1, "selling_price": 2})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	verr := decode[apierror.ValidationError](t, w)
	assert.Contains(t, verr.Fields, "name")

	w = do(t, r, http.MethodPost, "/v1/products", gin.H{"name": "Free", "cost_price": 0, "selling_price": 2})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	verr = decode[apierror.ValidationError](t, w)
	assert.Contains(t, verr.Fields, "cost_price")

	w = do(t, r, http.MethodPost, "/v1/products", gin.H{"name": "   ", "cost_price": 10, "selling_price": 15})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	verr = decode[apierror.ValidationError](t, w)
	assert.Contains(t, verr.Fields, "name")

	below := gin.H{"name": "Loss", "cost_price": 100, "selling_price": 80}
	w = do(t, r, http.MethodPost, "/v1/products", below)
	require.Equal(t, http.StatusConflict, w.Code)
	adv := decode[apierror.AdvisoryError](t, w)
	assert.Equal(t, "selling_below_cost", adv.Advisory)

	below["confirm_below_cost"] = true
	w = do(t, r, http.MethodPost, "/v1/products", below)
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[dto.ProductResponse](t, w)
	assert.Equal(t, "-20", p.ProfitMargin.String())

	w = do(t, r, http.MethodGet, "/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/v1/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/v1/products", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryDuplicateIsConflict(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/v1/categories", gin.H{"name": "Drinks"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, r, http.MethodPost, "/v1/categories", gin.H{"name": "drinks"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	p := createProduct(t, r, "Cola", 10)

	w := do(t, r, http.MethodPost, "/v1/sales", gin.H{
		"payment_method": "cash",
		"items":          []gin.H{{"product_id": p.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "450", sale.TotalAmount.String())

	w = do(t, r, http.MethodGet, "/v1/cash/transactions?type=sale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	txs := decode[[]dto.CashTransactionResponse](t, w)
	require.Len(t, txs, 1)

	// sale rows only go away with their sale
	w = do(t, r, http.MethodDelete, "/v1/cash/transactions/"+txs[0].ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/v1/sales?range=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.SaleListResponse](t, w)
	assert.EqualValues(t, 1, list.Total)

	w = do(t, r, http.MethodDelete, "/v1/sales/"+sale.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, decode[dto.ProductResponse](t, w).Quantity)

	w = do(t, r, http.MethodGet, "/v1/cash/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.CashBalanceResponse](t, w).Balance.IsZero())
}

func TestSaleRequestValidation(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/v1/sales", gin.H{
		"payment_method": "cash",
		"items":          []gin.H{{"product_id": uuid.NewString(), "quantity": 0}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	verr := decode[apierror.ValidationError](t, w)
	assert.Contains(t, verr.Fields, "items[0].quantity")
}

func TestQuoteConversionOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	p := createProduct(t, r, "Chips", 5)

	w := do(t, r, http.MethodPost, "/v1/quotes", gin.H{
		"customer_name": "ACME",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 2, "unit_price": "140"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[dto.QuoteResponse](t, w)

	w = do(t, r, http.MethodPatch, "/v1/quotes/"+q.ID+"/status", gin.H{"status": "converted"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "converted is not a settable status")

	w = do(t, r, http.MethodPost, "/v1/quotes/"+q.ID+"/convert", gin.H{"payment_method": "card"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[dto.ConvertQuoteResponse](t, w)
	assert.Equal(t, "converted", res.Quote.Status)
	assert.Equal(t, "280", res.Sale.TotalAmount.String())

	w = do(t, r, http.MethodPost, "/v1/quotes/"+q.ID+"/convert", gin.H{"payment_method": "card"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = do(t, r, http.MethodPut, "/v1/quotes/"+q.ID, gin.H{"customer_name": "Other"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStatisticsRangeQuery(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/v1/statistics/realized?range=custom&start=2024-01-01", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	verr := decode[apierror.ValidationError](t, w)
	assert.Contains(t, verr.Fields, "end")

	w = do(t, r, http.MethodGet, "/v1/statistics/realized?range=weekly", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, "/v1/statistics/realized?range=custom&start=2024-01-01&end=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[dto.RealizedStatsResponse](t, w)
	assert.Equal(t, "custom", st.Range)
	require.NotNil(t, st.End)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), st.End.UTC())

	w = do(t, r, http.MethodGet, "/v1/statistics/potential", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[dto.PotentialStatsResponse](t, w).LowStockThreshold)
}

func TestPricingResolveOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/v1/pricing/resolve", gin.H{
		"cost_price": 100, "selling_price": 150, "profit_margin": 50,
		"field": "cost_price", "value": 200,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[dto.ResolvePriceResponse](t, w)
	assert.Equal(t, "300", res.SellingPrice.String())

	w = do(t, r, http.MethodPost, "/v1/pricing/resolve", gin.H{"field": "discount"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCachePurgeDropsCachedReads(t *testing.T) {
	db, err := infra.NewDatabase(infra.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	backend := cache.NewMemoryBackend()
	r := New(&config.Config{Env: "test", LowStockThreshold: 5}, db, cache.New(backend, time.Minute), nil)

	p := createProduct(t, r, "Mate", 4)
	w := do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, backend.Len())

	w = do(t, r, http.MethodPost, "/v1/cache/purge", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, backend.Len())

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mate", decode[dto.ProductResponse](t, w).Name)
}

func TestReconciliationStartsEmpty(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/v1/reconciliation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = do(t, r, http.MethodGet, "/v1/reconciliation/dead-letters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
