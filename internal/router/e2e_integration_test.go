//go:build integration

package router

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/config"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupPostgresRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("gestion_test"),
		tcPostgres.WithUsername("gestion"),
		tcPostgres.WithPassword("gestion"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:               "test",
		DatabaseDriver:    infra.DriverPostgres,
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		CacheTTLSeconds:   60,
		LowStockThreshold: 5,
	}
	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	// migrations are idempotent
	require.NoError(t, infra.Migrate(db))

	return New(cfg, db, cache.New(cache.NewRedisBackend(rdb), cfg.CacheTTL()), rdb)
}

func TestE2E_SaleCycle(t *testing.T) {
	r := setupPostgresRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	health := decode[map[string]any](t, w)
	assert.Equal(t, "redis", health["cache_backend"])
	assert.EqualValues(t, 0, health["dead_letters"])

	p := createProduct(t, r, "Yerba 1kg", 2)

	// cached read, then a sale must refresh it
	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/v1/sales", gin.H{
		"date":           time.Now().UnixMilli(),
		"payment_method": "cash",
		"items":          []gin.H{{"product_id": p.ID, "quantity": 5}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[dto.SaleResponse](t, w)

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.ProductResponse](t, w)
	assert.Equal(t, 0, got.Quantity, "stock is floored at zero")
	assert.True(t, got.LowStock)

	w = do(t, r, http.MethodGet, "/v1/cash/summary?range=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "750", decode[dto.CashSummaryResponse](t, w).TotalSales.String())

	w = do(t, r, http.MethodDelete, "/v1/sales/"+sale.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[dto.ProductResponse](t, w).Quantity)
}

func TestE2E_BulkPriceUpdateRecordsHistory(t *testing.T) {
	r := setupPostgresRouter(t)

	w := do(t, r, http.MethodPost, "/v1/categories", gin.H{"name": "Almacén"})
	require.Equal(t, http.StatusCreated, w.Code)
	cat := decode[dto.CategoryResponse](t, w)

	w = do(t, r, http.MethodPost, "/v1/products", gin.H{
		"name": "Arroz", "quantity": 10, "cost_price": "200", "selling_price": "300", "category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[dto.ProductResponse](t, w)

	w = do(t, r, http.MethodPost, "/v1/categories/"+cat.ID+"/bulk-price-update", gin.H{"cost_price_percentage": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[dto.BulkPriceUpdateResponse](t, w).UpdatedCount)

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.ProductResponse](t, w)
	assert.Equal(t, "220", got.CostPrice.String())
	assert.Equal(t, "330", got.SellingPrice.String())
	assert.Equal(t, "50", got.ProfitMargin.String())

	w = do(t, r, http.MethodGet, "/v1/products/"+p.ID+"/price-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[dto.PriceHistoryListResponse](t, w)
	require.EqualValues(t, 1, hist.Total)
	assert.Equal(t, model.PriceReasonBulk, hist.Data[0].Reason)
}
