package service

import (
	"context"
	"testing"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// env wires every repository and service against a private in-memory
// SQLite database.
type env struct {
	db    *gorm.DB
	store *cache.Store

	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	sales    repository.SaleRepository
	cash     repository.CashTransactionRepository
	quotes   repository.QuoteRepository
	settings repository.SettingRepository

	reports []saga.Report

	productSvc  ProductService
	categorySvc CategoryService
	tagSvc      TagService
	saleSvc     SaleService
	cashSvc     CashService
	quoteSvc    QuoteService
	statsSvc    StatisticsService
	settingSvc  SettingService
}

var fixedNow = time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := infra.NewDatabase(infra.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := &env{
		db:       db,
		store:    cache.New(cache.NewMemoryBackend(), time.Minute),
		products: repository.NewProductRepository(db),
		history:  repository.NewPriceHistoryRepository(db),
		sales:    repository.NewSaleRepository(db),
		cash:     repository.NewCashTransactionRepository(db),
		quotes:   repository.NewQuoteRepository(db),
		settings: repository.NewSettingRepository(db),
	}
	reporter := saga.ReporterFunc(func(_ context.Context, r saga.Report) error {
		e.reports = append(e.reports, r)
		return nil
	})

	e.productSvc = NewProductService(e.products, e.history, e.store, model.DefaultLowStockThreshold)
	e.categorySvc = NewCategoryService(repository.NewCategoryRepository(db), e.products, e.history, e.store)
	e.tagSvc = NewTagService(repository.NewTagRepository(db), e.store)

	sale := NewSaleService(e.sales, e.cash, e.products, e.store, reporter).(*saleService)
	sale.now = func() time.Time { return fixedNow }
	e.saleSvc = sale

	cash := NewCashService(e.cash, e.sales).(*cashService)
	cash.now = func() time.Time { return fixedNow }
	e.cashSvc = cash

	quote := NewQuoteService(e.quotes, e.sales, e.cash, e.products, e.store, reporter).(*quoteService)
	quote.now = func() time.Time { return fixedNow }
	e.quoteSvc = quote

	stats := NewStatisticsService(e.products, e.sales, e.cash, e.settings, model.DefaultLowStockThreshold).(*statisticsService)
	stats.now = func() time.Time { return fixedNow }
	e.statsSvc = stats

	e.settingSvc = NewSettingService(e.settings)
	return e
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (e *env) product(t *testing.T, name string, qty int, cost, selling string) *dto.ProductResponse {
	t.Helper()
	p, err := e.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name:         name,
		Quantity:     qty,
		CostPrice:    dec(cost),
		SellingPrice: dec(selling),
	})
	require.NoError(t, err)
	return p
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return p.Quantity
}

func (e *env) saleTransactions(t *testing.T) []model.CashTransaction {
	t.Helper()
	txs, err := e.cash.List(context.Background(), model.CashSale, time.Time{}, time.Time{})
	require.NoError(t, err)
	return txs
}
