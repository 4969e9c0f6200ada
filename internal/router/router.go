package router

import (
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/config"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/handler"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/middleware"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Cache
// rdb may be nil: saga failures are then written to the reconcile log
// synchronously instead of through the job queue.
func New(cfg *config.Config, db *gorm.DB, store *cache.Store, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cashRepo := repository.NewCashTransactionRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	sagaLogRepo := repository.NewSagaLogRepository(db)

	// Failure reporter: injected into services that run multi-step writes
	var reporter saga.Reporter = worker.SagaLogReporter(sagaLogRepo)
	if rdb != nil {
		reporter = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo, historyRepo, store, cfg.LowStockThreshold)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo, historyRepo, store)
	tagSvc := service.NewTagService(tagRepo, store)
	saleSvc := service.NewSaleService(saleRepo, cashRepo, productRepo, store, reporter)
	cashSvc := service.NewCashService(cashRepo, saleRepo)
	quoteSvc := service.NewQuoteService(quoteRepo, saleRepo, cashRepo, productRepo, store, reporter)
	statsSvc := service.NewStatisticsService(productRepo, saleRepo, cashRepo, settingRepo, cfg.LowStockThreshold)
	settingSvc := service.NewSettingService(settingRepo)
	pricingSvc := service.NewPricingService()

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	tagsH := handler.NewTagsHandler(tagSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	cashH := handler.NewCashHandler(cashSvc)
	quotesH := handler.NewQuotesHandler(quoteSvc)
	statsH := handler.NewStatisticsHandler(statsSvc)
	settingsH := handler.NewSettingsHandler(settingSvc)
	pricingH := handler.NewPricingHandler(pricingSvc)
	reconciliationH := handler.NewReconciliationHandler(sagaLogRepo, rdb)
	cacheH := handler.NewCacheHandler(store)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, store, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/pricing/resolve", pricingH.Resolve)

		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.GET("/:id/price-history", productsH.PriceHistory)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoriesH.List)
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
			categories.POST("/:id/bulk-price-update", categoriesH.BulkPriceUpdate)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", tagsH.List)
			tags.POST("", tagsH.Create)
			tags.PUT("/:id", tagsH.Update)
			tags.DELETE("/:id", tagsH.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("", salesH.List)
			sales.POST("", salesH.Complete)
			sales.GET("/:id", salesH.Get)
			sales.DELETE("/:id", salesH.Delete)
		}

		cash := v1.Group("/cash")
		{
			cash.GET("/transactions", cashH.List)
			cash.POST("/transactions", cashH.Record)
			cash.DELETE("/transactions/:id", cashH.Delete)
			cash.GET("/balance", cashH.Balance)
			cash.GET("/summary", cashH.Summary)
			cash.POST("/sync", cashH.Sync)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.GET("", quotesH.List)
			quotes.POST("", quotesH.Create)
			quotes.GET("/:id", quotesH.Get)
			quotes.PUT("/:id", quotesH.Update)
			quotes.DELETE("/:id", quotesH.Delete)
			quotes.PATCH("/:id/status", quotesH.ChangeStatus)
			quotes.POST("/:id/convert", quotesH.Convert)
		}

		v1.GET("/statistics/potential", statsH.Potential)
		v1.GET("/statistics/realized", statsH.Realized)

		v1.GET("/settings", settingsH.List)
		v1.GET("/settings/:key", settingsH.Get)
		v1.PUT("/settings/:key", settingsH.Upsert)

		v1.POST("/cache/purge", cacheH.Purge)

		v1.GET("/reconciliation", reconciliationH.List)
		v1.GET("/reconciliation/dead-letters", reconciliationH.DeadLetters)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
