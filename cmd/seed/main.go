// cmd/seed/main.go loads a small demo catalog: categories, tags, products
// and business settings. Existing names are left untouched, so it can run
// repeatedly.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/config"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name     string
	category string
	quantity int
	cost     string
	selling  string
}

var (
	categories = map[string]string{
		"Beverages": "#1E88E5",
		"Snacks":    "#FB8C00",
		"Cleaning":  "#43A047",
	}
	tags = map[string]string{
		"Imported": "#8E24AA",
		"On sale":  "#E53935",
	}
	products = []seedProduct{
		{"Cola 1.5L", "Beverages", 24, "850", "1200"},
		{"Mineral water 2L", "Beverages", 30, "400", "650"},
		{"Potato chips 150g", "Snacks", 12, "700", "1050"},
		{"Peanuts 200g", "Snacks", 3, "500", "800"},
		{"Bleach 1L", "Cleaning", 8, "600", "900"},
	}
	settings = map[string]string{
		"business_name": "Demo store",
		"currency":      "ARS",
	}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx := context.Background()
	store := cache.New(cache.NewMemoryBackend(), cfg.CacheTTL())
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	categorySvc := service.NewCategoryService(repository.NewCategoryRepository(db), productRepo, historyRepo, store)
	tagSvc := service.NewTagService(repository.NewTagRepository(db), store)
	productSvc := service.NewProductService(productRepo, historyRepo, store, cfg.LowStockThreshold)
	settingSvc := service.NewSettingService(repository.NewSettingRepository(db))

	categoryIDs := map[string]string{}
	for name, color := range categories {
		c, err := categorySvc.Create(ctx, dto.CreateCategoryRequest{Name: name, Color: color})
		if errors.Is(err, service.ErrDuplicateName) {
			log.Info().Str("category", name).Msg("already present, skipped")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("category", name).Msg("seed category")
		}
		categoryIDs[name] = c.ID
	}

	for name, color := range tags {
		if _, err := tagSvc.Create(ctx, dto.CreateTagRequest{Name: name, Color: color}); err != nil && !errors.Is(err, service.ErrDuplicateName) {
			log.Fatal().Err(err).Str("tag", name).Msg("seed tag")
		}
	}

	created := 0
	for _, p := range products {
		id, ok := categoryIDs[p.category]
		if !ok {
			// category existed before this run; its products were seeded then
			continue
		}
		req := dto.CreateProductRequest{
			Name:         p.name,
			Quantity:     p.quantity,
			CostPrice:    decimal.RequireFromString(p.cost),
			SellingPrice: decimal.RequireFromString(p.selling),
			CategoryID:   &id,
		}
		if _, err := productSvc.Create(ctx, req); err != nil {
			log.Fatal().Err(err).Str("product", p.name).Msg("seed product")
		}
		created++
	}

	for key, value := range settings {
		if _, err := settingSvc.Upsert(ctx, key, dto.UpsertSettingRequest{Value: value}); err != nil {
			log.Fatal().Err(err).Str("key", key).Msg("seed setting")
		}
	}

	log.Info().Int("categories", len(categoryIDs)).Int("products", created).Msg("seed complete")
}
