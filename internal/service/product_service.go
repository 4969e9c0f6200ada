package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PriceHistory(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.PriceHistoryResponse, int64, error)
}

type productService struct {
	repo            repository.ProductRepository
	history         repository.PriceHistoryRepository
	cache           *cache.Store
	lowStockDefault int
}

func NewProductService(repo repository.ProductRepository, history repository.PriceHistoryRepository, store *cache.Store, lowStockDefault int) ProductService {
	return &productService{repo: repo, history: history, cache: store, lowStockDefault: lowStockDefault}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	prices, err := resolveSave(req.CostPrice, req.SellingPrice, req.ConfirmBelowCost)
	if err != nil {
		return nil, err
	}
	p := &model.Product{
		Name:              name,
		Quantity:          req.Quantity,
		CostPrice:         prices.Cost,
		SellingPrice:      prices.Selling,
		ProfitMargin:      prices.Margin,
		LowStockThreshold: model.DefaultLowStockThreshold,
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := parseID("category_id", *req.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &id
	}
	if p.TagIDs, err = parseTagIDs(req.TagIDs); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProduct(*p, s.lowStockDefault)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	resp, err := cache.Fetch(ctx, s.cache, cache.ProductKey(id), func(ctx context.Context) (dto.ProductResponse, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return dto.ProductResponse{}, notFound(err, "product")
		}
		return mapProduct(*p, s.lowStockDefault), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter, s.lowStockDefault)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, mapProduct(p, s.lowStockDefault))
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	before := pricing.Prices{Cost: p.CostPrice, Selling: p.SellingPrice, Margin: p.ProfitMargin}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name", "name is required")
		}
		p.Name = name
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cid, err := parseID("category_id", *req.CategoryID)
			if err != nil {
				return nil, err
			}
			p.CategoryID = &cid
		}
	}
	var tags []uuid.UUID
	if req.TagIDs != nil {
		if tags, err = parseTagIDs(*req.TagIDs); err != nil {
			return nil, err
		}
	}

	if req.CostPrice != nil || req.SellingPrice != nil {
		cost, selling := p.CostPrice, p.SellingPrice
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		prices, err := resolveSave(cost, selling, req.ConfirmBelowCost)
		if err != nil {
			return nil, err
		}
		p.CostPrice, p.SellingPrice, p.ProfitMargin = prices.Cost, prices.Selling, prices.Margin
	}

	if err := s.repo.Update(ctx, p, tags); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProductKey(id))

	after := pricing.Prices{Cost: p.CostPrice, Selling: p.SellingPrice, Margin: p.ProfitMargin}
	recordPriceChange(ctx, s.history, id, before, after, model.PriceReasonManual)

	resp := mapProduct(*p, s.lowStockDefault)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "product")
	}
	s.cache.Invalidate(ctx, cache.ProductKey(id))
	return nil
}

func (s *productService) PriceHistory(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.PriceHistoryResponse, int64, error) {
	rows, total, err := s.history.ListByProduct(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PriceHistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, mapPriceHistory(h))
	}
	return out, total, nil
}

// recordPriceChange appends a history row when any price moved. The price
// update itself is already persisted, so a failure here is only logged.
func recordPriceChange(ctx context.Context, repo repository.PriceHistoryRepository, id uuid.UUID, before, after pricing.Prices, reason string) {
	if before.Cost.Equal(after.Cost) && before.Selling.Equal(after.Selling) && before.Margin.Equal(after.Margin) {
		return
	}
	h := &model.PriceHistory{
		ProductID:     id,
		CostBefore:    before.Cost,
		CostAfter:     after.Cost,
		SellingBefore: before.Selling,
		SellingAfter:  after.Selling,
		MarginBefore:  before.Margin,
		MarginAfter:   after.Margin,
		Reason:        reason,
	}
	if err := repo.Create(ctx, h); err != nil {
		log.Error().Err(err).Str("product_id", id.String()).Msg("price history: failed to record change")
	}
}

// resolveSave applies the save rules and derives the margin. Stored prices
// and margin are rounded to cents.
func resolveSave(cost, selling decimal.Decimal, confirmBelowCost bool) (pricing.Prices, error) {
	cost, selling = pricing.Round2(cost), pricing.Round2(selling)
	advisory, err := pricing.ValidateSave(cost, selling)
	if err != nil {
		return pricing.Prices{}, priceError(err)
	}
	if advisory == pricing.AdvisoryBelowCost && !confirmBelowCost {
		return pricing.Prices{}, errBelowCost
	}
	margin, ok := pricing.MarginFromPrices(cost, selling)
	if !ok {
		margin = decimal.Zero
	}
	return pricing.Prices{Cost: cost, Selling: selling, Margin: pricing.Round2(margin)}, nil
}

func parseTagIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, invalid(fmt.Sprintf("tag_ids[%d]", i), "invalid id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
