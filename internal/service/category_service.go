package service

import (
	"context"
	"errors"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultColor = "#808080"

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkUpdatePrices(ctx context.Context, id uuid.UUID, req dto.BulkPriceUpdateRequest) (dto.BulkPriceUpdateResponse, error)
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	cache    *cache.Store
}

func NewCategoryService(
	repo repository.CategoryRepository,
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	store *cache.Store,
) CategoryService {
	return &categoryService{repo: repo, products: products, history: history, cache: store}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.CategoryResponse{}, invalid("name", "name is required")
	}
	if err := s.ensureUniqueName(ctx, name, uuid.Nil); err != nil {
		return dto.CategoryResponse{}, err
	}

	c := &model.Category{Name: name, Color: req.Color}
	if c.Color == "" {
		c.Color = defaultColor
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	s.cache.Invalidate(ctx, cache.KeyCategories)
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyCategories, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		result := make([]dto.CategoryResponse, 0, len(list))
		for _, c := range list {
			result = append(result, mapCategory(c))
		}
		return result, nil
	})
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, notFound(err, "category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.CategoryResponse{}, invalid("name", "name is required")
		}
		if !strings.EqualFold(name, c.Name) {
			if err := s.ensureUniqueName(ctx, name, id); err != nil {
				return dto.CategoryResponse{}, err
			}
		}
		c.Name = name
	}
	if req.Color != nil {
		c.Color = *req.Color
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	s.cache.Invalidate(ctx, cache.KeyCategories)
	return mapCategory(*c), nil
}

// Delete leaves products pointing at the removed category.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "category")
	}
	s.cache.Invalidate(ctx, cache.KeyCategories)
	return nil
}

// BulkUpdatePrices applies a percentage update to every product in the
// category. Each product is written on its own with only the changed
// columns; the result counts products that actually changed.
func (s *categoryService) BulkUpdatePrices(ctx context.Context, id uuid.UUID, req dto.BulkPriceUpdateRequest) (dto.BulkPriceUpdateResponse, error) {
	upd := pricing.BulkUpdate{
		CostPricePercentage:    req.CostPricePercentage,
		SellingPricePercentage: req.SellingPricePercentage,
		ProfitMarginPercentage: req.ProfitMarginPercentage,
	}
	if err := upd.Validate(); err != nil {
		var pe *pricing.PercentageError
		switch {
		case errors.Is(err, pricing.ErrNoUpdateSelected):
			return dto.BulkPriceUpdateResponse{}, invalid("update", err.Error())
		case errors.As(err, &pe):
			return dto.BulkPriceUpdateResponse{}, &ValidationError{Fields: pe.Fields}
		}
		return dto.BulkPriceUpdateResponse{}, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dto.BulkPriceUpdateResponse{}, notFound(err, "category")
	}
	products, err := s.products.ListByCategory(ctx, id)
	if err != nil {
		return dto.BulkPriceUpdateResponse{}, err
	}

	resp := dto.BulkPriceUpdateResponse{CategoryID: id.String()}
	for _, p := range products {
		before := pricing.Prices{Cost: p.CostPrice, Selling: p.SellingPrice, Margin: p.ProfitMargin}
		change := upd.Apply(before)
		if change.Empty() {
			continue
		}
		fields := map[string]any{}
		if change.Cost != nil {
			fields["cost_price"] = *change.Cost
		}
		if change.Selling != nil {
			fields["selling_price"] = *change.Selling
		}
		if change.Margin != nil {
			fields["profit_margin"] = *change.Margin
		}
		if err := s.products.UpdateFields(ctx, p.ID, fields); err != nil {
			log.Error().Err(err).
				Str("category_id", id.String()).
				Str("product_id", p.ID.String()).
				Int("updated_so_far", resp.UpdatedCount).
				Msg("bulk price update: product write failed")
			return resp, err
		}
		resp.UpdatedCount++
		s.cache.Invalidate(ctx, cache.ProductKey(p.ID))
		recordPriceChange(ctx, s.history, p.ID, before, change.Merge(before), model.PriceReasonBulk)
	}

	log.Info().Str("category_id", id.String()).Int("updated", resp.UpdatedCount).Int("products", len(products)).Msg("bulk price update applied")
	return resp, nil
}

func (s *categoryService) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateName
	}
	return nil
}
