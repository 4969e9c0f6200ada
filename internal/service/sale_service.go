package service

import (
	"context"
	"strings"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/report"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SaleService interface {
	Complete(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter, rng report.Range) (*dto.SaleListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	checkout
	reporter saga.Reporter
	now      func() time.Time
}

func NewSaleService(
	sales repository.SaleRepository,
	cash repository.CashTransactionRepository,
	products repository.ProductRepository,
	store *cache.Store,
	reporter saga.Reporter,
) SaleService {
	return &saleService{
		checkout: checkout{sales: sales, cash: cash, products: products, cache: store},
		reporter: reporter,
		now:      time.Now,
	}
}

// ── Complete ─────────────────────────────────────────────────────────────────
// create sale → record cash transaction → decrement inventory (floored at 0).
// No rollback: a failing step leaves earlier steps in place and is reported
// for manual reconciliation.

func (s *saleService) Complete(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	reqs := make([]lineRequest, len(req.Items))
	for i, it := range req.Items {
		reqs[i] = lineRequest{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	lines, total, err := resolveLines(ctx, s.products, reqs)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, invalid("items", "at least one item is required")
	}

	sale := &model.Sale{
		ID:            uuid.New(),
		TotalAmount:   total,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         req.Notes,
	}
	sale.Date = dateOr(req.Date.Ptr(), s.now())
	for _, l := range lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal,
		})
	}

	sg := saga.New(operationSaleComplete, sale.ID.String(), s.reporter)
	if err := s.run(ctx, sg, sale); err != nil {
		return nil, err
	}

	log.Info().Str("sale_id", sale.ID.String()).Str("total", sale.TotalAmount.StringFixed(2)).Int("items", len(sale.Items)).Msg("sale completed")
	resp := mapSale(*sale)
	return &resp, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sale")
	}
	resp := mapSale(*sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter, rng report.Range) (*dto.SaleListResponse, error) {
	resolved, err := rng.Resolve(s.now().UTC())
	if err != nil {
		return nil, invalid("range", err.Error())
	}
	sales, total, err := s.sales.List(ctx, repository.SaleQuery{
		From:          resolved.Start,
		To:            resolved.End,
		PaymentMethod: filter.PaymentMethod,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		data = append(data, mapSale(sale))
	}
	return &dto.SaleListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// ── Delete ───────────────────────────────────────────────────────────────────
// restore inventory → delete the referencing cash transaction → delete sale.

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "sale")
	}

	sg := saga.New(operationSaleDelete, id.String(), s.reporter)
	if err := sg.Step(ctx, stepRestoreStock, func(ctx context.Context) error {
		return s.adjustStock(ctx, sale.Items, +1)
	}); err != nil {
		return err
	}
	if err := sg.Step(ctx, stepDeleteCash, func(ctx context.Context) error {
		n, err := s.cash.DeleteSaleReference(ctx, id)
		if err == nil && n == 0 {
			log.Warn().Str("sale_id", id.String()).Msg("sale had no cash transaction to delete")
		}
		return err
	}); err != nil {
		return err
	}
	if err := sg.Step(ctx, stepDeleteSale, func(ctx context.Context) error {
		return s.sales.Delete(ctx, id)
	}); err != nil {
		return err
	}

	log.Info().Str("sale_id", id.String()).Msg("sale deleted")
	return nil
}
