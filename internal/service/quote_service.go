package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type QuoteService interface {
	Create(ctx context.Context, req dto.CreateQuoteRequest) (*dto.QuoteResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.QuoteResponse, error)
	List(ctx context.Context, filter dto.QuoteFilter) ([]dto.QuoteResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateQuoteRequest) (*dto.QuoteResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req dto.ChangeQuoteStatusRequest) (*dto.QuoteResponse, error)
	Convert(ctx context.Context, id uuid.UUID, req dto.ConvertQuoteRequest) (*dto.ConvertQuoteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteService struct {
	checkout
	repo     repository.QuoteRepository
	reporter saga.Reporter
	now      func() time.Time

	// convertMu serializes conversions so one quote cannot yield two sales
	// within this process.
	convertMu sync.Mutex
}

func NewQuoteService(
	repo repository.QuoteRepository,
	sales repository.SaleRepository,
	cash repository.CashTransactionRepository,
	products repository.ProductRepository,
	store *cache.Store,
	reporter saga.Reporter,
) QuoteService {
	return &quoteService{
		checkout: checkout{sales: sales, cash: cash, products: products, cache: store},
		repo:     repo,
		reporter: reporter,
		now:      time.Now,
	}
}

func (s *quoteService) Create(ctx context.Context, req dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	items, total, err := s.quoteItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	q := &model.Quote{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Date:         dateOr(req.Date.Ptr(), s.now()),
		Total:        total,
		Status:       model.QuotePending,
		ValidUntil:   utcPtr(req.ValidUntil.Ptr()),
		Notes:        req.Notes,
		Items:        items,
	}
	if q.CustomerName == "" {
		return nil, invalid("customer_name", "customer name is required")
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	resp := mapQuote(*q)
	return &resp, nil
}

func (s *quoteService) Get(ctx context.Context, id uuid.UUID) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "quote")
	}
	resp := mapQuote(*q)
	return &resp, nil
}

func (s *quoteService) List(ctx context.Context, filter dto.QuoteFilter) ([]dto.QuoteResponse, error) {
	list, err := s.repo.List(ctx, model.QuoteStatus(filter.Status))
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, mapQuote(q))
	}
	return out, nil
}

// Update edits a quote that has not been converted. A new item list replaces
// every line and recomputes the total.
func (s *quoteService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "quote")
	}
	if q.Status == model.QuoteConverted {
		return nil, ErrQuoteConverted
	}

	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return nil, invalid("customer_name", "customer name is required")
		}
		q.CustomerName = name
	}
	if req.ValidUntil != nil {
		q.ValidUntil = utcPtr(req.ValidUntil.Ptr())
	}
	if req.Notes != nil {
		q.Notes = req.Notes
	}
	replace := req.Items != nil
	if replace {
		items, total, err := s.quoteItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		q.Items, q.Total = items, total
	}

	if err := s.repo.Update(ctx, q, replace); err != nil {
		return nil, err
	}
	resp := mapQuote(*q)
	return &resp, nil
}

// ChangeStatus moves a quote between pending, approved and rejected.
// Converted is terminal and only reachable through Convert.
func (s *quoteService) ChangeStatus(ctx context.Context, id uuid.UUID, req dto.ChangeQuoteStatusRequest) (*dto.QuoteResponse, error) {
	target := model.QuoteStatus(req.Status)
	if !target.Valid() {
		return nil, invalid("status", "unknown status")
	}
	if target == model.QuoteConverted {
		return nil, fmt.Errorf("%w: use the convert operation", ErrInvalidTransition)
	}
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "quote")
	}
	if q.Status == model.QuoteConverted {
		return nil, ErrQuoteConverted
	}
	if err := s.repo.UpdateStatus(ctx, id, target, nil); err != nil {
		return nil, notFound(err, "quote")
	}
	q.Status = target
	resp := mapQuote(*q)
	return &resp, nil
}

// ── Convert ──────────────────────────────────────────────────────────────────
// create sale → record cash transaction → decrement inventory → mark the
// quote converted. The sale copies the quote's lines and total as quoted,
// regardless of current catalog prices.

func (s *quoteService) Convert(ctx context.Context, id uuid.UUID, req dto.ConvertQuoteRequest) (*dto.ConvertQuoteResponse, error) {
	s.convertMu.Lock()
	defer s.convertMu.Unlock()

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "quote")
	}
	switch q.Status {
	case model.QuoteConverted:
		return nil, ErrQuoteConverted
	case model.QuoteRejected:
		return nil, fmt.Errorf("%w: rejected quotes cannot be converted", ErrInvalidTransition)
	}
	if len(q.Items) == 0 {
		return nil, invalid("items", "quote has no items")
	}

	sale := &model.Sale{
		ID:            uuid.New(),
		Date:          dateOr(req.Date.Ptr(), s.now()),
		TotalAmount:   q.Total,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         q.Notes,
	}
	for _, it := range q.Items {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}

	sg := saga.New(operationQuoteConvert, q.ID.String(), s.reporter)
	if err := s.run(ctx, sg, sale); err != nil {
		return nil, err
	}
	if err := sg.Step(ctx, stepMarkConverted, func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, q.ID, model.QuoteConverted, &sale.ID)
	}); err != nil {
		return nil, err
	}

	q.Status = model.QuoteConverted
	q.ConvertedSaleID = &sale.ID
	log.Info().Str("quote_id", q.ID.String()).Str("sale_id", sale.ID.String()).Msg("quote converted to sale")
	return &dto.ConvertQuoteResponse{Quote: mapQuote(*q), Sale: mapSale(*sale)}, nil
}

func (s *quoteService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "quote")
}

func (s *quoteService) quoteItems(ctx context.Context, reqs []dto.QuoteItemRequest) ([]model.QuoteItem, decimal.Decimal, error) {
	lr := make([]lineRequest, len(reqs))
	for i, it := range reqs {
		lr[i] = lineRequest{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	lines, total, err := resolveLines(ctx, s.products, lr)
	if err != nil {
		return nil, total, err
	}
	if len(lines) == 0 {
		return nil, total, invalid("items", "at least one item is required")
	}
	items := make([]model.QuoteItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.QuoteItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal,
		})
	}
	return items, total, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
