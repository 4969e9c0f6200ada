package service

import (
	"context"
	"strings"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/ledger"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/report"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CashService manages the cash register ledger.
type CashService interface {
	Record(ctx context.Context, req dto.CreateCashTransactionRequest) (*dto.CashTransactionResponse, error)
	List(ctx context.Context, typ string, rng report.Range) ([]dto.CashTransactionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CashTransactionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Balance(ctx context.Context) (*dto.CashBalanceResponse, error)
	Summary(ctx context.Context, rng report.Range) (*dto.CashSummaryResponse, error)
	SyncSales(ctx context.Context) (*dto.CashSyncResponse, error)
}

type cashService struct {
	repo  repository.CashTransactionRepository
	sales repository.SaleRepository
	now   func() time.Time
}

func NewCashService(repo repository.CashTransactionRepository, sales repository.SaleRepository) CashService {
	return &cashService{repo: repo, sales: sales, now: time.Now}
}

func (s *cashService) Record(ctx context.Context, req dto.CreateCashTransactionRequest) (*dto.CashTransactionResponse, error) {
	typ := model.CashTransactionType(req.Type)
	if !typ.Valid() || typ == model.CashSale {
		return nil, invalid("type", "type must be one of expense, deposit, withdrawal")
	}
	amount := pricing.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, invalid("amount", "amount must be greater than zero")
	}
	tx := &model.CashTransaction{
		Date:        dateOr(req.Date.Ptr(), s.now()),
		Type:        typ,
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	log.Info().Str("type", string(tx.Type)).Str("amount", tx.Amount.StringFixed(2)).Msg("cash transaction recorded")
	resp := mapCashTransaction(*tx)
	return &resp, nil
}

func (s *cashService) List(ctx context.Context, typ string, rng report.Range) ([]dto.CashTransactionResponse, error) {
	resolved, err := rng.Resolve(s.now().UTC())
	if err != nil {
		return nil, invalid("range", err.Error())
	}
	txs, err := s.repo.List(ctx, model.CashTransactionType(typ), resolved.Start, resolved.End)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, mapCashTransaction(tx))
	}
	return out, nil
}

func (s *cashService) Get(ctx context.Context, id uuid.UUID) (*dto.CashTransactionResponse, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cash transaction")
	}
	resp := mapCashTransaction(*tx)
	return &resp, nil
}

// Delete removes any ledger row. The HTTP layer refuses sale-typed rows,
// which are removed together with their sale.
func (s *cashService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "cash transaction")
}

func (s *cashService) Balance(ctx context.Context) (*dto.CashBalanceResponse, error) {
	txs, err := s.repo.List(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return &dto.CashBalanceResponse{Balance: ledger.Balance(txs)}, nil
}

func (s *cashService) Summary(ctx context.Context, rng report.Range) (*dto.CashSummaryResponse, error) {
	resolved, err := rng.Resolve(s.now().UTC())
	if err != nil {
		return nil, invalid("range", err.Error())
	}
	txs, err := s.repo.List(ctx, "", resolved.Start, resolved.End)
	if err != nil {
		return nil, err
	}
	sum := ledger.Summarize(txs, resolved.Start, resolved.End)
	start, end := rangeBounds(resolved)
	return &dto.CashSummaryResponse{
		Range:            string(resolved.Kind),
		Start:            start,
		End:              end,
		TotalSales:       sum.TotalSales,
		TotalExpenses:    sum.TotalExpenses,
		TotalDeposits:    sum.TotalDeposits,
		TotalWithdrawals: sum.TotalWithdrawals,
		NetIncome:        sum.NetIncome,
		Count:            sum.Count,
	}, nil
}

// SyncSales backfills the sale-typed row of every sale that lacks one, e.g.
// after a completion saga stopped at its second step. The unique index on
// sale references keeps concurrent runs from duplicating rows.
func (s *cashService) SyncSales(ctx context.Context) (*dto.CashSyncResponse, error) {
	sales, err := s.sales.ListWithoutCashTransaction(ctx)
	if err != nil {
		return nil, err
	}
	created := 0
	for _, sale := range sales {
		if err := s.repo.Create(ctx, saleTransaction(sale)); err != nil {
			return &dto.CashSyncResponse{Created: created}, err
		}
		created++
	}
	if created > 0 {
		log.Info().Int("created", created).Msg("cash ledger synced with sales")
	}
	return &dto.CashSyncResponse{Created: created}, nil
}

func rangeBounds(r report.Range) (*time.Time, *time.Time) {
	if r.Kind == report.RangeAll || r.Kind == "" {
		return nil, nil
	}
	start, end := r.Start, r.End
	return &start, &end
}
