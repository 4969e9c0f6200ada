package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/report"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SettingLowStockThreshold overrides the configured low-stock default when set
// to a positive integer.
const SettingLowStockThreshold = "low_stock_threshold"

type StatisticsService interface {
	Potential(ctx context.Context) (*dto.PotentialStatsResponse, error)
	Realized(ctx context.Context, rng report.Range) (*dto.RealizedStatsResponse, error)
}

type statisticsService struct {
	products        repository.ProductRepository
	sales           repository.SaleRepository
	cash            repository.CashTransactionRepository
	settings        repository.SettingRepository
	lowStockDefault int
	now             func() time.Time
}

func NewStatisticsService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	cash repository.CashTransactionRepository,
	settings repository.SettingRepository,
	lowStockDefault int,
) StatisticsService {
	return &statisticsService{
		products:        products,
		sales:           sales,
		cash:            cash,
		settings:        settings,
		lowStockDefault: lowStockDefault,
		now:             time.Now,
	}
}

func (s *statisticsService) Potential(ctx context.Context) (*dto.PotentialStatsResponse, error) {
	var (
		products  []model.Product
		threshold = s.lowStockDefault
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		threshold = s.lowStockThreshold(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := report.Potential(products, threshold)
	return &dto.PotentialStatsResponse{
		TotalProducts:     st.TotalProducts,
		TotalValue:        st.TotalValue,
		LowStockProducts:  st.LowStockProducts,
		LowStockThreshold: threshold,
		InvestedMoney:     st.InvestedMoney,
		PotentialIncome:   st.PotentialIncome,
		PotentialProfit:   st.PotentialProfit,
	}, nil
}

// Realized loads the sales, ledger rows and catalog costs concurrently, then
// aggregates them over the resolved range.
func (s *statisticsService) Realized(ctx context.Context, rng report.Range) (*dto.RealizedStatsResponse, error) {
	resolved, err := rng.Resolve(s.now().UTC())
	if err != nil {
		return nil, invalid("range", err.Error())
	}

	var (
		products []model.Product
		sales    []model.Sale
		txs      []model.CashTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, _, err = s.sales.List(gctx, repository.SaleQuery{From: resolved.Start, To: resolved.End})
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.cash.List(gctx, "", resolved.Start, resolved.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := report.Realized(sales, txs, report.CostIndex(products), resolved)
	start, end := rangeBounds(resolved)
	return &dto.RealizedStatsResponse{
		Range:         string(resolved.Kind),
		Start:         start,
		End:           end,
		TotalIncome:   st.TotalIncome,
		TotalExpenses: st.TotalExpenses,
		NetIncome:     st.NetIncome,
		TotalProfit:   st.TotalProfit,
	}, nil
}

// lowStockThreshold never fails: a missing or malformed setting falls back
// to the configured default.
func (s *statisticsService) lowStockThreshold(ctx context.Context) int {
	if s.settings == nil {
		return s.lowStockDefault
	}
	st, err := s.settings.Get(ctx, SettingLowStockThreshold)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Msg("low stock threshold setting unavailable")
		}
		return s.lowStockDefault
	}
	n, err := strconv.Atoi(strings.TrimSpace(st.Value))
	if err != nil || n <= 0 {
		return s.lowStockDefault
	}
	return n
}
