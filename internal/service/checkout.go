package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Saga step names, as they appear in saga logs.
const (
	stepCreateSale        = "create_sale"
	stepRecordCash        = "record_cash_transaction"
	stepDecrementStock    = "decrement_inventory"
	stepMarkConverted     = "mark_quote_converted"
	stepRestoreStock      = "restore_inventory"
	stepDeleteCash        = "delete_cash_transaction"
	stepDeleteSale        = "delete_sale"
	operationSaleComplete = "sale.complete"
	operationSaleDelete   = "sale.delete"
	operationQuoteConvert = "quote.convert"
)

// lineRequest is the common shape of sale and quote item requests.
type lineRequest struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

type line struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// resolveLines captures the product name and price of every line. The unit
// price defaults to the product's current selling price.
func resolveLines(ctx context.Context, products repository.ProductRepository, reqs []lineRequest) ([]line, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]line, 0, len(reqs))
	for i, r := range reqs {
		field := fmt.Sprintf("items[%d]", i)
		id, err := parseID(field+".product_id", r.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if r.Quantity <= 0 {
			return nil, decimal.Zero, invalid(field+".quantity", "quantity must be greater than zero")
		}
		p, err := products.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, invalid(field+".product_id", "product not found")
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		unit := p.SellingPrice
		if r.UnitPrice != nil {
			if r.UnitPrice.IsNegative() {
				return nil, decimal.Zero, invalid(field+".unit_price", "unit price cannot be negative")
			}
			unit = pricing.Round2(*r.UnitPrice)
		}
		subtotal := pricing.Round2(unit.Mul(decimal.NewFromInt(int64(r.Quantity))))
		total = total.Add(subtotal)
		lines = append(lines, line{
			ProductID:   id,
			ProductName: p.Name,
			UnitPrice:   unit,
			Quantity:    r.Quantity,
			Subtotal:    subtotal,
		})
	}
	return lines, total, nil
}

// checkout writes a sale and its side effects as three saga steps:
// create the sale, record its ledger row, decrement stock.
type checkout struct {
	sales    repository.SaleRepository
	cash     repository.CashTransactionRepository
	products repository.ProductRepository
	cache    *cache.Store
}

func (c checkout) run(ctx context.Context, sg *saga.Saga, sale *model.Sale) error {
	if err := sg.Step(ctx, stepCreateSale, func(ctx context.Context) error {
		return c.sales.Create(ctx, sale)
	}); err != nil {
		return err
	}
	if err := sg.Step(ctx, stepRecordCash, func(ctx context.Context) error {
		return c.cash.Create(ctx, saleTransaction(*sale))
	}); err != nil {
		return err
	}
	return sg.Step(ctx, stepDecrementStock, func(ctx context.Context) error {
		return c.adjustStock(ctx, sale.Items, -1)
	})
}

// adjustStock applies sign*quantity for every item. Products deleted since
// the sale are skipped.
func (c checkout) adjustStock(ctx context.Context, items []model.SaleItem, sign int) error {
	for _, it := range items {
		err := c.products.AdjustQuantity(ctx, it.ProductID, sign*it.Quantity)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("product_id", it.ProductID.String()).Msg("stock adjustment skipped: product no longer exists")
			continue
		}
		if err != nil {
			return err
		}
		c.cache.Invalidate(ctx, cache.ProductKey(it.ProductID))
	}
	return nil
}

func saleTransaction(s model.Sale) *model.CashTransaction {
	ref := s.ID
	return &model.CashTransaction{
		Date:        s.Date,
		Type:        model.CashSale,
		Amount:      s.TotalAmount,
		Description: "Sale " + strings.ToUpper(s.ID.String()[:8]),
		ReferenceID: &ref,
	}
}

func dateOr(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now.UTC()
	}
	return t.UTC()
}
