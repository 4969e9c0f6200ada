package service

import (
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
)

func optID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func mapProduct(p model.Product, lowStockDefault int) dto.ProductResponse {
	tags := make([]string, 0, len(p.TagIDs))
	for _, t := range p.TagIDs {
		tags = append(tags, t.String())
	}
	return dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Quantity:          p.Quantity,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		ProfitMargin:      p.ProfitMargin,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(lowStockDefault),
		CategoryID:        optID(p.CategoryID),
		TagIDs:            tags,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func mapPriceHistory(h model.PriceHistory) dto.PriceHistoryResponse {
	return dto.PriceHistoryResponse{
		ID:            h.ID.String(),
		ProductID:     h.ProductID.String(),
		CostBefore:    h.CostBefore,
		CostAfter:     h.CostAfter,
		SellingBefore: h.SellingBefore,
		SellingAfter:  h.SellingAfter,
		MarginBefore:  h.MarginBefore,
		MarginAfter:   h.MarginAfter,
		Reason:        h.Reason,
		CreatedAt:     h.CreatedAt,
	}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Color: c.Color}
}

func mapTag(t model.Tag) dto.TagResponse {
	return dto.TagResponse{ID: t.ID.String(), Name: t.Name, Color: t.Color}
}

func mapSale(s model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:          it.ID.String(),
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return dto.SaleResponse{
		ID:            s.ID.String(),
		Date:          s.Date,
		Items:         items,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
	}
}

func mapCashTransaction(t model.CashTransaction) dto.CashTransactionResponse {
	return dto.CashTransactionResponse{
		ID:          t.ID.String(),
		Date:        t.Date,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		ReferenceID: optID(t.ReferenceID),
	}
}

func mapQuote(q model.Quote) dto.QuoteResponse {
	items := make([]dto.QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, dto.QuoteItemResponse{
			ID:          it.ID.String(),
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return dto.QuoteResponse{
		ID:              q.ID.String(),
		CustomerName:    q.CustomerName,
		Date:            q.Date,
		Items:           items,
		Total:           q.Total,
		Status:          string(q.Status),
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		ConvertedSaleID: optID(q.ConvertedSaleID),
	}
}

func mapSetting(s model.Setting) dto.SettingResponse {
	return dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
