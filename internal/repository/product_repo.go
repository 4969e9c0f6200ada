package repository

import (
	"context"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter, lowStockDefault int) ([]model.Product, int64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error)
	// Update saves every column of p and, when tags is non-nil, replaces its tag set.
	Update(ctx context.Context, p *model.Product, tags []uuid.UUID) error
	// UpdateFields is a partial update of the given columns only.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustQuantity adds delta to the stock; the result never drops below zero.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return replaceTags(tx, p.ID, p.TagIDs)
	})
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.hydrateTags(ctx, []*model.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter, lowStockDefault int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		// lower() LIKE instead of ILIKE so the query also runs on SQLite
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.TagID != "" {
		q = q.Where("id IN (?)", r.db.Model(&model.ProductTag{}).Select("product_id").Where("tag_id = ?", filter.TagID))
	}
	if filter.LowStock {
		q = q.Where("quantity < CASE WHEN low_stock_threshold > 0 THEN low_stock_threshold ELSE ? END", lowStockDefault)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	if err := r.hydrateTags(ctx, ptrs(products)); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product, tags []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		p.TagIDs = tags
		return replaceTags(tx, p.ID, tags)
	})
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the product and its tag links. Sales and quotes keep their
// captured copies of name and price.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *productRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	expr := gorm.Expr("quantity + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN quantity + ? < 0 THEN 0 ELSE quantity + ? END", delta, delta)
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("quantity", expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) hydrateTags(ctx context.Context, products []*model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(products))
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.TagIDs = []uuid.UUID{}
	}
	var links []model.ProductTag
	if err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Order("tag_id").Find(&links).Error; err != nil {
		return err
	}
	for _, l := range links {
		if p, ok := byID[l.ProductID]; ok {
			p.TagIDs = append(p.TagIDs, l.TagID)
		}
	}
	return nil
}

func replaceTags(tx *gorm.DB, productID uuid.UUID, tags []uuid.UUID) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(tags))
	links := make([]model.ProductTag, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		links = append(links, model.ProductTag{ProductID: productID, TagID: t})
	}
	return tx.Create(&links).Error
}

func ptrs(products []model.Product) []*model.Product {
	out := make([]*model.Product, len(products))
	for i := range products {
		out[i] = &products[i]
	}
	return out
}
