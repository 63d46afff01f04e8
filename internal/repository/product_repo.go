package repository

import (
	"context"
	"time"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	All(ctx context.Context) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)

	// UpsertBatchTx replaces-or-inserts every product by code inside the given
	// transaction. Callers own batch shape validation and atomicity.
	UpsertBatchTx(tx *gorm.DB, products []model.Product) (inserted, updated int, err error)

	// DeleteByCodeTx removes the product row inside the given transaction.
	// Recipe-line cascade is the recipe repository's concern.
	DeleteByCodeTx(tx *gorm.DB, code string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	offset := (filter.Page - 1) * filter.Limit
	if err := q.Order("code ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, translate(err)
	}
	return products, total, nil
}

func (r *productRepo) All(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *productRepo) UpsertBatchTx(tx *gorm.DB, products []model.Product) (int, int, error) {
	inserted, updated := 0, 0
	now := time.Now()
	for i := range products {
		p := &products[i]
		var existing model.Product
		err := tx.Where("code = ?", p.Code).First(&existing).Error
		switch {
		case err == nil:
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = now
			if err := tx.Save(p).Error; err != nil {
				return 0, 0, translate(err)
			}
			updated++
		case err == gorm.ErrRecordNotFound:
			p.UpdatedAt = now
			if err := tx.Create(p).Error; err != nil {
				return 0, 0, translate(err)
			}
			inserted++
		default:
			return 0, 0, translate(err)
		}
	}
	return inserted, updated, nil
}

func (r *productRepo) DeleteByCodeTx(tx *gorm.DB, code string) error {
	res := tx.Where("code = ?", code).Delete(&model.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
