package repository

import (
	"context"
	"time"

	"signrecipes/internal/model"

	"gorm.io/gorm"
)

// MaterialRepository defines the data access contract for materials.
type MaterialRepository interface {
	FindByPartCode(ctx context.Context, partCode string) (*model.Material, error)
	All(ctx context.Context) ([]model.Material, error)
	Count(ctx context.Context) (int64, error)
	UpsertBatchTx(tx *gorm.DB, materials []model.Material) (inserted, updated int, err error)
	DB() *gorm.DB
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) FindByPartCode(ctx context.Context, partCode string) (*model.Material, error) {
	var m model.Material
	if err := r.db.WithContext(ctx).Where("part_code = ?", partCode).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *materialRepo) All(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	if err := r.db.WithContext(ctx).Order("part_code ASC").Find(&materials).Error; err != nil {
		return nil, translate(err)
	}
	return materials, nil
}

func (r *materialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Material{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *materialRepo) UpsertBatchTx(tx *gorm.DB, materials []model.Material) (int, int, error) {
	inserted, updated := 0, 0
	now := time.Now()
	for i := range materials {
		m := &materials[i]
		var existing model.Material
		err := tx.Where("part_code = ?", m.PartCode).First(&existing).Error
		switch {
		case err == nil:
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			m.UpdatedAt = now
			if err := tx.Save(m).Error; err != nil {
				return 0, 0, translate(err)
			}
			updated++
		case err == gorm.ErrRecordNotFound:
			m.UpdatedAt = now
			if err := tx.Create(m).Error; err != nil {
				return 0, 0, translate(err)
			}
			inserted++
		default:
			return 0, 0, translate(err)
		}
	}
	return inserted, updated, nil
}

func (r *materialRepo) DB() *gorm.DB { return r.db }
