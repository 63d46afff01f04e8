package repository

import (
	"context"
	"time"

	"signrecipes/internal/model"

	"gorm.io/gorm"
)

// ProcessRepository defines the data access contract for processes.
type ProcessRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Process, error)
	All(ctx context.Context) ([]model.Process, error)
	Count(ctx context.Context) (int64, error)

	// FindByParentCode returns direct children ordered by sort position then
	// code — the ordering hierarchy resolution depends on.
	FindByParentCode(ctx context.Context, parentCode string) ([]model.Process, error)

	UpsertBatchTx(tx *gorm.DB, processes []model.Process) (inserted, updated int, err error)
	DB() *gorm.DB
}

type processRepo struct{ db *gorm.DB }

func NewProcessRepository(db *gorm.DB) ProcessRepository { return &processRepo{db: db} }

func (r *processRepo) FindByCode(ctx context.Context, code string) (*model.Process, error) {
	var p model.Process
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *processRepo) All(ctx context.Context) ([]model.Process, error) {
	var processes []model.Process
	if err := r.db.WithContext(ctx).Order("sort_position ASC, code ASC").Find(&processes).Error; err != nil {
		return nil, translate(err)
	}
	return processes, nil
}

func (r *processRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Process{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *processRepo) FindByParentCode(ctx context.Context, parentCode string) ([]model.Process, error) {
	var processes []model.Process
	err := r.db.WithContext(ctx).
		Where("parent_code = ?", parentCode).
		Order("sort_position ASC, code ASC").
		Find(&processes).Error
	if err != nil {
		return nil, translate(err)
	}
	return processes, nil
}

func (r *processRepo) UpsertBatchTx(tx *gorm.DB, processes []model.Process) (int, int, error) {
	inserted, updated := 0, 0
	now := time.Now()
	for i := range processes {
		p := &processes[i]
		var existing model.Process
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

func (r *processRepo) DB() *gorm.DB { return r.db }
