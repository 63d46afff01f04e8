package repository

import (
	"context"
	"time"

	"signrecipes/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository defines the data access contract for recipe lines.
//
// The mutating methods are transaction-scoped: ReplaceRecipe semantics require
// the caller to open one transaction, lock the owning product row, and run
// validation plus delete+insert inside it so readers never observe a torn
// recipe and concurrent replaces for the same product serialize.
type RecipeRepository interface {
	ListByProduct(ctx context.Context, productCode string) ([]model.RecipeLine, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// LockProductTx takes a FOR UPDATE row lock on the product, serializing
	// writers per product code. ErrNotFound when the product does not exist.
	LockProductTx(tx *gorm.DB, productCode string) error

	SequencesTx(tx *gorm.DB, productCode string) ([]int, error)
	DeleteByProductTx(tx *gorm.DB, productCode string) (int64, error)
	InsertTx(tx *gorm.DB, lines []model.RecipeLine) error

	// DeleteOrphans removes lines whose owning product no longer exists.
	// Used by the retention sweeper.
	DeleteOrphans(ctx context.Context) (int64, error)

	DB() *gorm.DB
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) ListByProduct(ctx context.Context, productCode string) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).
		Where("product_code = ?", productCode).
		Order("sequence ASC").
		Find(&lines).Error
	if err != nil {
		return nil, translate(err)
	}
	return lines, nil
}

func (r *recipeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.RecipeLine{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *recipeRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RecipeLine{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *recipeRepo) LockProductTx(tx *gorm.DB, productCode string) error {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", productCode).
		First(&p).Error
	return translate(err)
}

func (r *recipeRepo) SequencesTx(tx *gorm.DB, productCode string) ([]int, error) {
	var seqs []int
	err := tx.Model(&model.RecipeLine{}).
		Where("product_code = ?", productCode).
		Order("sequence ASC").
		Pluck("sequence", &seqs).Error
	if err != nil {
		return nil, translate(err)
	}
	return seqs, nil
}

func (r *recipeRepo) DeleteByProductTx(tx *gorm.DB, productCode string) (int64, error) {
	res := tx.Where("product_code = ?", productCode).Delete(&model.RecipeLine{})
	return res.RowsAffected, translate(res.Error)
}

func (r *recipeRepo) InsertTx(tx *gorm.DB, lines []model.RecipeLine) error {
	if len(lines) == 0 {
		return nil
	}
	return translate(tx.Create(&lines).Error)
}

func (r *recipeRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("product_code NOT IN (?)", r.db.Model(&model.Product{}).Select("code")).
		Delete(&model.RecipeLine{})
	return res.RowsAffected, translate(res.Error)
}

func (r *recipeRepo) DB() *gorm.DB { return r.db }
