package model

import "time"

// Product is a catalog entry keyed by its human-readable code (e.g. PRD-0001).
// Deleting a product cascades to its recipe lines (see RecipeRepository).
type Product struct {
	ID               uint   `gorm:"primaryKey"`
	Code             string `gorm:"uniqueIndex;not null"`
	Name             string `gorm:"index;not null"`
	Category         string
	CoreCapability   bool
	Outsourced       bool
	AssignedRecipe   string
	ShortDescription string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
