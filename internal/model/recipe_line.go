package model

import "time"

// Recipe line sections. A line is either a material requirement or a
// manufacturing step — never both.
const (
	SectionMaterial = "Material"
	SectionProcess  = "Process"
)

// RecipeLine is one step of a product's manufacturing recipe.
//
// Name and Discipline are snapshots captured when the recipe was committed;
// they are deliberately NOT live-joined against the catalog so historical
// recipes stay stable across catalog re-imports.
type RecipeLine struct {
	ID              uint   `gorm:"primaryKey"`
	ProductCode     string `gorm:"index;uniqueIndex:idx_recipe_product_seq;not null"`
	Section         string `gorm:"not null"`
	Sequence        int    `gorm:"uniqueIndex:idx_recipe_product_seq;not null"`
	ParentSequence  *int
	RefCode         string `gorm:"index;not null"` // material part code or process code
	Name            string
	Discipline      string
	WorkInstruction string `gorm:"type:text"`
	CreatedAt       time.Time
}
