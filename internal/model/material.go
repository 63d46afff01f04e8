package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a stock item keyed by part code (e.g. ACM-STD-WHI-000-3).
// Identity is immutable; descriptive fields are replaced on re-import.
type Material struct {
	ID                  uint   `gorm:"primaryKey"`
	PartCode            string `gorm:"uniqueIndex;not null"`
	FriendlyDescription string
	Base                string // base material family (ACM, SAV, COR, …)
	Sub                 string
	Thickness           decimal.Decimal `gorm:"type:decimal(6,2)"`
	Grade               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
