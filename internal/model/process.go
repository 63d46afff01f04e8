package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Process is a manufacturing step keyed by process code (e.g. PRT-UV-FLAT).
//
// SortPosition/ParentPosition are carried over verbatim from the source data,
// where the parent relation is positional. ParentCode is derived once at
// import time and is the only field hierarchy traversal follows; positions
// are never re-resolved afterwards, so renumbering a later import cannot
// silently re-parent already stored processes.
type Process struct {
	ID             uint   `gorm:"primaryKey"`
	Code           string `gorm:"uniqueIndex;not null"`
	Name           string `gorm:"index;not null"`
	Discipline     string
	SortPosition   int `gorm:"index"`
	ParentPosition int
	ParentCode     *string `gorm:"index"`
	InputForm      string
	OutputForm     string
	KeyTools       string
	SetupTimeMin   decimal.Decimal `gorm:"type:decimal(8,2)"`
	RunRateUnit    string
	DefectRiskPct  decimal.Decimal `gorm:"type:decimal(5,2)"`
	Notes          string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
