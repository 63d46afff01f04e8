package dto

import "github.com/shopspring/decimal"

// ─── Bulk import ─────────────────────────────────────────────────────────────

// ImportRequest carries three independent record batches. Each batch is
// all-or-nothing on its own: one bad row rejects that entity type without
// touching the other two.
type ImportRequest struct {
	Products  []ProductRecord  `json:"products"`
	Materials []MaterialRecord `json:"materials"`
	Processes []ProcessRecord  `json:"processes"`
}

type ProductRecord struct {
	Code             string `json:"product_code" validate:"required"`
	Name             string `json:"product_name" validate:"required"`
	Category         string `json:"category"`
	CoreCapability   bool   `json:"core_capability"`
	Outsourced       bool   `json:"outsourced"`
	AssignedRecipe   string `json:"assigned_recipe"`
	ShortDescription string `json:"short_description"`
}

type MaterialRecord struct {
	PartCode            string          `json:"partcode" validate:"required"`
	FriendlyDescription string          `json:"friendly_description" validate:"required"`
	Base                string          `json:"base"`
	Sub                 string          `json:"sub"`
	Thickness           decimal.Decimal `json:"thk"`
	Grade               string          `json:"grd"`
}

type ProcessRecord struct {
	Code           string          `json:"proc_code" validate:"required"`
	Name           string          `json:"proc_name" validate:"required"`
	Discipline     string          `json:"discipline"`
	SortPosition   int             `json:"sort_id"`
	ParentPosition int             `json:"parent_id"`
	InputForm      string          `json:"input_form"`
	OutputForm     string          `json:"output_form"`
	KeyTools       string          `json:"key_tools"`
	SetupTimeMin   decimal.Decimal `json:"setup_time_min"`
	RunRateUnit    string          `json:"run_rate_unit"`
	DefectRiskPct  decimal.Decimal `json:"defect_risk_percent"`
	Notes          string          `json:"notes"`
}

// BatchResult reports one entity type's import outcome.
type BatchResult struct {
	Entity   string `json:"entity"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	// Rejected carries the first invalid row's reason when the batch failed.
	Rejected *BatchRejection `json:"rejected,omitempty"`
}

type BatchRejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Products  *BatchResult `json:"products,omitempty"`
	Materials *BatchResult `json:"materials,omitempty"`
	Processes *BatchResult `json:"processes,omitempty"`
}

// ─── Catalog reads ───────────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"q"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ProductResponse struct {
	Code             string `json:"product_code"`
	Name             string `json:"product_name"`
	Category         string `json:"category"`
	CoreCapability   bool   `json:"core_capability"`
	Outsourced       bool   `json:"outsourced"`
	AssignedRecipe   string `json:"assigned_recipe,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type MaterialResponse struct {
	PartCode            string          `json:"partcode"`
	FriendlyDescription string          `json:"friendly_description"`
	Base                string          `json:"base"`
	Sub                 string          `json:"sub,omitempty"`
	Thickness           decimal.Decimal `json:"thk"`
	Grade               string          `json:"grd,omitempty"`
}

type ProcessResponse struct {
	Code          string          `json:"proc_code"`
	Name          string          `json:"proc_name"`
	Discipline    string          `json:"discipline"`
	SortPosition  int             `json:"sort_id"`
	ParentCode    *string         `json:"parent_code"`
	InputForm     string          `json:"input_form,omitempty"`
	OutputForm    string          `json:"output_form,omitempty"`
	KeyTools      string          `json:"key_tools,omitempty"`
	SetupTimeMin  decimal.Decimal `json:"setup_time_min"`
	RunRateUnit   string          `json:"run_rate_unit,omitempty"`
	DefectRiskPct decimal.Decimal `json:"defect_risk_percent"`
	Notes         string          `json:"notes,omitempty"`
}

// HierarchyNode is one row of a process hierarchy query: the node itself plus
// the depth at which traversal reached it (root = level 1, capped at 5).
type HierarchyNode struct {
	Level      int     `json:"level"`
	Code       string  `json:"proc_code"`
	Name       string  `json:"proc_name"`
	ParentCode *string `json:"parent_code"`
}
