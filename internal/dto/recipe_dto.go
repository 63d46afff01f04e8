package dto

// ─── Recipe proposal intake ──────────────────────────────────────────────────

// ProposedLine is one candidate recipe line submitted by an external caller
// (typically the AI layer, after resolving free text to catalog codes).
type ProposedLine struct {
	Section         string `json:"recipe_section" validate:"required,oneof=Material Process"`
	Sequence        int    `json:"sequence" validate:"required,min=1"`
	ParentSequence  *int   `json:"parent_sequence"`
	RefCode         string `json:"process_material_code" validate:"required"`
	WorkInstruction string `json:"work_instruction"`
}

// ReplaceRecipeRequest atomically replaces a product's entire recipe.
// SessionID/Provider are optional chat-layer metadata recorded in the usage
// log when present; the provider always travels with the request — never a
// process-wide setting.
type ReplaceRecipeRequest struct {
	Lines       []ProposedLine `json:"lines" validate:"required,min=1,dive"`
	SessionID   string         `json:"session_id"`
	Provider    string         `json:"provider"`
	UserMessage string         `json:"user_message"`
}

// AppendLinesRequest adds lines to an existing recipe. Parent sequences may
// reference lines already persisted for the product.
type AppendLinesRequest struct {
	Lines []ProposedLine `json:"lines" validate:"required,min=1,dive"`
}

// ─── Recipe reads ────────────────────────────────────────────────────────────

type RecipeLineResponse struct {
	Section         string `json:"recipe_section"`
	Sequence        int    `json:"sequence"`
	ParentSequence  *int   `json:"parent_sequence"`
	RefCode         string `json:"process_material_code"`
	Name            string `json:"process_name"`
	Discipline      string `json:"discipline"`
	WorkInstruction string `json:"work_instruction"`
}

type RecipeResponse struct {
	Product        ProductResponse      `json:"product"`
	Recipe         []RecipeLineResponse `json:"recipe"`
	TotalMaterials int                  `json:"total_materials"`
	TotalProcesses int                  `json:"total_processes"`
}

// ExportRow is one ordered tabular row handed to the CSV-export collaborator.
// Column set per the downstream file format.
type ExportRow struct {
	Sequence        int    `json:"sequence"`
	Section         string `json:"recipe_section"`
	Code            string `json:"process_material_code"`
	Name            string `json:"process_name"`
	WorkInstruction string `json:"work_instruction"`
	Discipline      string `json:"discipline"`
	ParentSequence  *int   `json:"parent_sequence"`
}

// ─── Stats / cleanup ─────────────────────────────────────────────────────────

type StatsResponse struct {
	Products       int64 `json:"products"`
	Materials      int64 `json:"materials"`
	Processes      int64 `json:"processes"`
	RecipeLines    int64 `json:"recipe_lines"`
	ChatSessions   int64 `json:"chat_sessions"`
	SessionsLast7d int64 `json:"sessions_last_7d"`
	RecipesLast7d  int64 `json:"recipe_lines_last_7d"`
}

type CleanupResponse struct {
	SessionsRemoved   int64 `json:"sessions_removed"`
	UsageRowsRemoved  int64 `json:"usage_rows_removed"`
	RecipeRowsRemoved int64 `json:"recipe_rows_removed"`
}
