//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Catalog import → recipe replace → ordered read-back
//   T-E2E-2: Invalid recipe proposal leaves the prior recipe intact
//   T-E2E-3: Fuzzy search resolves a description to a catalog code
//   T-E2E-4: Hierarchy resolution follows import-derived parent codes
//   T-E2E-5: Cleanup run removes orphaned recipe rows after product delete

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"signrecipes/internal/config"
	"signrecipes/internal/infra"
	"signrecipes/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("signrecipes_test"),
		tcPostgres.WithUsername("signrecipes"),
		tcPostgres.WithPassword("signrecipes"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		RetentionDays:        90,
		SweepIntervalMinutes: 60,
		PDFStoragePath:       t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func importDemoCatalog(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/catalog/import", jsonBody(t, map[string]any{
		"products": []map[string]any{
			{"product_code": "PRD-0001", "product_name": "Illuminated Fascia Sign", "category": "Fascia"},
		},
		"materials": []map[string]any{
			{"partcode": "ACM-STD-WHI-000-3", "friendly_description": "3mm ACM Panel White", "base": "ACM"},
			{"partcode": "VYN-CAST-GLS-000-0", "friendly_description": "Cast Gloss Vinyl", "base": "VYN"},
		},
		"processes": []map[string]any{
			{"proc_code": "FAB-TRAY", "proc_name": "Fabricate Tray", "sort_id": 1, "discipline": "Fabrication"},
			{"proc_code": "CNC-ROUTE", "proc_name": "CNC Routing", "sort_id": 2, "parent_id": 1, "discipline": "CNC"},
		},
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: Catalog import → recipe replace → ordered read-back
func TestE2E_ImportAndReplaceRecipe(t *testing.T) {
	srv := setupTestEnv(t)
	importDemoCatalog(t, srv)

	replaceResp := do(t, srv, "POST", "/v1/recipes/PRD-0001", jsonBody(t, map[string]any{
		"lines": []map[string]any{
			{"recipe_section": "Process", "sequence": 2, "process_material_code": "CNC-ROUTE", "parent_sequence": 1},
			{"recipe_section": "Material", "sequence": 1, "process_material_code": "ACM-STD-WHI-000-3"},
		},
	}))
	require.Equal(t, http.StatusCreated, replaceResp.StatusCode)

	var recipe struct {
		Recipe []struct {
			Sequence int    `json:"sequence"`
			RefCode  string `json:"process_material_code"`
			Name     string `json:"process_name"`
		} `json:"recipe"`
		TotalMaterials int `json:"total_materials"`
		TotalProcesses int `json:"total_processes"`
	}
	decodeJSON(t, replaceResp, &recipe)
	require.Len(t, recipe.Recipe, 2)
	assert.Equal(t, 1, recipe.Recipe[0].Sequence)
	assert.Equal(t, "3mm ACM Panel White", recipe.Recipe[0].Name)
	assert.Equal(t, "CNC Routing", recipe.Recipe[1].Name)
	assert.Equal(t, 1, recipe.TotalMaterials)
	assert.Equal(t, 1, recipe.TotalProcesses)

	exportResp := do(t, srv, "GET", "/v1/recipes/PRD-0001/export", nil)
	require.Equal(t, http.StatusOK, exportResp.StatusCode)
	exportResp.Body.Close()
}

// T-E2E-2: Invalid proposal leaves prior recipe intact
func TestE2E_FailedReplaceKeepsPriorRecipe(t *testing.T) {
	srv := setupTestEnv(t)
	importDemoCatalog(t, srv)

	first := do(t, srv, "POST", "/v1/recipes/PRD-0001", jsonBody(t, map[string]any{
		"lines": []map[string]any{
			{"recipe_section": "Material", "sequence": 1, "process_material_code": "ACM-STD-WHI-000-3"},
		},
	}))
	require.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	bad := do(t, srv, "POST", "/v1/recipes/PRD-0001", jsonBody(t, map[string]any{
		"lines": []map[string]any{
			{"recipe_section": "Process", "sequence": 1, "process_material_code": "NO-SUCH-PROC"},
		},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, bad.StatusCode)
	var fail struct {
		Kind string `json:"kind"`
	}
	decodeJSON(t, bad, &fail)
	assert.Equal(t, "UnknownCatalogCode", fail.Kind)

	get := do(t, srv, "GET", "/v1/recipes/PRD-0001", nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	var recipe struct {
		Recipe []struct {
			RefCode string `json:"process_material_code"`
		} `json:"recipe"`
	}
	decodeJSON(t, get, &recipe)
	require.Len(t, recipe.Recipe, 1)
	assert.Equal(t, "ACM-STD-WHI-000-3", recipe.Recipe[0].RefCode)
}

// T-E2E-3: Fuzzy search resolves a description
func TestE2E_SearchResolvesDescription(t *testing.T) {
	srv := setupTestEnv(t)
	importDemoCatalog(t, srv)

	resp := do(t, srv, "GET", "/v1/search?q=acm+panel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var search struct {
		Hits []struct {
			Kind string `json:"kind"`
			Code string `json:"code"`
		} `json:"hits"`
	}
	decodeJSON(t, resp, &search)
	require.NotEmpty(t, search.Hits)
	assert.Equal(t, "material", search.Hits[0].Kind)
	assert.Equal(t, "ACM-STD-WHI-000-3", search.Hits[0].Code)

	// Second call served from the redis cache returns the same ranking.
	cached := do(t, srv, "GET", "/v1/search?q=acm+panel", nil)
	require.Equal(t, http.StatusOK, cached.StatusCode)
	var again struct {
		Hits []struct {
			Code string `json:"code"`
		} `json:"hits"`
	}
	decodeJSON(t, cached, &again)
	require.NotEmpty(t, again.Hits)
	assert.Equal(t, "ACM-STD-WHI-000-3", again.Hits[0].Code)
}

// T-E2E-4: Hierarchy follows parent codes derived at import
func TestE2E_HierarchyFromImportedPositions(t *testing.T) {
	srv := setupTestEnv(t)
	importDemoCatalog(t, srv)

	resp := do(t, srv, "GET", "/v1/processes/FAB-TRAY/hierarchy", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Hierarchy []struct {
			Level int    `json:"level"`
			Code  string `json:"proc_code"`
		} `json:"hierarchy"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Hierarchy, 2)
	assert.Equal(t, 1, body.Hierarchy[0].Level)
	assert.Equal(t, "FAB-TRAY", body.Hierarchy[0].Code)
	assert.Equal(t, 2, body.Hierarchy[1].Level)
	assert.Equal(t, "CNC-ROUTE", body.Hierarchy[1].Code)
}

// T-E2E-5: Cleanup collects rows orphaned by a product delete
func TestE2E_CleanupRemovesOrphans(t *testing.T) {
	srv := setupTestEnv(t)
	importDemoCatalog(t, srv)

	replace := do(t, srv, "POST", "/v1/recipes/PRD-0001", jsonBody(t, map[string]any{
		"lines": []map[string]any{
			{"recipe_section": "Material", "sequence": 1, "process_material_code": "ACM-STD-WHI-000-3"},
		},
	}))
	require.Equal(t, http.StatusCreated, replace.StatusCode)
	replace.Body.Close()

	del := do(t, srv, "DELETE", "/v1/products/PRD-0001", nil)
	require.Equal(t, http.StatusNoContent, del.StatusCode)
	del.Body.Close()

	// DeleteProduct already cascades; cleanup after it finds nothing to do.
	clean := do(t, srv, "POST", "/v1/cleanup/run", nil)
	require.Equal(t, http.StatusOK, clean.StatusCode)
	var result struct {
		RecipeRows int64 `json:"recipe_rows_removed"`
	}
	decodeJSON(t, clean, &result)
	assert.Equal(t, int64(0), result.RecipeRows)

	stats := do(t, srv, "GET", "/v1/stats", nil)
	require.Equal(t, http.StatusOK, stats.StatusCode)
	var counts struct {
		Products    int64 `json:"products"`
		RecipeLines int64 `json:"recipe_lines"`
	}
	decodeJSON(t, stats, &counts)
	assert.Equal(t, int64(0), counts.Products)
	assert.Equal(t, int64(0), counts.RecipeLines)
}
