package service

import (
	"context"
	"sort"
	"time"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"
	"signrecipes/internal/repository"

	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) seed(code, name, category string) *model.Product {
	p := &model.Product{Code: code, Name: name, Category: category, CreatedAt: time.Now()}
	r.products[code] = p
	return p
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	p, ok := r.products[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	all, _ := r.All(context.Background())
	return all, int64(len(all)), nil
}

func (r *stubProductRepo) All(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) UpsertBatchTx(_ *gorm.DB, products []model.Product) (int, int, error) {
	inserted, updated := 0, 0
	for i := range products {
		p := products[i]
		if _, ok := r.products[p.Code]; ok {
			updated++
		} else {
			inserted++
		}
		r.products[p.Code] = &p
	}
	return inserted, updated, nil
}

func (r *stubProductRepo) DeleteByCodeTx(_ *gorm.DB, code string) error {
	if _, ok := r.products[code]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, code)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubMaterialRepo is an in-memory MaterialRepository for testing.
type stubMaterialRepo struct {
	materials map[string]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materials: make(map[string]*model.Material)}
}

func (r *stubMaterialRepo) seed(partCode, description, base string) *model.Material {
	m := &model.Material{PartCode: partCode, FriendlyDescription: description, Base: base}
	r.materials[partCode] = m
	return m
}

func (r *stubMaterialRepo) FindByPartCode(_ context.Context, partCode string) (*model.Material, error) {
	m, ok := r.materials[partCode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) All(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartCode < out[j].PartCode })
	return out, nil
}

func (r *stubMaterialRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.materials)), nil
}

func (r *stubMaterialRepo) UpsertBatchTx(_ *gorm.DB, materials []model.Material) (int, int, error) {
	inserted, updated := 0, 0
	for i := range materials {
		m := materials[i]
		if _, ok := r.materials[m.PartCode]; ok {
			updated++
		} else {
			inserted++
		}
		r.materials[m.PartCode] = &m
	}
	return inserted, updated, nil
}

func (r *stubMaterialRepo) DB() *gorm.DB { return nil }

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

// stubProcessRepo is an in-memory ProcessRepository for testing.
type stubProcessRepo struct {
	processes map[string]*model.Process
}

func newStubProcessRepo() *stubProcessRepo {
	return &stubProcessRepo{processes: make(map[string]*model.Process)}
}

func (r *stubProcessRepo) seed(code, name string, sortPos int, parentCode *string) *model.Process {
	p := &model.Process{Code: code, Name: name, SortPosition: sortPos, ParentCode: parentCode}
	r.processes[code] = p
	return p
}

func (r *stubProcessRepo) FindByCode(_ context.Context, code string) (*model.Process, error) {
	p, ok := r.processes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *stubProcessRepo) All(_ context.Context) ([]model.Process, error) {
	out := make([]model.Process, 0, len(r.processes))
	for _, p := range r.processes {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortPosition != out[j].SortPosition {
			return out[i].SortPosition < out[j].SortPosition
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *stubProcessRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.processes)), nil
}

func (r *stubProcessRepo) FindByParentCode(_ context.Context, parentCode string) ([]model.Process, error) {
	var out []model.Process
	for _, p := range r.processes {
		if p.ParentCode != nil && *p.ParentCode == parentCode {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortPosition != out[j].SortPosition {
			return out[i].SortPosition < out[j].SortPosition
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *stubProcessRepo) UpsertBatchTx(_ *gorm.DB, processes []model.Process) (int, int, error) {
	inserted, updated := 0, 0
	for i := range processes {
		p := processes[i]
		if _, ok := r.processes[p.Code]; ok {
			updated++
		} else {
			inserted++
		}
		r.processes[p.Code] = &p
	}
	return inserted, updated, nil
}

func (r *stubProcessRepo) DB() *gorm.DB { return nil }

var _ repository.ProcessRepository = (*stubProcessRepo)(nil)

// stubRecipeRepo is an in-memory RecipeRepository. The Tx methods accept a nil
// *gorm.DB because services run fn(nil) when no real database is wired.
type stubRecipeRepo struct {
	lines []model.RecipeLine
}

func (r *stubRecipeRepo) ListByProduct(_ context.Context, productCode string) ([]model.RecipeLine, error) {
	var out []model.RecipeLine
	for _, ln := range r.lines {
		if ln.ProductCode == productCode {
			out = append(out, ln)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *stubRecipeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.lines)), nil
}

func (r *stubRecipeRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, ln := range r.lines {
		if !ln.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubRecipeRepo) LockProductTx(_ *gorm.DB, _ string) error { return nil }

func (r *stubRecipeRepo) SequencesTx(_ *gorm.DB, productCode string) ([]int, error) {
	var seqs []int
	for _, ln := range r.lines {
		if ln.ProductCode == productCode {
			seqs = append(seqs, ln.Sequence)
		}
	}
	sort.Ints(seqs)
	return seqs, nil
}

func (r *stubRecipeRepo) DeleteByProductTx(_ *gorm.DB, productCode string) (int64, error) {
	var kept []model.RecipeLine
	var removed int64
	for _, ln := range r.lines {
		if ln.ProductCode == productCode {
			removed++
			continue
		}
		kept = append(kept, ln)
	}
	r.lines = kept
	return removed, nil
}

func (r *stubRecipeRepo) InsertTx(_ *gorm.DB, lines []model.RecipeLine) error {
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *stubRecipeRepo) DeleteOrphans(_ context.Context) (int64, error) {
	return 0, nil
}

func (r *stubRecipeRepo) DB() *gorm.DB { return nil }

var _ repository.RecipeRepository = (*stubRecipeRepo)(nil)

// stubSessionRepo captures chat-layer writes for assertion.
type stubSessionRepo struct {
	sessions []model.ChatSession
	usage    []model.UsageLog
}

func (r *stubSessionRepo) CreateSession(_ context.Context, s *model.ChatSession) error {
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *stubSessionRepo) CreateUsage(_ context.Context, u *model.UsageLog) error {
	r.usage = append(r.usage, *u)
	return nil
}

func (r *stubSessionRepo) CountSessions(_ context.Context) (int64, error) {
	return int64(len(r.sessions)), nil
}

func (r *stubSessionRepo) CountSessionsSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if !s.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) DeleteSessionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []model.ChatSession
	var removed int64
	for _, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	return removed, nil
}

func (r *stubSessionRepo) DeleteOrphanUsage(_ context.Context) (int64, error) {
	alive := make(map[string]bool, len(r.sessions))
	for _, s := range r.sessions {
		alive[s.SessionID] = true
	}
	var kept []model.UsageLog
	var removed int64
	for _, u := range r.usage {
		if alive[u.SessionID] {
			kept = append(kept, u)
			continue
		}
		removed++
	}
	r.usage = kept
	return removed, nil
}

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

// ── Service factory for tests ────────────────────────────────────────────────

type recipeFixture struct {
	svc       RecipeService
	products  *stubProductRepo
	materials *stubMaterialRepo
	processes *stubProcessRepo
	recipes   *stubRecipeRepo
	sessions  *stubSessionRepo
}

func buildRecipeSvc() *recipeFixture {
	f := &recipeFixture{
		products:  newStubProductRepo(),
		materials: newStubMaterialRepo(),
		processes: newStubProcessRepo(),
		recipes:   &stubRecipeRepo{},
		sessions:  &stubSessionRepo{},
	}
	validator := NewRecipeValidator(f.materials, f.processes)
	f.svc = NewRecipeService(f.recipes, f.products, f.materials, f.processes, f.sessions, validator)
	return f
}
