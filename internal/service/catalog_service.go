package service

import (
	"context"
	"fmt"
	"math"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"
	"signrecipes/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService owns bulk import and single-record catalog reads.
type CatalogService interface {
	// Import processes the three batches independently. Each entity type is
	// all-or-nothing: shape validation failure rejects that batch without
	// touching the store, reported via BatchResult.Rejected.
	Import(ctx context.Context, req dto.ImportRequest) (*dto.ImportResponse, error)

	GetProduct(ctx context.Context, code string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	GetMaterial(ctx context.Context, partCode string) (*dto.MaterialResponse, error)
	GetProcess(ctx context.Context, code string) (*dto.ProcessResponse, error)
}

type catalogService struct {
	products  repository.ProductRepository
	materials repository.MaterialRepository
	processes repository.ProcessRepository
}

func NewCatalogService(
	products repository.ProductRepository,
	materials repository.MaterialRepository,
	processes repository.ProcessRepository,
) CatalogService {
	return &catalogService{products: products, materials: materials, processes: processes}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *catalogService) Import(ctx context.Context, req dto.ImportRequest) (*dto.ImportResponse, error) {
	resp := &dto.ImportResponse{}

	if len(req.Products) > 0 {
		res, err := s.importProducts(ctx, req.Products)
		if err != nil {
			return nil, err
		}
		resp.Products = res
	}
	if len(req.Materials) > 0 {
		res, err := s.importMaterials(ctx, req.Materials)
		if err != nil {
			return nil, err
		}
		resp.Materials = res
	}
	if len(req.Processes) > 0 {
		res, err := s.importProcesses(ctx, req.Processes)
		if err != nil {
			return nil, err
		}
		resp.Processes = res
	}
	return resp, nil
}

func (s *catalogService) importProducts(ctx context.Context, records []dto.ProductRecord) (*dto.BatchResult, error) {
	res := &dto.BatchResult{Entity: "products"}

	codes := make(map[string]bool, len(records))
	for i, rec := range records {
		switch {
		case rec.Code == "":
			return rejected(res, &BatchError{Entity: "products", Row: i, Reason: "missing product_code"}), nil
		case rec.Name == "":
			return rejected(res, &BatchError{Entity: "products", Row: i, Reason: "missing product_name"}), nil
		case codes[rec.Code]:
			return rejected(res, &BatchError{Entity: "products", Row: i, Reason: fmt.Sprintf("duplicate product_code %q in batch", rec.Code)}), nil
		}
		codes[rec.Code] = true
	}

	batch := make([]model.Product, len(records))
	for i, rec := range records {
		batch[i] = model.Product{
			Code:             rec.Code,
			Name:             rec.Name,
			Category:         rec.Category,
			CoreCapability:   rec.CoreCapability,
			Outsourced:       rec.Outsourced,
			AssignedRecipe:   rec.AssignedRecipe,
			ShortDescription: rec.ShortDescription,
		}
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		res.Inserted, res.Updated, err = s.products.UpsertBatchTx(tx, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *catalogService) importMaterials(ctx context.Context, records []dto.MaterialRecord) (*dto.BatchResult, error) {
	res := &dto.BatchResult{Entity: "materials"}

	codes := make(map[string]bool, len(records))
	for i, rec := range records {
		switch {
		case rec.PartCode == "":
			return rejected(res, &BatchError{Entity: "materials", Row: i, Reason: "missing partcode"}), nil
		case rec.FriendlyDescription == "":
			return rejected(res, &BatchError{Entity: "materials", Row: i, Reason: "missing friendly_description"}), nil
		case codes[rec.PartCode]:
			return rejected(res, &BatchError{Entity: "materials", Row: i, Reason: fmt.Sprintf("duplicate partcode %q in batch", rec.PartCode)}), nil
		}
		codes[rec.PartCode] = true
	}

	batch := make([]model.Material, len(records))
	for i, rec := range records {
		batch[i] = model.Material{
			PartCode:            rec.PartCode,
			FriendlyDescription: rec.FriendlyDescription,
			Base:                rec.Base,
			Sub:                 rec.Sub,
			Thickness:           rec.Thickness,
			Grade:               rec.Grade,
		}
	}

	err := runTx(ctx, s.materials.DB(), func(tx *gorm.DB) error {
		var err error
		res.Inserted, res.Updated, err = s.materials.UpsertBatchTx(tx, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *catalogService) importProcesses(ctx context.Context, records []dto.ProcessRecord) (*dto.BatchResult, error) {
	res := &dto.BatchResult{Entity: "processes"}

	codes := make(map[string]bool, len(records))
	for i, rec := range records {
		switch {
		case rec.Code == "":
			return rejected(res, &BatchError{Entity: "processes", Row: i, Reason: "missing proc_code"}), nil
		case rec.Name == "":
			return rejected(res, &BatchError{Entity: "processes", Row: i, Reason: "missing proc_name"}), nil
		case codes[rec.Code]:
			return rejected(res, &BatchError{Entity: "processes", Row: i, Reason: fmt.Sprintf("duplicate proc_code %q in batch", rec.Code)}), nil
		}
		codes[rec.Code] = true
	}

	// The source data links parents by sort position, not code. Resolve the
	// positional links ONCE here into stable code references; the hierarchy
	// resolver only ever follows parent_code afterwards.
	byPosition := make(map[int]string, len(records))
	for _, rec := range records {
		byPosition[rec.SortPosition] = rec.Code
	}

	batch := make([]model.Process, len(records))
	for i, rec := range records {
		p := model.Process{
			Code:           rec.Code,
			Name:           rec.Name,
			Discipline:     rec.Discipline,
			SortPosition:   rec.SortPosition,
			ParentPosition: rec.ParentPosition,
			InputForm:      rec.InputForm,
			OutputForm:     rec.OutputForm,
			KeyTools:       rec.KeyTools,
			SetupTimeMin:   rec.SetupTimeMin,
			RunRateUnit:    rec.RunRateUnit,
			DefectRiskPct:  rec.DefectRiskPct,
			Notes:          rec.Notes,
		}
		if rec.ParentPosition != 0 {
			if parent, ok := byPosition[rec.ParentPosition]; ok {
				p.ParentCode = &parent
			} else {
				// Tolerated: the process becomes a root, matching how the
				// source data behaved when a parent position pointed nowhere.
				log.Warn().
					Str("proc_code", rec.Code).
					Int("parent_id", rec.ParentPosition).
					Msg("catalog import: unresolvable parent position, importing as root")
			}
		}
		batch[i] = p
	}

	err := runTx(ctx, s.processes.DB(), func(tx *gorm.DB) error {
		var err error
		res.Inserted, res.Updated, err = s.processes.UpsertBatchTx(tx, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// rejected records a batch-wide rejection on the result. The typed error is
// the internal representation; the DTO carries it to the import response.
func rejected(res *dto.BatchResult, err *BatchError) *dto.BatchResult {
	log.Warn().
		Str("entity", err.Entity).
		Int("row", err.Row).
		Str("reason", err.Reason).
		Msg("catalog import: batch rejected")
	res.Rejected = &dto.BatchRejection{Row: err.Row, Reason: err.Reason}
	return res
}

// ─── Reads ───────────────────────────────────────────────────────────────────

func (s *catalogService) GetProduct(ctx context.Context, code string) (*dto.ProductResponse, error) {
	p, err := s.products.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	// Query params bind without struct validation, so paging bounds are
	// enforced here. An explicit limit=0 would otherwise divide by zero in
	// the total-pages computation.
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *catalogService) GetMaterial(ctx context.Context, partCode string) (*dto.MaterialResponse, error) {
	m, err := s.materials.FindByPartCode(ctx, partCode)
	if err != nil {
		return nil, err
	}
	return &dto.MaterialResponse{
		PartCode:            m.PartCode,
		FriendlyDescription: m.FriendlyDescription,
		Base:                m.Base,
		Sub:                 m.Sub,
		Thickness:           m.Thickness,
		Grade:               m.Grade,
	}, nil
}

func (s *catalogService) GetProcess(ctx context.Context, code string) (*dto.ProcessResponse, error) {
	p, err := s.processes.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessResponse{
		Code:          p.Code,
		Name:          p.Name,
		Discipline:    p.Discipline,
		SortPosition:  p.SortPosition,
		ParentCode:    p.ParentCode,
		InputForm:     p.InputForm,
		OutputForm:    p.OutputForm,
		KeyTools:      p.KeyTools,
		SetupTimeMin:  p.SetupTimeMin,
		RunRateUnit:   p.RunRateUnit,
		DefectRiskPct: p.DefectRiskPct,
		Notes:         p.Notes,
	}, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Code:             p.Code,
		Name:             p.Name,
		Category:         p.Category,
		CoreCapability:   p.CoreCapability,
		Outsourced:       p.Outsourced,
		AssignedRecipe:   p.AssignedRecipe,
		ShortDescription: p.ShortDescription,
	}
}
