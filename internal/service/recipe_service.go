package service

import (
	"context"
	"time"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"
	"signrecipes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RecipeService owns the ordered collection of recipe lines per product.
type RecipeService interface {
	// Replace validates the proposal and atomically swaps the product's
	// recipe for it. Readers never observe a partial recipe; concurrent
	// replaces for the same product serialize on the product row lock.
	Replace(ctx context.Context, productCode string, req dto.ReplaceRecipeRequest) (*dto.RecipeResponse, error)

	// Append adds lines to the existing recipe (incremental edit). Parent
	// sequences may reference already persisted lines.
	Append(ctx context.Context, productCode string, req dto.AppendLinesRequest) (*dto.RecipeResponse, error)

	// Get returns the recipe ascending by sequence. ErrNotFound only when the
	// product itself is missing; a product with no lines yields an empty list.
	Get(ctx context.Context, productCode string) (*dto.RecipeResponse, error)

	// ExportRows returns the ordered tabular form consumed by the CSV-export
	// collaborator.
	ExportRows(ctx context.Context, productCode string) ([]dto.ExportRow, error)

	// DeleteProduct removes the product and cascades to its recipe lines.
	DeleteProduct(ctx context.Context, productCode string) error
}

type recipeService struct {
	recipes   repository.RecipeRepository
	products  repository.ProductRepository
	materials repository.MaterialRepository
	processes repository.ProcessRepository
	sessions  repository.SessionRepository
	validator *RecipeValidator
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	products repository.ProductRepository,
	materials repository.MaterialRepository,
	processes repository.ProcessRepository,
	sessions repository.SessionRepository,
	validator *RecipeValidator,
) RecipeService {
	return &recipeService{
		recipes:   recipes,
		products:  products,
		materials: materials,
		processes: processes,
		sessions:  sessions,
		validator: validator,
	}
}

func (s *recipeService) Replace(ctx context.Context, productCode string, req dto.ReplaceRecipeRequest) (*dto.RecipeResponse, error) {
	product, err := s.products.FindByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, productCode, req.Lines)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.recipes.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := s.recipes.LockProductTx(tx, productCode); err != nil {
				return err
			}
		}
		// Full replace: validation sees only the batch — nothing persisted
		// survives the commit.
		if err := s.validator.Validate(ctx, req.Lines, nil); err != nil {
			return err
		}
		if tx != nil {
			if _, err := s.recipes.DeleteByProductTx(tx, productCode); err != nil {
				return err
			}
			return s.recipes.InsertTx(tx, lines)
		}
		return s.replaceWithoutTx(ctx, productCode, lines)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.recordSession(ctx, product, req)

	return s.Get(ctx, productCode)
}

// replaceWithoutTx is the nil-DB path used by unit tests with stub
// repositories; the stubs provide their own atomicity.
func (s *recipeService) replaceWithoutTx(ctx context.Context, productCode string, lines []model.RecipeLine) error {
	if _, err := s.recipes.DeleteByProductTx(nil, productCode); err != nil {
		return err
	}
	return s.recipes.InsertTx(nil, lines)
}

func (s *recipeService) Append(ctx context.Context, productCode string, req dto.AppendLinesRequest) (*dto.RecipeResponse, error) {
	if _, err := s.products.FindByCode(ctx, productCode); err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, productCode, req.Lines)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.recipes.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := s.recipes.LockProductTx(tx, productCode); err != nil {
				return err
			}
		}
		existing, err := s.recipes.SequencesTx(tx, productCode)
		if err != nil {
			return err
		}
		if err := s.validator.Validate(ctx, req.Lines, existing); err != nil {
			return err
		}
		return s.recipes.InsertTx(tx, lines)
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, productCode)
}

func (s *recipeService) Get(ctx context.Context, productCode string) (*dto.RecipeResponse, error) {
	product, err := s.products.FindByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	lines, err := s.recipes.ListByProduct(ctx, productCode)
	if err != nil {
		return nil, err
	}

	resp := &dto.RecipeResponse{
		Product: productToResponse(product),
		Recipe:  make([]dto.RecipeLineResponse, len(lines)),
	}
	for i, ln := range lines {
		resp.Recipe[i] = dto.RecipeLineResponse{
			Section:         ln.Section,
			Sequence:        ln.Sequence,
			ParentSequence:  ln.ParentSequence,
			RefCode:         ln.RefCode,
			Name:            ln.Name,
			Discipline:      ln.Discipline,
			WorkInstruction: ln.WorkInstruction,
		}
		if ln.Section == model.SectionMaterial {
			resp.TotalMaterials++
		} else {
			resp.TotalProcesses++
		}
	}
	return resp, nil
}

func (s *recipeService) ExportRows(ctx context.Context, productCode string) ([]dto.ExportRow, error) {
	recipe, err := s.Get(ctx, productCode)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.ExportRow, len(recipe.Recipe))
	for i, ln := range recipe.Recipe {
		rows[i] = dto.ExportRow{
			Sequence:        ln.Sequence,
			Section:         ln.Section,
			Code:            ln.RefCode,
			Name:            ln.Name,
			WorkInstruction: ln.WorkInstruction,
			Discipline:      ln.Discipline,
			ParentSequence:  ln.ParentSequence,
		}
	}
	return rows, nil
}

func (s *recipeService) DeleteProduct(ctx context.Context, productCode string) error {
	return runTx(ctx, s.recipes.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if _, err := s.recipes.DeleteByProductTx(nil, productCode); err != nil {
				return err
			}
			return s.products.DeleteByCodeTx(nil, productCode)
		}
		if _, err := s.recipes.DeleteByProductTx(tx, productCode); err != nil {
			return err
		}
		return s.products.DeleteByCodeTx(tx, productCode)
	})
}

// buildLines resolves catalog snapshots for each proposed line. Name and
// Discipline are captured here, at commit time, and never re-joined.
func (s *recipeService) buildLines(ctx context.Context, productCode string, proposed []dto.ProposedLine) ([]model.RecipeLine, error) {
	lines := make([]model.RecipeLine, len(proposed))
	for i, p := range proposed {
		ln := model.RecipeLine{
			ProductCode:     productCode,
			Section:         p.Section,
			Sequence:        p.Sequence,
			ParentSequence:  p.ParentSequence,
			RefCode:         p.RefCode,
			WorkInstruction: p.WorkInstruction,
		}
		switch p.Section {
		case model.SectionMaterial:
			if m, err := s.materials.FindByPartCode(ctx, p.RefCode); err == nil {
				ln.Name = m.FriendlyDescription
			}
		case model.SectionProcess:
			if proc, err := s.processes.FindByCode(ctx, p.RefCode); err == nil {
				ln.Name = proc.Name
				ln.Discipline = proc.Discipline
			}
		}
		lines[i] = ln
	}
	return lines, nil
}

// recordSession persists the chat-layer rows tied to a successful proposal.
// Best effort — a failed audit write never fails the already committed recipe.
func (s *recipeService) recordSession(ctx context.Context, product *model.Product, req dto.ReplaceRecipeRequest) {
	if req.SessionID == "" && req.Provider == "" {
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	code := product.Code
	sess := &model.ChatSession{
		SessionID:       sessionID,
		UserMessage:     req.UserMessage,
		AIResponse:      "Generated recipe for " + product.Name,
		RecipeGenerated: true,
		ProductCode:     &code,
		Provider:        req.Provider,
		CreatedAt:       time.Now(),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("recipe: session record failed")
		return
	}
	usage := &model.UsageLog{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Provider:    req.Provider,
		ProductCode: &code,
		CreatedAt:   time.Now(),
	}
	if err := s.sessions.CreateUsage(ctx, usage); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("recipe: usage record failed")
	}
}
