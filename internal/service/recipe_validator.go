package service

import (
	"context"
	"fmt"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"
	"signrecipes/internal/repository"
)

// catalogLookup answers "does this code exist" for one section. Split out so
// the validator can be exercised without a live store.
type catalogLookup func(ctx context.Context, code string) (bool, error)

// RecipeValidator decides whether a candidate batch of recipe lines for one
// product is acceptable to commit. Checks run in a fixed order and the first
// failure wins; callers must not commit any of the batch on error.
type RecipeValidator struct {
	materialExists catalogLookup
	processExists  catalogLookup
}

func NewRecipeValidator(materials repository.MaterialRepository, processes repository.ProcessRepository) *RecipeValidator {
	return &RecipeValidator{
		materialExists: func(ctx context.Context, code string) (bool, error) {
			_, err := materials.FindByPartCode(ctx, code)
			return lookupResult(err)
		},
		processExists: func(ctx context.Context, code string) (bool, error) {
			_, err := processes.FindByCode(ctx, code)
			return lookupResult(err)
		},
	}
}

func lookupResult(err error) (bool, error) {
	switch err {
	case nil:
		return true, nil
	case repository.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

// Validate checks a batch against the final intended state. existingSequences
// holds sequences already persisted for the product that will SURVIVE the
// commit: empty for a full replace, the current recipe for incremental edits.
//
// Order, first failure wins:
//  1. section ∈ {Material, Process}
//  2. no duplicate sequence across batch ∪ existing
//  3. every parent_sequence resolves within batch ∪ existing
//  4. every catalog code exists for its section
func (v *RecipeValidator) Validate(ctx context.Context, lines []dto.ProposedLine, existingSequences []int) error {
	seen := make(map[int]bool, len(lines)+len(existingSequences))
	for _, s := range existingSequences {
		seen[s] = true
	}

	// 1 + 2: section enum and sequence uniqueness
	for _, ln := range lines {
		if ln.Section != model.SectionMaterial && ln.Section != model.SectionProcess {
			return &ValidationError{
				Kind:     KindInvalidSection,
				Sequence: ln.Sequence,
				Detail:   fmt.Sprintf("section %q is not Material or Process", ln.Section),
			}
		}
		if seen[ln.Sequence] {
			return &ValidationError{
				Kind:     KindSequenceConflict,
				Sequence: ln.Sequence,
				Detail:   fmt.Sprintf("sequence %d already used for this product", ln.Sequence),
			}
		}
		seen[ln.Sequence] = true
	}

	// 3: parent resolution against the final state
	for _, ln := range lines {
		if ln.ParentSequence == nil {
			continue
		}
		if !seen[*ln.ParentSequence] {
			return &ValidationError{
				Kind:     KindDanglingParentRef,
				Sequence: ln.Sequence,
				Detail:   fmt.Sprintf("parent_sequence %d does not exist for this product", *ln.ParentSequence),
			}
		}
	}

	// 4: catalog references per section
	for _, ln := range lines {
		lookup := v.materialExists
		if ln.Section == model.SectionProcess {
			lookup = v.processExists
		}
		ok, err := lookup(ctx, ln.RefCode)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{
				Kind:     KindUnknownCatalog,
				Sequence: ln.Sequence,
				Code:     ln.RefCode,
				Detail:   fmt.Sprintf("%s code %q not in catalog", ln.Section, ln.RefCode),
			}
		}
	}

	return nil
}
