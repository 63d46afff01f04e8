package service

import (
	"context"
	"time"

	"signrecipes/internal/dto"
	"signrecipes/internal/repository"

	"github.com/rs/zerolog/log"
)

// CleanupService garbage-collects stale session-scoped data and the rows
// orphaned by earlier deletions. Externally triggered — it never schedules
// itself (the worker package owns the timer).
type CleanupService interface {
	// Sweep removes chat sessions older than retention, then usage rows with
	// no owning session and recipe rows with no owning product. Idempotent:
	// an immediate second run removes nothing.
	Sweep(ctx context.Context, retention time.Duration) (*dto.CleanupResponse, error)
}

type cleanupService struct {
	sessions repository.SessionRepository
	recipes  repository.RecipeRepository
}

func NewCleanupService(sessions repository.SessionRepository, recipes repository.RecipeRepository) CleanupService {
	return &cleanupService{sessions: sessions, recipes: recipes}
}

func (s *cleanupService) Sweep(ctx context.Context, retention time.Duration) (*dto.CleanupResponse, error) {
	cutoff := time.Now().Add(-retention)

	sessions, err := s.sessions.DeleteSessionsBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	usage, err := s.sessions.DeleteOrphanUsage(ctx)
	if err != nil {
		return nil, err
	}
	recipeRows, err := s.recipes.DeleteOrphans(ctx)
	if err != nil {
		return nil, err
	}

	if sessions+usage+recipeRows > 0 {
		log.Info().
			Int64("sessions", sessions).
			Int64("usage_rows", usage).
			Int64("recipe_rows", recipeRows).
			Msg("cleanup: swept stale records")
	}

	return &dto.CleanupResponse{
		SessionsRemoved:   sessions,
		UsageRowsRemoved:  usage,
		RecipeRowsRemoved: recipeRows,
	}, nil
}
