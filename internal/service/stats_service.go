package service

import (
	"context"
	"time"

	"signrecipes/internal/dto"
	"signrecipes/internal/repository"
)

// StatsService computes dashboard aggregates on demand — never cached, so the
// excluded dashboard collaborator always sees live counts.
type StatsService interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	products  repository.ProductRepository
	materials repository.MaterialRepository
	processes repository.ProcessRepository
	recipes   repository.RecipeRepository
	sessions  repository.SessionRepository
}

func NewStatsService(
	products repository.ProductRepository,
	materials repository.MaterialRepository,
	processes repository.ProcessRepository,
	recipes repository.RecipeRepository,
	sessions repository.SessionRepository,
) StatsService {
	return &statsService{
		products:  products,
		materials: materials,
		processes: processes,
		recipes:   recipes,
		sessions:  sessions,
	}
}

func (s *statsService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	resp := &dto.StatsResponse{}
	var err error

	if resp.Products, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if resp.Materials, err = s.materials.Count(ctx); err != nil {
		return nil, err
	}
	if resp.Processes, err = s.processes.Count(ctx); err != nil {
		return nil, err
	}
	if resp.RecipeLines, err = s.recipes.Count(ctx); err != nil {
		return nil, err
	}
	if resp.ChatSessions, err = s.sessions.CountSessions(ctx); err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if resp.SessionsLast7d, err = s.sessions.CountSessionsSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if resp.RecipesLast7d, err = s.recipes.CountSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	return resp, nil
}
