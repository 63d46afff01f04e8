package service

import (
	"context"

	"signrecipes/internal/dto"
	"signrecipes/internal/model"
	"signrecipes/internal/repository"
)

// maxHierarchyDepth is a hard cap on traversal depth. Parent links originate
// from positional data that is not guaranteed acyclic, so termination is
// enforced by bounding depth rather than by trusting the data.
const maxHierarchyDepth = 5

// HierarchyService resolves process parent/child chains. Read-only.
type HierarchyService interface {
	// Resolve returns the root and its descendants annotated with depth level
	// (root = 1), breadth-first, children ordered by sort position then code.
	// An unknown root is an empty result, not an error.
	Resolve(ctx context.Context, rootCode string) ([]dto.HierarchyNode, error)
}

type hierarchyService struct {
	processes repository.ProcessRepository
}

func NewHierarchyService(processes repository.ProcessRepository) HierarchyService {
	return &hierarchyService{processes: processes}
}

func (s *hierarchyService) Resolve(ctx context.Context, rootCode string) ([]dto.HierarchyNode, error) {
	root, err := s.processes.FindByCode(ctx, rootCode)
	if err == repository.ErrNotFound {
		return []dto.HierarchyNode{}, nil
	}
	if err != nil {
		return nil, err
	}

	nodes := []dto.HierarchyNode{{
		Level:      1,
		Code:       root.Code,
		Name:       root.Name,
		ParentCode: root.ParentCode,
	}}

	frontier := []model.Process{*root}
	for level := 2; level <= maxHierarchyDepth && len(frontier) > 0; level++ {
		var next []model.Process
		for _, parent := range frontier {
			children, err := s.processes.FindByParentCode(ctx, parent.Code)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				nodes = append(nodes, dto.HierarchyNode{
					Level:      level,
					Code:       child.Code,
					Name:       child.Name,
					ParentCode: child.ParentCode,
				})
			}
			next = append(next, children...)
		}
		frontier = next
	}

	return nodes, nil
}
