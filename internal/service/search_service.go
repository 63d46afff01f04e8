package service

import (
	"context"
	"sort"
	"strings"

	"signrecipes/internal/dto"
	"signrecipes/internal/repository"
)

const (
	searchLimit = 10
	// scoreFloor admits near-miss candidates that fail the substring
	// pre-filter but are still textually close to the query.
	scoreFloor = 0.3
)

// SearchService ranks catalog entries by textual similarity to a free-text
// query. Used by callers (typically the AI layer) to resolve descriptions to
// catalog codes.
type SearchService interface {
	Search(ctx context.Context, term string) (*dto.SearchResponse, error)
}

type searchService struct {
	products  repository.ProductRepository
	materials repository.MaterialRepository
	processes repository.ProcessRepository
}

func NewSearchService(
	products repository.ProductRepository,
	materials repository.MaterialRepository,
	processes repository.ProcessRepository,
) SearchService {
	return &searchService{products: products, materials: materials, processes: processes}
}

// candidate is a catalog entry flattened to its searchable text fields.
type candidate struct {
	kind     string
	code     string
	name     string
	category string
	fields   []string
}

func (s *searchService) Search(ctx context.Context, term string) (*dto.SearchResponse, error) {
	term = strings.TrimSpace(term)
	resp := &dto.SearchResponse{Query: term, Hits: []dto.SearchHit{}}
	if term == "" {
		return resp, nil
	}

	candidates, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(term)
	for _, c := range candidates {
		score := 0.0
		contains := false
		for _, f := range c.fields {
			if f == "" {
				continue
			}
			if strings.Contains(strings.ToLower(f), lowered) {
				contains = true
			}
			if sim := trigramSimilarity(term, f); sim > score {
				score = sim
			}
		}
		if !contains && score < scoreFloor {
			continue
		}
		resp.Hits = append(resp.Hits, dto.SearchHit{
			Kind:     c.kind,
			Code:     c.code,
			Name:     c.name,
			Category: c.category,
			Score:    score,
		})
	}

	// Descending score, catalog code ascending on ties — deterministic.
	sort.SliceStable(resp.Hits, func(i, j int) bool {
		if resp.Hits[i].Score != resp.Hits[j].Score {
			return resp.Hits[i].Score > resp.Hits[j].Score
		}
		return resp.Hits[i].Code < resp.Hits[j].Code
	})
	if len(resp.Hits) > searchLimit {
		resp.Hits = resp.Hits[:searchLimit]
	}
	return resp, nil
}

func (s *searchService) collect(ctx context.Context) ([]candidate, error) {
	var out []candidate

	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out = append(out, candidate{
			kind:     "product",
			code:     p.Code,
			name:     p.Name,
			category: p.Category,
			fields:   []string{p.Name, p.Category, p.ShortDescription},
		})
	}

	materials, err := s.materials.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		out = append(out, candidate{
			kind:     "material",
			code:     m.PartCode,
			name:     m.FriendlyDescription,
			category: m.Base,
			fields:   []string{m.FriendlyDescription, m.Base, m.Sub},
		})
	}

	processes, err := s.processes.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range processes {
		out = append(out, candidate{
			kind:     "process",
			code:     p.Code,
			name:     p.Name,
			category: p.Discipline,
			fields:   []string{p.Name, p.Discipline, p.Notes},
		})
	}

	return out, nil
}
