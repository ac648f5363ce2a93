// Package lexical implements literal text matching against business names,
// product titles and category names. Pure text, no embeddings.
package lexical

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

// Service runs substring and full-text lookups over the catalog.
type Service struct {
	catalog Catalog
	cfg     config.SearchConfig
	logger  *zap.Logger
}

// New creates a lexical matcher.
func New(catalog Catalog, cfg config.SearchConfig, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, cfg: cfg, logger: logger}
}

// SearchBusinesses matches the term against business names. The substring
// tier runs first; when it returns fewer than the configured minimum, the
// full-text tier widens the search to cover typos.
func (s *Service) SearchBusinesses(ctx context.Context, term string) ([]domain.Candidate, error) {
	found, err := s.catalog.BusinessesByName(ctx, Patterns(term), s.cfg.LexicalLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical businesses: %w", err)
	}

	out := make([]domain.Candidate, 0, len(found))
	for _, b := range found {
		out = append(out, domain.BusinessCandidate(b, classify(b.Name, term)))
	}

	if len(out) >= s.cfg.LexicalMinResults {
		return out, nil
	}

	wide, err := s.catalog.BusinessesByNameFuzzy(ctx, term, s.cfg.LexicalLimit)
	if err != nil {
		// The substring tier already succeeded; keep what it found.
		s.logger.Warn("Business full-text tier failed", zap.String("term", term), zap.Error(err))
		return out, nil
	}
	for _, b := range wide {
		if len(out) >= s.cfg.LexicalLimit {
			break
		}
		if containsBusiness(out, b.ID) {
			continue
		}
		out = append(out, domain.BusinessCandidate(b, domain.ProvenanceFuzzy))
	}
	return out, nil
}

// SearchProducts matches the term against product titles and descriptions,
// substring tier only. The relevance engine decides when to widen.
func (s *Service) SearchProducts(ctx context.Context, term string) ([]domain.Candidate, error) {
	found, err := s.catalog.ProductsByText(ctx, Patterns(term), s.cfg.LexicalLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical products: %w", err)
	}

	out := make([]domain.Candidate, 0, len(found))
	for _, p := range found {
		out = append(out, domain.ProductCandidate(p, classify(p.Title, term)))
	}
	return out, nil
}

// SearchProductsWide runs the full-text product tier, invoked by the engine
// when the substring tier comes up short.
func (s *Service) SearchProductsWide(ctx context.Context, term string) ([]domain.Candidate, error) {
	found, err := s.catalog.ProductsByFullText(ctx, term, s.cfg.LexicalLimit)
	if err != nil {
		return nil, fmt.Errorf("full-text products: %w", err)
	}

	out := make([]domain.Candidate, 0, len(found))
	for _, p := range found {
		out = append(out, domain.ProductCandidate(p, domain.ProvenanceFuzzy))
	}
	return out, nil
}

// SearchCategories matches the term against category names, with the same
// substring-then-full-text tiering as businesses. Used by context detection.
func (s *Service) SearchCategories(ctx context.Context, term string) ([]domain.Candidate, error) {
	found, err := s.catalog.CategoriesByName(ctx, Patterns(term), s.cfg.LexicalLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical categories: %w", err)
	}

	out := make([]domain.Candidate, 0, len(found))
	for _, c := range found {
		out = append(out, domain.CategoryCandidateOf(c, classify(c.Name, term)))
	}

	if len(out) >= s.cfg.LexicalMinResults {
		return out, nil
	}

	wide, err := s.catalog.CategoriesByNameFuzzy(ctx, term, s.cfg.LexicalLimit)
	if err != nil {
		s.logger.Warn("Category full-text tier failed", zap.String("term", term), zap.Error(err))
		return out, nil
	}
	for _, c := range wide {
		if len(out) >= s.cfg.LexicalLimit {
			break
		}
		if containsCategory(out, c.ID) {
			continue
		}
		out = append(out, domain.CategoryCandidateOf(c, domain.ProvenanceFuzzy))
	}
	return out, nil
}

// classify derives the provenance tier from how the name relates to the term.
func classify(name, term string) domain.Provenance {
	n := strings.ToLower(strings.TrimSpace(name))
	t := strings.ToLower(strings.TrimSpace(term))
	switch {
	case n == t:
		return domain.ProvenanceExact
	case strings.HasPrefix(n, t):
		return domain.ProvenancePrefix
	default:
		return domain.ProvenancePartial
	}
}

func containsBusiness(cands []domain.Candidate, id uuid.UUID) bool {
	for i := range cands {
		if cands[i].Business.ID == id {
			return true
		}
	}
	return false
}

func containsCategory(cands []domain.Candidate, id uuid.UUID) bool {
	for i := range cands {
		if cands[i].Category.ID == id {
			return true
		}
	}
	return false
}
