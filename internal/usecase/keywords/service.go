// Package keywords resolves free text to categories through the stored
// keyword dictionary, widened by the categories of product-title matches.
package keywords

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/domain"
	"github.com/mibarrio/buscador/internal/usecase/lexical"
)

// Catalog defines the storage contract for keyword resolution.
type Catalog interface {
	CategoriesForKeywords(ctx context.Context, patterns []string, limit int) ([]domain.Category, error)
	CategoriesOfProductMatches(ctx context.Context, patterns []string, limit int) ([]domain.Category, error)
}

// Service resolves query terms to candidate categories.
type Service struct {
	catalog Catalog
	limit   int
	logger  *zap.Logger
}

// New creates a keyword resolver.
func New(catalog Catalog, limit int, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, limit: limit, logger: logger}
}

// Resolve maps a term to categories, deduplicated by id. Two independent
// paths feed the result: the keyword dictionary itself, and the categories of
// businesses owning products whose title matches the term. The second path
// recovers categories for queries that name a product ("papas") rather than a
// keyword. Resolution never fails the query; a path that errors contributes
// nothing.
func (s *Service) Resolve(ctx context.Context, term string) []domain.Category {
	patterns := lexical.Patterns(term)

	seen := make(map[uuid.UUID]struct{})
	var out []domain.Category

	direct, err := s.catalog.CategoriesForKeywords(ctx, keywordPatterns(term), s.limit)
	if err != nil {
		s.logger.Warn("Keyword dictionary lookup failed", zap.String("term", term), zap.Error(err))
	}
	for _, c := range direct {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}

	enriched, err := s.catalog.CategoriesOfProductMatches(ctx, patterns, s.limit)
	if err != nil {
		s.logger.Warn("Keyword enrichment lookup failed", zap.String("term", term), zap.Error(err))
	}
	for _, c := range enriched {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}

	return out
}

// keywordPatterns builds the substring patterns matched against stored
// keyword text: the whole lowercased term, its naive singular, and each word
// of a multi-word term with its singular. "tengo hambre" must hit the
// dictionary keyword "hambre".
func keywordPatterns(term string) []string {
	t := strings.ToLower(strings.TrimSpace(term))

	forms := []string{t}
	if s := lexical.Singular(t); s != t {
		forms = append(forms, s)
	}
	for _, w := range strings.Fields(t) {
		if w == t || len(w) <= 2 {
			continue
		}
		forms = append(forms, w)
		if s := lexical.Singular(w); s != w {
			forms = append(forms, s)
		}
	}

	seen := make(map[string]struct{}, len(forms))
	patterns := make([]string, 0, len(forms))
	for _, f := range forms {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		patterns = append(patterns, "%"+f+"%")
	}
	return patterns
}
