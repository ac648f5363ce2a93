package relevance

import (
	"context"

	"github.com/mibarrio/buscador/internal/domain"
)

// BusinessMatcher runs lexical lookups over business names.
type BusinessMatcher interface {
	SearchBusinesses(ctx context.Context, term string) ([]domain.Candidate, error)
}

// ProductMatcher runs the lexical product tiers.
type ProductMatcher interface {
	SearchProducts(ctx context.Context, term string) ([]domain.Candidate, error)
	SearchProductsWide(ctx context.Context, term string) ([]domain.Candidate, error)
}

// ContextDetector resolves the query's category context.
type ContextDetector interface {
	Detect(ctx context.Context, term string) ([]domain.CategoryCandidate, error)
}

// SemanticMatcher retrieves candidates by embedding similarity.
type SemanticMatcher interface {
	Search(ctx context.Context, term string, target domain.Kind, params domain.SemanticParams) ([]domain.Candidate, error)
}
