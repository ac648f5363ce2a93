// Package semantic wraps embedding generation plus nearest-neighbor retrieval
// behind one uniform lookup per target type.
package semantic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/domain"
)

// Catalog defines the vector-search contract per target type.
type Catalog interface {
	SemanticBusinesses(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error)
	SemanticCategories(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error)
	SemanticProducts(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error)
}

// Service embeds a term and runs nearest-neighbor lookups against the
// catalog's vector columns.
type Service struct {
	catalog Catalog
	embed   domain.Embedder
	logger  *zap.Logger
}

// New creates a semantic matcher.
func New(catalog Catalog, embed domain.Embedder, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, embed: embed, logger: logger}
}

// Search embeds the term and retrieves the nearest candidates of the given
// kind. Threshold and cap come from the call site: a rescue lookup runs loose,
// a precision lookup runs tight. Provider failures surface as
// ErrEmbeddingProviderError so callers can degrade the source.
func (s *Service) Search(ctx context.Context, term string, target domain.Kind, params domain.SemanticParams) ([]domain.Candidate, error) {
	emb, err := s.embed.Embed(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("vectorize term: %w", err)
	}
	if len(emb.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding for term: %w", domain.ErrEmbeddingProviderError)
	}

	var found []domain.Candidate
	switch target {
	case domain.KindBusiness:
		found, err = s.catalog.SemanticBusinesses(ctx, emb.Embedding, params.Threshold, params.Limit)
	case domain.KindCategory:
		found, err = s.catalog.SemanticCategories(ctx, emb.Embedding, params.Threshold, params.Limit)
	case domain.KindProduct:
		found, err = s.catalog.SemanticProducts(ctx, emb.Embedding, params.Threshold, params.Limit)
	default:
		return nil, fmt.Errorf("unsupported semantic target: %s", target)
	}
	if err != nil {
		return nil, fmt.Errorf("semantic %s lookup: %w", target, err)
	}

	s.logger.Debug("Semantic lookup",
		zap.String("target", string(target)),
		zap.Float64("threshold", params.Threshold),
		zap.Int("hits", len(found)),
	)
	return found, nil
}
