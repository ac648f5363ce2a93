package lexical

import (
	"context"

	"github.com/mibarrio/buscador/internal/domain"
)

// Catalog defines the storage contract for lexical lookups.
type Catalog interface {
	BusinessesByName(ctx context.Context, patterns []string, limit int) ([]domain.Business, error)
	BusinessesByNameFuzzy(ctx context.Context, term string, limit int) ([]domain.Business, error)
	ProductsByText(ctx context.Context, patterns []string, limit int) ([]domain.Product, error)
	ProductsByFullText(ctx context.Context, term string, limit int) ([]domain.Product, error)
	CategoriesByName(ctx context.Context, patterns []string, limit int) ([]domain.Category, error)
	CategoriesByNameFuzzy(ctx context.Context, term string, limit int) ([]domain.Category, error)
}
