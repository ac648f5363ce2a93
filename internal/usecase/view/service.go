package view

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

// Catalog defines the storage contract for view payload loading.
type Catalog interface {
	ProductsByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]domain.Product, error)
	BusinessesByCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Business, error)
	FeaturedProductsByCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Product, error)
}

// Service selects the view and loads the rows it renders.
type Service struct {
	catalog Catalog
	cfg     config.SearchConfig
	logger  *zap.Logger
}

// New creates a view service.
func New(catalog Catalog, cfg config.SearchConfig, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, cfg: cfg, logger: logger}
}

// Decide selects the presentation for an engine result and hydrates its
// payload: a business profile gets the business's own products, a category
// browse gets the category's businesses plus featured products. The other
// views carry ranked candidates straight from the engine.
func (s *Service) Decide(ctx context.Context, res *domain.EngineResult) (domain.ViewDecision, error) {
	d := Select(res, s.cfg)

	switch d.View {
	case domain.ViewBusinessProfile:
		products, err := s.catalog.ProductsByBusiness(ctx, d.Business.ID, s.cfg.LexicalLimit)
		if err != nil {
			return domain.ViewDecision{}, fmt.Errorf("load profile products: %w", err)
		}
		for _, p := range products {
			d.Products = append(d.Products, domain.ProductCandidate(p, domain.ProvenanceExact))
		}

	case domain.ViewCategoryBrowse:
		ids := []uuid.UUID{d.Category.ID}

		businesses, err := s.catalog.BusinessesByCategories(ctx, ids, s.cfg.LexicalLimit)
		if err != nil {
			return domain.ViewDecision{}, fmt.Errorf("load category businesses: %w", err)
		}
		for _, b := range businesses {
			d.Businesses = append(d.Businesses, domain.BusinessCandidate(b, res.Winner.Provenance))
		}

		featured, err := s.catalog.FeaturedProductsByCategories(ctx, ids, s.cfg.FeaturedProductCap)
		if err != nil {
			// The business listing alone is still a usable browse page.
			s.logger.Warn("Featured products load failed",
				zap.String("category", d.Category.Name), zap.Error(err))
		}
		for _, p := range featured {
			d.Products = append(d.Products, domain.ProductCandidate(p, res.Winner.Provenance))
		}
	}

	return d, nil
}
