// Package backfill generates embeddings for catalog rows that lack them. The
// text fed to the provider is enriched with category and keyword context, so
// a business vector carries its rubro's vocabulary, not only its name.
package backfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/domain"
	"github.com/mibarrio/buscador/internal/repository/catalog"
)

// Catalog defines the storage contract for the backfill job.
type Catalog interface {
	BusinessesMissingEmbedding(ctx context.Context, limit int) ([]catalog.BusinessRow, error)
	ProductsMissingEmbedding(ctx context.Context, limit int) ([]catalog.ProductRow, error)
	CategoriesMissingEmbedding(ctx context.Context, limit int) ([]domain.Category, error)
	KeywordsByCategory(ctx context.Context) (map[uuid.UUID][]string, error)
	UpdateBusinessEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error
	UpdateProductEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error
	UpdateCategoryEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error
}

// Service runs the embedding backfill.
type Service struct {
	catalog Catalog
	embed   domain.Embedder
	logger  *zap.Logger
}

// Stats counts the outcome of one backfill run.
type Stats struct {
	Embedded int
	Skipped  int
}

// New creates a backfill service.
func New(catalog Catalog, embed domain.Embedder, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, embed: embed, logger: logger}
}

// Run backfills categories, businesses and products, in that order, up to
// batchSize rows each. Categories go first so the keyword dictionary is warm
// for the enriched texts. Per-row failures are logged and skipped; only a
// failure to list the pending rows aborts the run.
func (s *Service) Run(ctx context.Context, batchSize int) (Stats, error) {
	var stats Stats

	keywords, err := s.catalog.KeywordsByCategory(ctx)
	if err != nil {
		return stats, fmt.Errorf("load keyword dictionary: %w", err)
	}

	categories, err := s.catalog.CategoriesMissingEmbedding(ctx, batchSize)
	if err != nil {
		return stats, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range categories {
		s.embedOne(ctx, &stats, CategoryText(c, keywords[c.ID]), c.Name, func(vec []float32) error {
			return s.catalog.UpdateCategoryEmbedding(ctx, c.ID, vec)
		})
	}

	businesses, err := s.catalog.BusinessesMissingEmbedding(ctx, batchSize)
	if err != nil {
		return stats, fmt.Errorf("list businesses: %w", err)
	}
	for _, b := range businesses {
		var kw []string
		if b.CategoryID != nil {
			kw = keywords[*b.CategoryID]
		}
		s.embedOne(ctx, &stats, BusinessText(b, kw), b.Name, func(vec []float32) error {
			return s.catalog.UpdateBusinessEmbedding(ctx, b.ID, vec)
		})
	}

	products, err := s.catalog.ProductsMissingEmbedding(ctx, batchSize)
	if err != nil {
		return stats, fmt.Errorf("list products: %w", err)
	}
	for _, p := range products {
		s.embedOne(ctx, &stats, ProductText(p), p.Title, func(vec []float32) error {
			return s.catalog.UpdateProductEmbedding(ctx, p.ID, vec)
		})
	}

	s.logger.Info("Backfill finished",
		zap.Int("embedded", stats.Embedded),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (s *Service) embedOne(ctx context.Context, stats *Stats, text, label string, update func([]float32) error) {
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Embedding failed, row skipped", zap.String("row", label), zap.Error(err))
		stats.Skipped++
		return
	}
	if err := update(emb.Embedding); err != nil {
		s.logger.Warn("Embedding update failed, row skipped", zap.String("row", label), zap.Error(err))
		stats.Skipped++
		return
	}
	stats.Embedded++
}

// BusinessText builds the enriched text for a business vector: name, rubro,
// address, and the rubro's keyword vocabulary.
func BusinessText(b catalog.BusinessRow, keywords []string) string {
	parts := []string{b.Name}
	if b.CategoryName != "" {
		parts = append(parts, "rubro "+b.CategoryName)
	}
	if b.Address != "" {
		parts = append(parts, b.Address)
	}
	if len(keywords) > 0 {
		parts = append(parts, "vende "+strings.Join(keywords, ", "))
	}
	return strings.Join(parts, ". ")
}

// ProductText builds the enriched text for a product vector: title,
// description, and the owning business with its rubro.
func ProductText(p catalog.ProductRow) string {
	parts := []string{p.Title}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.BusinessName != "" {
		owner := "se vende en " + p.BusinessName
		if p.CategoryName != "" {
			owner += ", rubro " + p.CategoryName
		}
		parts = append(parts, owner)
	}
	return strings.Join(parts, ". ")
}

// CategoryText builds the enriched text for a category vector: the rubro name
// plus its keyword vocabulary.
func CategoryText(c domain.Category, keywords []string) string {
	if len(keywords) == 0 {
		return "rubro " + c.Name
	}
	return "rubro " + c.Name + ". vende " + strings.Join(keywords, ", ")
}
