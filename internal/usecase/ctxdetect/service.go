// Package ctxdetect detects the category context of a query by combining
// lexical category matches, the keyword dictionary, and semantic category
// retrieval.
package ctxdetect

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

// CategoryMatcher runs lexical lookups over category names.
type CategoryMatcher interface {
	SearchCategories(ctx context.Context, term string) ([]domain.Candidate, error)
}

// KeywordResolver maps free text to dictionary categories.
type KeywordResolver interface {
	Resolve(ctx context.Context, term string) []domain.Category
}

// SemanticMatcher retrieves categories by embedding similarity.
type SemanticMatcher interface {
	Search(ctx context.Context, term string, target domain.Kind, params domain.SemanticParams) ([]domain.Candidate, error)
}

// Service is the context detector.
type Service struct {
	lexical  CategoryMatcher
	keywords KeywordResolver
	semantic SemanticMatcher
	cfg      config.SearchConfig
	logger   *zap.Logger
}

// New creates a context detector.
func New(
	lexical CategoryMatcher,
	keywords KeywordResolver,
	semantic SemanticMatcher,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		lexical:  lexical,
		keywords: keywords,
		semantic: semantic,
		cfg:      cfg,
		logger:   logger,
	}
}

// Detect resolves the term to ranked category candidates. The three lookups
// run concurrently and are joined; each failing lookup degrades to nothing.
// Duplicates merge by category id keeping the highest-provenance hit. A
// category found lexically or by keyword always outranks one found only
// semantically, whatever the similarity.
func (s *Service) Detect(ctx context.Context, term string) ([]domain.CategoryCandidate, error) {
	var (
		wg       sync.WaitGroup
		lexHits  []domain.Candidate
		kwHits   []domain.Category
		semHits  []domain.Candidate
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		hits, err := s.lexical.SearchCategories(ctx, term)
		if err != nil {
			s.logger.Warn("Context lexical lookup failed", zap.String("term", term), zap.Error(err))
			return
		}
		lexHits = hits
	}()
	go func() {
		defer wg.Done()
		kwHits = s.keywords.Resolve(ctx, term)
	}()
	go func() {
		defer wg.Done()
		hits, err := s.semantic.Search(ctx, term, domain.KindCategory, domain.SemanticParams{
			Threshold: s.cfg.SemanticPrecision.Threshold,
			Limit:     s.cfg.SemanticPrecision.Limit,
		})
		if err != nil {
			s.logger.Warn("Context semantic lookup failed", zap.String("term", term), zap.Error(err))
			return
		}
		semHits = hits
	}()
	wg.Wait()

	merged := make(map[uuid.UUID]domain.CategoryCandidate)
	var order []uuid.UUID

	upsert := func(cand domain.CategoryCandidate) {
		prev, ok := merged[cand.Category.ID]
		if !ok {
			merged[cand.Category.ID] = cand
			order = append(order, cand.Category.ID)
			return
		}
		if cand.Provenance.Rank() > prev.Provenance.Rank() ||
			(cand.Provenance.Rank() == prev.Provenance.Rank() && cand.Confidence > prev.Confidence) {
			merged[cand.Category.ID] = cand
		}
	}

	for i := range lexHits {
		upsert(domain.CategoryCandidate{
			Category:   *lexHits[i].Category,
			Provenance: lexHits[i].Provenance,
			Confidence: s.lexicalConfidence(lexHits[i].Provenance),
		})
	}
	for _, c := range kwHits {
		upsert(domain.CategoryCandidate{
			Category:   c,
			Provenance: domain.ProvenanceKeyword,
			Confidence: s.cfg.KeywordConfidence,
		})
	}
	for i := range semHits {
		upsert(domain.CategoryCandidate{
			Category:   *semHits[i].Category,
			Provenance: domain.ProvenanceSemantic,
			Confidence: semHits[i].Similarity * 100,
		})
	}

	out := make([]domain.CategoryCandidate, 0, len(merged))
	for _, id := range order {
		out = append(out, merged[id])
	}

	// Nucleo before periphery, then by confidence. Sorting is stable so the
	// insertion order breaks exact ties deterministically.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Nucleo() != out[j].Nucleo() {
			return out[i].Nucleo()
		}
		return out[i].Confidence > out[j].Confidence
	})

	if len(out) > s.cfg.ContextCategoryLimit {
		out = out[:s.cfg.ContextCategoryLimit]
	}
	return out, nil
}

func (s *Service) lexicalConfidence(p domain.Provenance) float64 {
	if p == domain.ProvenanceExact {
		return s.cfg.ExactConfidence
	}
	return s.cfg.FuzzyConfidence
}
