// Package relevance implements the federated relevance engine: one free-text
// query fans out to lexical, keyword and semantic sources, and the merged
// candidates are scored into a single ranked decision.
package relevance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
	"github.com/mibarrio/buscador/internal/metrics"
)

// Source names reported in EngineResult.FailedSources.
const (
	sourceBusinesses     = "lexical-businesses"
	sourceContext        = "context"
	sourceProducts       = "products-lexical"
	sourceProductsWide   = "products-fulltext"
	sourceProductsRescue = "products-semantic"
)

// Service is the relevance engine.
type Service struct {
	businesses BusinessMatcher
	products   ProductMatcher
	detector   ContextDetector
	semantic   SemanticMatcher
	cfg        config.SearchConfig
	logger     *zap.Logger
}

// New creates a relevance engine.
func New(
	businesses BusinessMatcher,
	products ProductMatcher,
	detector ContextDetector,
	semantic SemanticMatcher,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		businesses: businesses,
		products:   products,
		detector:   detector,
		semantic:   semantic,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search runs the federated lookup and scoring for one term.
//
// The three sources (business names, category context, tiered products) run
// concurrently and are joined; a failed or timed-out source degrades to zero
// candidates and is recorded in FailedSources, so callers never mistake a
// partial result set for a complete one. Only a total failure of every source
// surfaces as an error.
func (s *Service) Search(ctx context.Context, term string) (domain.EngineResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.EngineResult{}, fmt.Errorf("empty search term: %w", domain.ErrInvalidTerm)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.SearchDeadlineMS)*time.Millisecond)
	defer cancel()

	var (
		wg         sync.WaitGroup
		businesses []domain.Candidate
		detected   []domain.CategoryCandidate
		products   []domain.Candidate

		businessesOK, contextOK, productsOK bool

		mu     sync.Mutex
		failed []string
	)

	degrade := func(source string, err error) {
		s.logger.Warn("Search source degraded",
			zap.String("term", term),
			zap.String("source", source),
			zap.Error(err),
		)
		metrics.SearchSourceDegradedTotal.WithLabelValues(source).Inc()
		mu.Lock()
		failed = append(failed, source)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		tctx, tcancel := s.sourceContext(ctx)
		defer tcancel()

		found, err := s.businesses.SearchBusinesses(tctx, term)
		if err != nil {
			degrade(sourceBusinesses, err)
			return
		}
		businesses, businessesOK = found, true
	}()
	go func() {
		defer wg.Done()
		tctx, tcancel := s.sourceContext(ctx)
		defer tcancel()

		found, err := s.detector.Detect(tctx, term)
		if err == nil {
			err = tctx.Err() // a timed-out detector degrades like a failed one
		}
		if err != nil {
			degrade(sourceContext, err)
			return
		}
		detected, contextOK = found, true
	}()
	go func() {
		defer wg.Done()
		products, productsOK = s.retrieveProducts(ctx, term, degrade)
	}()
	wg.Wait()

	if !businessesOK && !contextOK && !productsOK {
		metrics.SearchRequestsTotal.WithLabelValues("failed").Inc()
		return domain.EngineResult{}, fmt.Errorf("search %q: %w", term, domain.ErrAllSourcesFailed)
	}

	result := s.rank(term, businesses, detected, products)
	result.FailedSources = failed

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(outcome(&result)).Inc()

	s.logger.Info("Search completed",
		zap.String("term", term),
		zap.Int("businesses", len(result.Businesses)),
		zap.Int("categories", len(result.Categories)),
		zap.Int("products", len(result.Products)),
		zap.Strings("failed_sources", failed),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}

// retrieveProducts runs the tiered product lookup: substring first, full-text
// when below the minimum, semantic rescue when still below. Tiers union with
// dedupe by product id; cheaper tiers' hits are never discarded, and more
// expensive tiers are skipped once the minimum is met. The source as a whole
// counts as failed only when every attempted tier failed.
func (s *Service) retrieveProducts(ctx context.Context, term string, degrade func(string, error)) ([]domain.Candidate, bool) {
	tctx, tcancel := s.sourceContext(ctx)
	defer tcancel()

	var (
		out     []domain.Candidate
		anyTier bool
	)

	lexical, err := s.products.SearchProducts(tctx, term)
	if err != nil {
		degrade(sourceProducts, err)
	} else {
		out, anyTier = lexical, true
	}

	if len(out) >= s.cfg.ProductMinResults {
		return out, true
	}

	wide, err := s.products.SearchProductsWide(tctx, term)
	if err != nil {
		degrade(sourceProductsWide, err)
	} else {
		out, anyTier = unionProducts(out, wide), true
	}

	if len(out) >= s.cfg.ProductMinResults {
		return out, true
	}

	rescue, err := s.semantic.Search(tctx, term, domain.KindProduct, domain.SemanticParams{
		Threshold: s.cfg.SemanticRescue.Threshold,
		Limit:     s.cfg.SemanticRescue.Limit,
	})
	if err != nil {
		degrade(sourceProductsRescue, err)
		return out, anyTier
	}
	return unionProducts(out, rescue), true
}

func (s *Service) sourceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.cfg.SourceTimeoutMS)*time.Millisecond)
}

// unionProducts appends extra candidates not already present by product id.
func unionProducts(base, extra []domain.Candidate) []domain.Candidate {
	for i := range extra {
		dup := false
		for j := range base {
			if base[j].Product.ID == extra[i].Product.ID {
				dup = true
				break
			}
		}
		if !dup {
			base = append(base, extra[i])
		}
	}
	return base
}

func outcome(r *domain.EngineResult) string {
	if r.Winner == nil {
		return "empty"
	}
	return string(r.Winner.Kind)
}
