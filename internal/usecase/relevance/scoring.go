package relevance

import (
	"sort"
	"strings"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
	"github.com/mibarrio/buscador/internal/usecase/lexical"
)

// rank scores every candidate with the additive model, drops noise, sorts
// deterministically and picks the winner.
func (s *Service) rank(
	term string,
	businesses []domain.Candidate,
	detected []domain.CategoryCandidate,
	products []domain.Candidate,
) domain.EngineResult {
	ctxSet := contextSetFor(detected, s.cfg.SemanticOverrideBar)
	sc := s.cfg.Scoring

	for i := range businesses {
		businesses[i].Score = scoreBusiness(&businesses[i], term, ctxSet, sc)
	}

	categories := make([]domain.Candidate, 0, len(detected))
	for i := range detected {
		cand := domain.CategoryCandidateOf(detected[i].Category, detected[i].Provenance)
		cand.Score = scoreCategory(&detected[i], term, sc)
		categories = append(categories, cand)
	}

	for i := range products {
		products[i].Score = scoreProduct(&products[i], term, ctxSet, sc)
	}

	businesses = dropNoise(businesses, sc.NoiseFloor)
	categories = dropNoise(categories, sc.NoiseFloor)
	products = dropNoise(products, sc.NoiseFloor)

	sortByScore(businesses)
	sortByScore(categories)
	sortByScore(products)

	result := domain.EngineResult{
		Term:       term,
		Businesses: businesses,
		Categories: categories,
		Products:   products,
		Context:    detected,
	}
	result.Winner = s.pickWinner(&result, term)
	return result
}

// scoreBusiness: base, plus the single strongest name bonus, plus a context
// bonus when the business sits in a detected core category.
func scoreBusiness(c *domain.Candidate, term string, ctxSet domain.ContextSet, sc config.ScoringConfig) float64 {
	score := sc.BusinessBase

	name := strings.ToLower(strings.TrimSpace(c.Business.Name))
	t := strings.ToLower(strings.TrimSpace(term))
	switch {
	case name == t:
		score += sc.BusinessExactBonus
	case strings.HasPrefix(name, t):
		score += sc.BusinessPrefixBonus
	case strings.Contains(name, t):
		score += sc.BusinessContainsBonus
	}

	if ctxSet.InCore(c.Business.CategoryID) {
		score += sc.BusinessContextBonus
	}
	return score
}

// scoreCategory: the detector's confidence is already on the 0-100 scale. An
// exact-name category is lifted to at least the configured exact score.
func scoreCategory(c *domain.CategoryCandidate, term string, sc config.ScoringConfig) float64 {
	score := c.Confidence
	if strings.EqualFold(strings.TrimSpace(c.Category.Name), strings.TrimSpace(term)) && score < sc.CategoryExactScore {
		score = sc.CategoryExactScore
	}
	return score
}

// scoreProduct: base, text containment bonus, similarity-scaled semantic
// bonus, and the coherence boost when the owning business's category is in
// the detected core context. Coherence is the single most important rule: a
// "hamburguesa" sold by a Hamburgueseria ranks far above the same word found
// as a stray mention elsewhere.
func scoreProduct(c *domain.Candidate, term string, ctxSet domain.ContextSet, sc config.ScoringConfig) float64 {
	score := sc.ProductBase

	if lexical.Contains(c.Product.Title, term) || lexical.Contains(c.Product.Description, term) {
		score += sc.ProductContainsBonus
	}

	if c.Provenance == domain.ProvenanceSemantic {
		score += c.Similarity * sc.ProductSemanticMaxBonus
	}

	switch {
	case c.Product.Business != nil && ctxSet.InCore(c.Product.Business.CategoryID):
		score += sc.CoherenceBoost
	case c.Product.Business != nil && ctxSet.InPeriphery(c.Product.Business.CategoryID):
		score += sc.PeripheryBoost
	}
	return score
}

// pickWinner returns the highest-scoring candidate across all three lists,
// then applies the category override: when the leading category is a nucleo
// match and no product title literally equals the term, the category wins
// even if a product scored higher. A clear category query ("farmacia") shows
// a browse view instead of being hijacked by an incidental product match.
func (s *Service) pickWinner(r *domain.EngineResult, term string) *domain.Candidate {
	var winner *domain.Candidate
	for _, list := range [][]domain.Candidate{r.Businesses, r.Categories, r.Products} {
		for i := range list {
			if winner == nil || list[i].Score > winner.Score {
				winner = &list[i]
			}
		}
	}
	if winner == nil {
		return nil
	}

	if winner.Kind == domain.KindProduct && len(r.Categories) > 0 {
		top := &r.Categories[0]
		nucleo := top.Provenance != domain.ProvenanceSemantic
		if nucleo && !hasExactTitleProduct(r.Products, term) {
			return top
		}
	}
	return winner
}

func hasExactTitleProduct(products []domain.Candidate, term string) bool {
	for i := range products {
		if strings.EqualFold(strings.TrimSpace(products[i].Product.Title), strings.TrimSpace(term)) {
			return true
		}
	}
	return false
}

// contextSetFor splits detected categories into core and periphery. A
// semantic-only detection may be promoted to core when its similarity-scaled
// confidence clears the override bar and no nucleo hit exists at all.
func contextSetFor(detected []domain.CategoryCandidate, overrideBar float64) domain.ContextSet {
	set := domain.NewContextSet(detected)
	if len(set.Core) > 0 || len(detected) == 0 {
		return set
	}
	if detected[0].Confidence >= overrideBar*100 {
		set.Core[detected[0].Category.ID] = struct{}{}
		delete(set.Periphery, detected[0].Category.ID)
	}
	return set
}

func dropNoise(cands []domain.Candidate, floor float64) []domain.Candidate {
	kept := cands[:0]
	for i := range cands {
		if cands[i].Score >= floor {
			kept = append(kept, cands[i])
		}
	}
	return kept
}

// sortByScore orders descending by score; the sort is stable so equal scores
// keep their insertion order, making the ranking fully deterministic.
func sortByScore(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}
