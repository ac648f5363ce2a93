// Package view turns an engine result into a presentation decision and loads
// the rows each view needs.
package view

import (
	"github.com/google/uuid"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

// Select maps an engine result to a presentation decision. Pure function, no
// I/O; payload rows are loaded afterwards by Service.Decide.
//
// The ladder: a high-confidence business winner gets its own profile; a
// category winner above the browse bar gets the category page; any ranked
// products render as a list with related businesses appended; businesses
// alone render as a business list; otherwise no-results carries the term.
func Select(res *domain.EngineResult, cfg config.SearchConfig) domain.ViewDecision {
	d := domain.ViewDecision{Term: res.Term}

	if w := res.Winner; w != nil {
		switch {
		case w.Kind == domain.KindBusiness && w.Score > cfg.BusinessProfileBar:
			d.View = domain.ViewBusinessProfile
			d.Business = w.Business
			return d
		case w.Kind == domain.KindCategory && w.Score > cfg.CategoryBrowseBar:
			d.View = domain.ViewCategoryBrowse
			d.Category = w.Category
			return d
		}
	}

	if len(res.Products) > 0 {
		d.View = domain.ViewProductList
		d.Products = res.Products
		d.Businesses = relatedBusinesses(res, cfg.RelatedBusinessCap)
		return d
	}

	if len(res.Businesses) > 0 {
		d.View = domain.ViewBusinessList
		d.Businesses = res.Businesses
		return d
	}

	d.View = domain.ViewNoResults
	return d
}

// relatedBusinesses builds the capped "you might also find it at" set for a
// product list: the ranked businesses first, then the owners of the ranked
// products, deduplicated by id.
func relatedBusinesses(res *domain.EngineResult, limit int) []domain.Candidate {
	seen := make(map[uuid.UUID]struct{})
	var out []domain.Candidate

	add := func(c domain.Candidate) {
		if len(out) >= limit {
			return
		}
		if _, ok := seen[c.Business.ID]; ok {
			return
		}
		seen[c.Business.ID] = struct{}{}
		out = append(out, c)
	}

	for i := range res.Businesses {
		add(res.Businesses[i])
	}
	for i := range res.Products {
		p := &res.Products[i]
		if p.Product.Business == nil {
			continue
		}
		owner := domain.BusinessCandidate(*p.Product.Business, p.Provenance)
		owner.Score = p.Score
		add(owner)
	}
	return out
}
