package view

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

func searchConfig(t *testing.T) config.SearchConfig {
	t.Helper()
	var cfg config.Config
	cfg.ApplyDefaults()
	return cfg.Search
}

func scoredBusiness(name string, score float64) domain.Candidate {
	c := domain.BusinessCandidate(domain.Business{ID: uuid.New(), Name: name}, domain.ProvenanceExact)
	c.Score = score
	return c
}

func scoredCategory(name string, score float64) domain.Candidate {
	c := domain.CategoryCandidateOf(domain.Category{ID: uuid.New(), Name: name}, domain.ProvenanceExact)
	c.Score = score
	return c
}

func scoredProduct(title string, owner *domain.Business, score float64) domain.Candidate {
	p := domain.Product{ID: uuid.New(), Title: title}
	if owner != nil {
		p.BusinessID = owner.ID
		p.Business = owner
	}
	c := domain.ProductCandidate(p, domain.ProvenancePartial)
	c.Score = score
	return c
}

func TestSelect_BusinessProfile(t *testing.T) {
	winner := scoredBusiness("Pikaburguers", 100)
	res := &domain.EngineResult{
		Term:       "Pikaburguers",
		Winner:     &winner,
		Businesses: []domain.Candidate{winner},
	}

	d := Select(res, searchConfig(t))
	if d.View != domain.ViewBusinessProfile {
		t.Fatalf("view = %s, expected business-profile", d.View)
	}
	if d.Business == nil || d.Business.Name != "Pikaburguers" {
		t.Fatalf("expected the winning business in the decision, got %+v", d.Business)
	}
}

func TestSelect_BusinessBelowBarFallsThrough(t *testing.T) {
	// A business winner at exactly the bar does not get a profile page.
	winner := scoredBusiness("Farmacia Sur", 90)
	res := &domain.EngineResult{
		Term:       "farmacia sur",
		Winner:     &winner,
		Businesses: []domain.Candidate{winner},
	}

	d := Select(res, searchConfig(t))
	if d.View != domain.ViewBusinessList {
		t.Fatalf("view = %s, expected business-list", d.View)
	}
}

func TestSelect_CategoryBrowse(t *testing.T) {
	winner := scoredCategory("Farmacia", 100)
	res := &domain.EngineResult{
		Term:       "Farmacia",
		Winner:     &winner,
		Categories: []domain.Candidate{winner},
	}

	d := Select(res, searchConfig(t))
	if d.View != domain.ViewCategoryBrowse {
		t.Fatalf("view = %s, expected category-browse", d.View)
	}
	if d.Category == nil || d.Category.Name != "Farmacia" {
		t.Fatalf("expected the winning category, got %+v", d.Category)
	}
}

func TestSelect_ProductList(t *testing.T) {
	owner := domain.Business{ID: uuid.New(), Name: "Ferreteria El Tornillo"}
	winner := scoredProduct("Taladro", &owner, 140)
	res := &domain.EngineResult{
		Term:     "Taladro",
		Winner:   &winner,
		Products: []domain.Candidate{winner},
	}

	d := Select(res, searchConfig(t))
	if d.View != domain.ViewProductList {
		t.Fatalf("view = %s, expected product-list", d.View)
	}
	if len(d.Products) != 1 {
		t.Fatalf("expected the ranked products, got %d", len(d.Products))
	}
	// The owning business appears in the related section.
	if len(d.Businesses) != 1 || d.Businesses[0].Business.ID != owner.ID {
		t.Fatalf("expected the owning business as related, got %v", d.Businesses)
	}
}

func TestSelect_RelatedBusinessesCapAndDedupe(t *testing.T) {
	cfg := searchConfig(t)
	cfg.RelatedBusinessCap = 3

	shared := domain.Business{ID: uuid.New(), Name: "Kiosco 24"}
	var products []domain.Candidate
	products = append(products, scoredProduct("Papas fritas", &shared, 90))
	products = append(products, scoredProduct("Papas rusticas", &shared, 85)) // same owner
	for i := 0; i < 5; i++ {
		owner := domain.Business{ID: uuid.New(), Name: "Otro"}
		products = append(products, scoredProduct("Papas", &owner, 80))
	}
	winner := products[0]
	res := &domain.EngineResult{Term: "papas", Winner: &winner, Products: products}

	d := Select(res, cfg)
	if len(d.Businesses) != 3 {
		t.Fatalf("expected related cap of 3, got %d", len(d.Businesses))
	}
	seen := make(map[uuid.UUID]int)
	for _, b := range d.Businesses {
		seen[b.Business.ID]++
	}
	if seen[shared.ID] != 1 {
		t.Errorf("expected the shared owner exactly once, got %d", seen[shared.ID])
	}
}

func TestSelect_NoResults(t *testing.T) {
	res := &domain.EngineResult{Term: "zzzz"}
	d := Select(res, searchConfig(t))
	if d.View != domain.ViewNoResults {
		t.Fatalf("view = %s, expected no-results", d.View)
	}
	if d.Term != "zzzz" {
		t.Errorf("expected the original term carried for messaging, got %q", d.Term)
	}
}

// --- Decide (payload hydration) ---

type mockCatalog struct {
	profileProducts []domain.Product
	profileErr      error
	businesses      []domain.Business
	businessesErr   error
	featured        []domain.Product
	featuredErr     error
}

func (m *mockCatalog) ProductsByBusiness(_ context.Context, _ uuid.UUID, _ int) ([]domain.Product, error) {
	return m.profileProducts, m.profileErr
}

func (m *mockCatalog) BusinessesByCategories(_ context.Context, _ []uuid.UUID, _ int) ([]domain.Business, error) {
	return m.businesses, m.businessesErr
}

func (m *mockCatalog) FeaturedProductsByCategories(_ context.Context, _ []uuid.UUID, _ int) ([]domain.Product, error) {
	return m.featured, m.featuredErr
}

func TestDecide_HydratesBusinessProfile(t *testing.T) {
	winner := scoredBusiness("Pikaburguers", 100)
	res := &domain.EngineResult{Term: "Pikaburguers", Winner: &winner}

	catalog := &mockCatalog{profileProducts: []domain.Product{
		{ID: uuid.New(), Title: "Hamburguesa doble"},
		{ID: uuid.New(), Title: "Papas fritas"},
	}}
	svc := New(catalog, searchConfig(t), zap.NewNop())

	d, err := svc.Decide(context.Background(), res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.View != domain.ViewBusinessProfile {
		t.Fatalf("view = %s, expected business-profile", d.View)
	}
	if len(d.Products) != 2 {
		t.Fatalf("expected the business's own products, got %d", len(d.Products))
	}
}

func TestDecide_HydratesCategoryBrowse(t *testing.T) {
	winner := scoredCategory("Farmacia", 100)
	res := &domain.EngineResult{Term: "Farmacia", Winner: &winner, Categories: []domain.Candidate{winner}}

	catalog := &mockCatalog{
		businesses: []domain.Business{{ID: uuid.New(), Name: "Farmacia Sur"}},
		featured:   []domain.Product{{ID: uuid.New(), Title: "Alcohol en gel"}},
	}
	svc := New(catalog, searchConfig(t), zap.NewNop())

	d, err := svc.Decide(context.Background(), res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.View != domain.ViewCategoryBrowse {
		t.Fatalf("view = %s, expected category-browse", d.View)
	}
	if len(d.Businesses) != 1 || len(d.Products) != 1 {
		t.Fatalf("expected businesses and featured products, got %d/%d",
			len(d.Businesses), len(d.Products))
	}
}

func TestDecide_FeaturedFailureKeepsBrowse(t *testing.T) {
	winner := scoredCategory("Farmacia", 100)
	res := &domain.EngineResult{Term: "Farmacia", Winner: &winner, Categories: []domain.Candidate{winner}}

	catalog := &mockCatalog{
		businesses:  []domain.Business{{ID: uuid.New(), Name: "Farmacia Sur"}},
		featuredErr: errors.New("timeout"),
	}
	svc := New(catalog, searchConfig(t), zap.NewNop())

	d, err := svc.Decide(context.Background(), res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.View != domain.ViewCategoryBrowse || len(d.Businesses) != 1 {
		t.Fatalf("expected the browse view to survive a featured-products failure, got %+v", d)
	}
}
