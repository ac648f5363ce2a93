package relevance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

type mockBusinesses struct {
	hits []domain.Candidate
	err  error
}

func (m *mockBusinesses) SearchBusinesses(_ context.Context, _ string) ([]domain.Candidate, error) {
	return m.hits, m.err
}

type mockProducts struct {
	lexical []domain.Candidate
	lexErr  error
	wide    []domain.Candidate
	wideErr error

	wideCalled bool
}

func (m *mockProducts) SearchProducts(_ context.Context, _ string) ([]domain.Candidate, error) {
	return m.lexical, m.lexErr
}

func (m *mockProducts) SearchProductsWide(_ context.Context, _ string) ([]domain.Candidate, error) {
	m.wideCalled = true
	return m.wide, m.wideErr
}

type mockDetector struct {
	hits []domain.CategoryCandidate
	err  error
}

func (m *mockDetector) Detect(_ context.Context, _ string) ([]domain.CategoryCandidate, error) {
	return m.hits, m.err
}

type mockSemantic struct {
	hits   []domain.Candidate
	err    error
	called bool
}

func (m *mockSemantic) Search(_ context.Context, _ string, _ domain.Kind, _ domain.SemanticParams) ([]domain.Candidate, error) {
	m.called = true
	return m.hits, m.err
}

type fixture struct {
	businesses *mockBusinesses
	products   *mockProducts
	detector   *mockDetector
	semantic   *mockSemantic
	cfg        config.SearchConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var cfg config.Config
	cfg.ApplyDefaults()
	return &fixture{
		businesses: &mockBusinesses{},
		products:   &mockProducts{},
		detector:   &mockDetector{},
		semantic:   &mockSemantic{},
		cfg:        cfg.Search,
	}
}

func (f *fixture) service() *Service {
	return New(f.businesses, f.products, f.detector, f.semantic, f.cfg, zap.NewNop())
}

func businessHit(name string, categoryID *uuid.UUID, prov domain.Provenance) domain.Candidate {
	return domain.BusinessCandidate(domain.Business{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
	}, prov)
}

func productHit(title string, owner domain.Business, prov domain.Provenance) domain.Candidate {
	return domain.ProductCandidate(domain.Product{
		ID:         uuid.New(),
		Title:      title,
		BusinessID: owner.ID,
		Business:   &owner,
	}, prov)
}

func contextHit(c domain.Category, prov domain.Provenance, confidence float64) domain.CategoryCandidate {
	return domain.CategoryCandidate{Category: c, Provenance: prov, Confidence: confidence}
}
