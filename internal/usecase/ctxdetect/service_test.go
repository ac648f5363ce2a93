package ctxdetect

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/config"
	"github.com/mibarrio/buscador/internal/domain"
)

type mockLexical struct {
	hits []domain.Candidate
	err  error
}

func (m *mockLexical) SearchCategories(_ context.Context, _ string) ([]domain.Candidate, error) {
	return m.hits, m.err
}

type mockKeywords struct {
	hits []domain.Category
}

func (m *mockKeywords) Resolve(_ context.Context, _ string) []domain.Category {
	return m.hits
}

type mockSemantic struct {
	hits      []domain.Candidate
	err       error
	gotParams domain.SemanticParams
}

func (m *mockSemantic) Search(_ context.Context, _ string, _ domain.Kind, params domain.SemanticParams) ([]domain.Candidate, error) {
	m.gotParams = params
	return m.hits, m.err
}

func searchConfig(t *testing.T) config.SearchConfig {
	t.Helper()
	var cfg config.Config
	cfg.ApplyDefaults()
	return cfg.Search
}

func lexicalHit(c domain.Category, p domain.Provenance) domain.Candidate {
	return domain.CategoryCandidateOf(c, p)
}

func semanticHit(c domain.Category, sim float64) domain.Candidate {
	cand := domain.CategoryCandidateOf(c, domain.ProvenanceSemantic)
	cand.Similarity = sim
	return cand
}

func TestDetect_MergesByProvenance(t *testing.T) {
	farmacia := domain.Category{ID: uuid.New(), Name: "Farmacia"}

	// The same category arrives from all three lookups; the exact lexical hit
	// must win the merge.
	lex := &mockLexical{hits: []domain.Candidate{lexicalHit(farmacia, domain.ProvenanceExact)}}
	kw := &mockKeywords{hits: []domain.Category{farmacia}}
	sem := &mockSemantic{hits: []domain.Candidate{semanticHit(farmacia, 0.95)}}

	svc := New(lex, kw, sem, searchConfig(t), zap.NewNop())
	got, err := svc.Detect(context.Background(), "farmacia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 merged candidate, got %d", len(got))
	}
	if got[0].Provenance != domain.ProvenanceExact {
		t.Errorf("provenance = %s, expected exact", got[0].Provenance)
	}
	if got[0].Confidence != 100 {
		t.Errorf("confidence = %v, expected 100", got[0].Confidence)
	}
}

func TestDetect_NucleoOutranksSemantic(t *testing.T) {
	kiosco := domain.Category{ID: uuid.New(), Name: "Kiosco"}
	pizzeria := domain.Category{ID: uuid.New(), Name: "Pizzeria"}

	// Semantic similarity 0.99 scores 99, above the keyword confidence of 82,
	// but the keyword hit must still rank first.
	kw := &mockKeywords{hits: []domain.Category{kiosco}}
	sem := &mockSemantic{hits: []domain.Candidate{semanticHit(pizzeria, 0.99)}}

	svc := New(&mockLexical{}, kw, sem, searchConfig(t), zap.NewNop())
	got, err := svc.Detect(context.Background(), "golosinas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Category.ID != kiosco.ID {
		t.Fatalf("expected keyword hit first, got %s", got[0].Category.Name)
	}
	if !got[0].Nucleo() || got[1].Nucleo() {
		t.Error("expected nucleo/periphery split between keyword and semantic hits")
	}
}

func TestDetect_SemanticOnlyLeadsWhenNothingElse(t *testing.T) {
	pizzeria := domain.Category{ID: uuid.New(), Name: "Pizzeria"}
	hamburgueseria := domain.Category{ID: uuid.New(), Name: "Hamburgueseria"}

	sem := &mockSemantic{hits: []domain.Candidate{
		semanticHit(hamburgueseria, 0.55),
		semanticHit(pizzeria, 0.48),
	}}

	svc := New(&mockLexical{}, &mockKeywords{}, sem, searchConfig(t), zap.NewNop())
	got, err := svc.Detect(context.Background(), "tengo hambre")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Category.ID != hamburgueseria.ID {
		t.Errorf("expected highest-similarity hit first, got %s", got[0].Category.Name)
	}
	// 0.55*100 is not exactly 55 in float64, compare with a tolerance.
	if math.Abs(got[0].Confidence-55) > 1e-9 {
		t.Errorf("confidence = %v, expected similarity*100 = 55", got[0].Confidence)
	}
	if got[0].Nucleo() {
		t.Error("semantic-only hits must stay periphery")
	}
}

func TestDetect_DegradesFailedLookups(t *testing.T) {
	farmacia := domain.Category{ID: uuid.New(), Name: "Farmacia"}

	lex := &mockLexical{hits: []domain.Candidate{lexicalHit(farmacia, domain.ProvenanceExact)}}
	sem := &mockSemantic{err: errors.New("provider down")}

	svc := New(lex, &mockKeywords{}, sem, searchConfig(t), zap.NewNop())
	got, err := svc.Detect(context.Background(), "farmacia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Category.ID != farmacia.ID {
		t.Fatalf("expected the lexical hit to survive, got %v", got)
	}
}

func TestDetect_EmptyIsValid(t *testing.T) {
	svc := New(&mockLexical{}, &mockKeywords{}, &mockSemantic{}, searchConfig(t), zap.NewNop())
	got, err := svc.Detect(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no context, got %v", got)
	}
}

func TestDetect_CapsAtConfiguredLimit(t *testing.T) {
	var hits []domain.Candidate
	for i := 0; i < 8; i++ {
		hits = append(hits, semanticHit(domain.Category{ID: uuid.New(), Name: "Cat"}, 0.5))
	}
	sem := &mockSemantic{hits: hits}

	cfg := searchConfig(t)
	cfg.ContextCategoryLimit = 5
	svc := New(&mockLexical{}, &mockKeywords{}, sem, cfg, zap.NewNop())

	got, err := svc.Detect(context.Background(), "algo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected cap at 5, got %d", len(got))
	}
}

func TestDetect_UsesPrecisionParams(t *testing.T) {
	sem := &mockSemantic{}
	cfg := searchConfig(t)
	svc := New(&mockLexical{}, &mockKeywords{}, sem, cfg, zap.NewNop())

	if _, err := svc.Detect(context.Background(), "algo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.gotParams.Threshold != cfg.SemanticPrecision.Threshold {
		t.Errorf("threshold = %v, expected precision threshold %v",
			sem.gotParams.Threshold, cfg.SemanticPrecision.Threshold)
	}
	if sem.gotParams.Limit != cfg.SemanticPrecision.Limit {
		t.Errorf("limit = %d, expected precision limit %d",
			sem.gotParams.Limit, cfg.SemanticPrecision.Limit)
	}
}
