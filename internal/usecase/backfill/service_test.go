package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/domain"
	"github.com/mibarrio/buscador/internal/repository/catalog"
)

type mockCatalog struct {
	businesses []catalog.BusinessRow
	products   []catalog.ProductRow
	categories []domain.Category
	keywords   map[uuid.UUID][]string

	updateErr error
	updated   []uuid.UUID
}

func (m *mockCatalog) BusinessesMissingEmbedding(_ context.Context, _ int) ([]catalog.BusinessRow, error) {
	return m.businesses, nil
}

func (m *mockCatalog) ProductsMissingEmbedding(_ context.Context, _ int) ([]catalog.ProductRow, error) {
	return m.products, nil
}

func (m *mockCatalog) CategoriesMissingEmbedding(_ context.Context, _ int) ([]domain.Category, error) {
	return m.categories, nil
}

func (m *mockCatalog) KeywordsByCategory(_ context.Context) (map[uuid.UUID][]string, error) {
	return m.keywords, nil
}

func (m *mockCatalog) UpdateBusinessEmbedding(_ context.Context, id uuid.UUID, _ []float32) error {
	m.updated = append(m.updated, id)
	return m.updateErr
}

func (m *mockCatalog) UpdateProductEmbedding(_ context.Context, id uuid.UUID, _ []float32) error {
	m.updated = append(m.updated, id)
	return m.updateErr
}

func (m *mockCatalog) UpdateCategoryEmbedding(_ context.Context, id uuid.UUID, _ []float32) error {
	m.updated = append(m.updated, id)
	return m.updateErr
}

type mockEmbedder struct {
	err      error
	gotTexts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotTexts = append(m.gotTexts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func TestBusinessText_Enrichment(t *testing.T) {
	catID := uuid.New()
	row := catalog.BusinessRow{
		Name:         "Pikaburguers",
		CategoryID:   &catID,
		CategoryName: "Hamburgueseria",
		Address:      "Av. San Martin 1200",
	}

	got := BusinessText(row, []string{"hamburguesa", "papas"})
	want := "Pikaburguers. rubro Hamburgueseria. Av. San Martin 1200. vende hamburguesa, papas"
	if got != want {
		t.Errorf("BusinessText = %q, expected %q", got, want)
	}
}

func TestBusinessText_MinimalRow(t *testing.T) {
	got := BusinessText(catalog.BusinessRow{Name: "Bazar Central"}, nil)
	if got != "Bazar Central" {
		t.Errorf("BusinessText = %q, expected bare name", got)
	}
}

func TestProductText_Enrichment(t *testing.T) {
	row := catalog.ProductRow{
		Title:        "Taladro percutor 500W",
		Description:  "Con mandril de 13mm",
		BusinessName: "Ferreteria El Tornillo",
		CategoryName: "Ferreteria",
	}

	got := ProductText(row)
	want := "Taladro percutor 500W. Con mandril de 13mm. se vende en Ferreteria El Tornillo, rubro Ferreteria"
	if got != want {
		t.Errorf("ProductText = %q, expected %q", got, want)
	}
}

func TestCategoryText_Enrichment(t *testing.T) {
	c := domain.Category{ID: uuid.New(), Name: "Verduleria"}
	got := CategoryText(c, []string{"papas", "tomates"})
	want := "rubro Verduleria. vende papas, tomates"
	if got != want {
		t.Errorf("CategoryText = %q, expected %q", got, want)
	}

	if got := CategoryText(c, nil); got != "rubro Verduleria" {
		t.Errorf("CategoryText without keywords = %q", got)
	}
}

func TestRun_EmbedsPendingRows(t *testing.T) {
	catID := uuid.New()
	m := &mockCatalog{
		categories: []domain.Category{{ID: catID, Name: "Kiosco"}},
		businesses: []catalog.BusinessRow{{ID: uuid.New(), Name: "Kiosco 24", CategoryID: &catID, CategoryName: "Kiosco"}},
		products:   []catalog.ProductRow{{ID: uuid.New(), Title: "Alfajor"}},
		keywords:   map[uuid.UUID][]string{catID: {"golosinas"}},
	}
	embed := &mockEmbedder{}
	svc := New(m, embed, zap.NewNop())

	stats, err := svc.Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Embedded != 3 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v, expected 3 embedded", stats)
	}
	if len(m.updated) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(m.updated))
	}
	// The category keywords flow into the business text.
	if len(embed.gotTexts) < 2 || embed.gotTexts[1] != "Kiosco 24. rubro Kiosco. vende golosinas" {
		t.Errorf("unexpected business text: %v", embed.gotTexts)
	}
}

func TestRun_SkipsFailedRows(t *testing.T) {
	m := &mockCatalog{
		products: []catalog.ProductRow{
			{ID: uuid.New(), Title: "Alfajor"},
			{ID: uuid.New(), Title: "Caramelos"},
		},
	}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := New(m, embed, zap.NewNop())

	stats, err := svc.Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("per-row failures must not abort the run: %v", err)
	}
	if stats.Skipped != 2 || stats.Embedded != 0 {
		t.Fatalf("stats = %+v, expected 2 skipped", stats)
	}
}
